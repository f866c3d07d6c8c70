package scheme

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EntityRef identifies an entity kind by its type tag (Asset.Type, Construct.Type).
type EntityRef string

// RefOf returns the reference for an asset.
func RefOf(a Asset) EntityRef {
	return EntityRef(a.Type)
}

// ConstructRef returns the reference for a construct.
func ConstructRef(c Construct) EntityRef {
	return EntityRef(c.Type)
}

// AllowedKind is the closed tag of AllowedEntityTypes.
type AllowedKind string

const (
	AllowAll      AllowedKind = "ALL"
	AllowNone     AllowedKind = "NONE"
	AllowSpecific AllowedKind = "SPECIFIC"
)

// AllowedEntityTypes restricts which entities may be placed in a grid element.
// A SPECIFIC value with an empty list allows nothing.
type AllowedEntityTypes struct {
	Kind     AllowedKind `json:"type" yaml:"type"`
	Entities []EntityRef `json:"entities,omitempty" yaml:"entities,omitempty"`
}

// AllowAllEntities allows every entity type.
func AllowAllEntities() *AllowedEntityTypes {
	return &AllowedEntityTypes{Kind: AllowAll}
}

// AllowNoEntities rejects every entity type.
func AllowNoEntities() *AllowedEntityTypes {
	return &AllowedEntityTypes{Kind: AllowNone}
}

// AllowOnly allows exactly the listed entity types.
func AllowOnly(refs ...EntityRef) *AllowedEntityTypes {
	return &AllowedEntityTypes{Kind: AllowSpecific, Entities: append([]EntityRef{}, refs...)}
}

// Allows reports whether entityType may be placed. A nil receiver places no
// restriction; the enclosing group decides.
func (a *AllowedEntityTypes) Allows(entityType string) bool {
	if a == nil {
		return true
	}
	switch a.Kind {
	case AllowAll:
		return true
	case AllowSpecific:
		for _, e := range a.Entities {
			if string(e) == entityType {
				return true
			}
		}
	}
	return false
}

// Validate rejects unknown tags and lists attached to ALL/NONE.
func (a *AllowedEntityTypes) Validate() error {
	if a == nil {
		return nil
	}
	switch a.Kind {
	case AllowAll, AllowNone:
		if len(a.Entities) > 0 {
			return fmt.Errorf("allowed entities %s must not list entities", a.Kind)
		}
		return nil
	case AllowSpecific:
		return nil
	default:
		return fmt.Errorf("unknown allowed entities type %q", a.Kind)
	}
}

// FindConflict returns the first conflict group of which at least two members
// are present, or nil.
func FindConflict(groups [][]EntityRef, present []string) []EntityRef {
	seen := make(map[string]bool, len(present))
	for _, p := range present {
		seen[p] = true
	}
	for _, group := range groups {
		hits := 0
		for _, ref := range group {
			if seen[string(ref)] {
				hits++
			}
		}
		if hits >= 2 {
			return group
		}
	}
	return nil
}

// AllowedActions is the bitset of structural edits a user may perform on a group.
type AllowedActions uint8

const (
	ActionNone    AllowedActions = 0
	ActionAdd     AllowedActions = 1 << 0
	ActionRemove  AllowedActions = 1 << 1
	ActionReorder AllowedActions = 1 << 2
	ActionAll                    = ActionAdd | ActionRemove | ActionReorder
)

var actionNames = []struct {
	name   string
	action AllowedActions
}{
	{"ADD", ActionAdd},
	{"REMOVE", ActionRemove},
	{"REORDER", ActionReorder},
}

// Has reports whether every bit of action is set.
func (a AllowedActions) Has(action AllowedActions) bool {
	return a&action == action
}

func (a AllowedActions) String() string {
	switch a {
	case ActionNone:
		return "NONE"
	case ActionAll:
		return "ALL"
	}
	var names []string
	for _, n := range actionNames {
		if a.Has(n.action) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// ParseAction maps a name (ADD, REMOVE, REORDER, ALL, NONE) to its bits.
func ParseAction(name string) (AllowedActions, error) {
	switch strings.ToUpper(name) {
	case "ALL":
		return ActionAll, nil
	case "NONE":
		return ActionNone, nil
	}
	for _, n := range actionNames {
		if strings.EqualFold(n.name, name) {
			return n.action, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// UnmarshalYAML accepts either the numeric bitset or a list of action names.
func (a *AllowedActions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var n uint8
		if err := node.Decode(&n); err == nil {
			*a = AllowedActions(n)
			return nil
		}
		parsed, err := ParseAction(node.Value)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}
	var names []string
	if err := node.Decode(&names); err != nil {
		return err
	}
	var out AllowedActions
	for _, name := range names {
		parsed, err := ParseAction(name)
		if err != nil {
			return err
		}
		out |= parsed
	}
	*a = out
	return nil
}
