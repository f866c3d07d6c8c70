package scheme

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unbounded marks a Limits maximum with no upper bound.
const Unbounded = -1

// Limits is an inclusive cardinality range. Max may be Unbounded.
type Limits struct {
	Min int
	Max int
}

// Between returns the range [min, max].
func Between(min, max int) Limits {
	return Limits{Min: min, Max: max}
}

// AtLeast returns the range [min, unbounded).
func AtLeast(min int) Limits {
	return Limits{Min: min, Max: Unbounded}
}

// Exactly returns the range [n, n].
func Exactly(n int) Limits {
	return Limits{Min: n, Max: n}
}

// IsUnbounded reports whether the range has no upper bound.
func (l Limits) IsUnbounded() bool {
	return l.Max == Unbounded
}

// Contains reports whether n lies within the range.
func (l Limits) Contains(n int) bool {
	if n < l.Min {
		return false
	}
	return l.IsUnbounded() || n <= l.Max
}

// Validate checks 0 <= min <= max.
func (l Limits) Validate() error {
	if l.Min < 0 {
		return fmt.Errorf("min %d is negative", l.Min)
	}
	if l.IsUnbounded() {
		return nil
	}
	if l.Max < 0 {
		return fmt.Errorf("max %d is negative", l.Max)
	}
	if l.Min > l.Max {
		return fmt.Errorf("min %d exceeds max %d", l.Min, l.Max)
	}
	return nil
}

func (l Limits) String() string {
	if l.IsUnbounded() {
		return fmt.Sprintf("%d..inf", l.Min)
	}
	return fmt.Sprintf("%d..%d", l.Min, l.Max)
}

type limitsWire struct {
	Min int  `json:"min"`
	Max *int `json:"max"`
}

// MarshalJSON encodes an unbounded max as null.
func (l Limits) MarshalJSON() ([]byte, error) {
	w := limitsWire{Min: l.Min}
	if !l.IsUnbounded() {
		max := l.Max
		w.Max = &max
	}
	return json.Marshal(w)
}

// UnmarshalJSON treats a null or missing max as unbounded.
func (l *Limits) UnmarshalJSON(data []byte) error {
	var w limitsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	l.Min = w.Min
	l.Max = Unbounded
	if w.Max != nil {
		l.Max = *w.Max
	}
	return nil
}

// UnmarshalYAML accepts max as an integer, null, "inf" or "infinity".
func (l *Limits) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Min int        `yaml:"min"`
		Max *yaml.Node `yaml:"max"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	l.Min = raw.Min
	l.Max = Unbounded
	if raw.Max == nil || raw.Max.Tag == "!!null" {
		return nil
	}
	switch strings.ToLower(raw.Max.Value) {
	case "inf", "infinity", ".inf":
		return nil
	}
	return raw.Max.Decode(&l.Max)
}
