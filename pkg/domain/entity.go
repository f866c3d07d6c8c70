package domain

// Position is a canvas coordinate.
type Position struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

// EntityBase is a runtime entity placed on the canvas by the host.
type EntityBase struct {
	ID       string       `json:"id" mapstructure:"id"`
	Name     string       `json:"name" mapstructure:"name"`
	Type     string       `json:"type" mapstructure:"type"`
	Position Position     `json:"position" mapstructure:"position"`
	ParentID string       `json:"parentId,omitempty" mapstructure:"parentId"`
	Children []EntityBase `json:"children,omitempty" mapstructure:"children"`
}

// UpdatedEntity is an entity together with the properties that changed.
type UpdatedEntity struct {
	Entity             EntityBase `json:"entity" mapstructure:"entity"`
	ModifiedProperties []string   `json:"modifiedProperties" mapstructure:"modifiedProperties"`
}

// DeletedEntity identifies a removed entity.
type DeletedEntity struct {
	ID     string   `json:"id" mapstructure:"id"`
	Type   string   `json:"type" mapstructure:"type"`
	Scopes []string `json:"scopes,omitempty" mapstructure:"scopes"`
}

// EntityChanges is the change set reported when the host saves the model.
type EntityChanges struct {
	Added   []EntityBase    `json:"added" mapstructure:"added"`
	Updated []UpdatedEntity `json:"updated" mapstructure:"updated"`
	Deleted []DeletedEntity `json:"deleted" mapstructure:"deleted"`
}

// Empty reports whether the change set carries nothing.
func (c EntityChanges) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}
