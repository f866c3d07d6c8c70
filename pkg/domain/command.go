package domain

// Command is a request for the host to change the model.
// CommandClass is the identifier sent on the wire.
type Command interface {
	CommandClass() string
	CommandParams() any
}

// Command classes understood by hosts.
const (
	CommandAddEntity    = "AddEntityCommand"
	CommandRenameEntity = "RenameEntityCommand"
)

// AddEntityParams places a new entity on the canvas.
type AddEntityParams struct {
	ID        string   `json:"id" mapstructure:"id"`
	Name      string   `json:"name" mapstructure:"name"`
	Position  Position `json:"position" mapstructure:"position"`
	Type      string   `json:"type" mapstructure:"type"`
	CreatedBy string   `json:"createdBy,omitempty" mapstructure:"createdBy"`
	AssetID   string   `json:"assetId,omitempty" mapstructure:"assetId"`
}

// AddEntityCommand requests AddEntityParams be applied.
type AddEntityCommand struct {
	Params AddEntityParams
}

func (c AddEntityCommand) CommandClass() string { return CommandAddEntity }
func (c AddEntityCommand) CommandParams() any   { return c.Params }

// RenameEntityParams renames an existing entity.
type RenameEntityParams struct {
	EntityID string `json:"entityId" mapstructure:"entityId"`
	NewName  string `json:"newName" mapstructure:"newName"`
}

// RenameEntityCommand requests RenameEntityParams be applied.
type RenameEntityCommand struct {
	Params RenameEntityParams
}

func (c RenameEntityCommand) CommandClass() string { return CommandRenameEntity }
func (c RenameEntityCommand) CommandParams() any   { return c.Params }

// RawCommand sends an arbitrary class with arbitrary params.
type RawCommand struct {
	Class  string
	Params any
}

func (c RawCommand) CommandClass() string { return c.Class }
func (c RawCommand) CommandParams() any   { return c.Params }
