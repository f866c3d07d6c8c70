package domain

// Event kinds published by hosts.
const (
	EventEntitiesAdded = "EntitiesAddedEvent"
	EventEntityRenamed = "EntityRenamedEvent"
	EventChangesSaved  = "ChangesSavedEvent"
)

// EntitiesAddedEvent is the payload of EventEntitiesAdded.
type EntitiesAddedEvent struct {
	EntityIDs []string `json:"entityIds" mapstructure:"entityIds"`
}

// EntityRenamedEvent is the payload of EventEntityRenamed.
type EntityRenamedEvent struct {
	EntityID string `json:"entityId" mapstructure:"entityId"`
	NewName  string `json:"newName" mapstructure:"newName"`
}

// ChangesSavedEvent is the payload of EventChangesSaved.
type ChangesSavedEvent struct {
	Changes EntityChanges `json:"changes" mapstructure:"changes"`
}
