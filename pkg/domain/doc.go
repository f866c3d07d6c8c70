/*
Package domain holds the runtime shapes exchanged between an authoring
context and a host controller: canvas entities, the command catalog and the
event catalog.

It has no dependencies on the rest of the module, so both sides of the
boundary can import it.

# Key Entities

  - EntityBase: an entity instance on the canvas (id, type, position, children).
  - EntityChanges: added, updated and deleted entities reported on save.
  - Command: a class identifier plus params, e.g. AddEntityCommand.
  - Event payloads: EntitiesAddedEvent, EntityRenamedEvent, ChangesSavedEvent.
*/
package domain
