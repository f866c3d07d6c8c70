/*
Package host is a reference host controller for the narrative protocol.

A Host listens on the host end of a ports.Channel. It stores each scheme it
receives as a new Revision after validating it, runs registered command
Handlers, keeps the author's subscriptions and read model, and emits events
for subscribed kinds only. Every create-scheme and command message gets
exactly one command-response, in arrival order, which is what the author's
type-only correlation relies on.

The built-in handlers keep entities in a Model:

	AddEntityCommand     -> EntitiesAddedEvent
	RenameEntityCommand  -> EntityRenamedEvent
	Save                 -> ChangesSavedEvent
*/
package host
