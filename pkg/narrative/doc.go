/*
Package narrative is the authoring side of the scheme/host boundary.

A Narrative sits on a ports.Channel. CreateScheme externalizes the scheme's
callbacks through a registry.Registry and sends it; SendCommand sends a
domain.Command; both wait for the host's command-response. SubscribeToEvents
registers a handler for event kinds; UpdateReadModel pushes data one way.

	author, host := memory.NewPair()
	n := narrative.New(author, narrative.WithRegistry(registry.New()))
	err := n.CreateScheme(ctx, s)
*/
package narrative
