/*
Package narrative describes visual modeling schemes and carries them, together
with commands, events and read-model updates, between an authoring side and a
host controller that renders the canvas.

# Concept

An author builds a Scheme with the staged builder in pkg/scheme, or loads one
from a YAML/JSON file with pkg/schemefile. Callbacks attached to the scheme
(file transforms, merges, serializers) cannot cross a process boundary, so
pkg/registry replaces each of them with a deterministic key before the scheme
is sent and resolves the keys again on arrival.

The author talks to the host through pkg/narrative. Every createScheme and
command request is answered by exactly one command-response, in order. Events
flow the other way to subscribed handlers.

# Transports

A channel (pkg/ports.Channel) is the only thing both sides share:

  - pkg/adapters/memory: an in-process pair, for tests and embedding.
  - pkg/adapters/jsonl: JSON Lines over any reader/writer pair.
  - pkg/adapters/process: JSON Lines over the stdio of a spawned host.
  - pkg/adapters/redis: two Redis lists, one per direction.

# Host

pkg/host is a reference host controller. It validates incoming schemes,
keeps an entity model, dispatches commands to typed handlers and emits events
to the kinds the author subscribed to. pkg/adapters/http exposes its state
for inspection.

The narrative command wires all of the above together:

	narrative validate flow.yaml
	narrative describe flow.yaml --mermaid
	narrative host --http :8080
	narrative push flow.yaml --host editor --config hosts.yaml
*/
package narrative
