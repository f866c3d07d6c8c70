/*
Package ports defines the driven ports (interfaces) of the narrative bridge.

# Key Interfaces

  - Channel: the ordered, reliable, asynchronous message channel that separates
    the authoring context from the host controller. Adapters live under
    pkg/adapters (memory, jsonl, process, redis).
*/
package ports
