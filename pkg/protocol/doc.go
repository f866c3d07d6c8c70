// Package protocol defines the messages exchanged between an authoring
// context and a host controller, and their JSON encoding.
package protocol
