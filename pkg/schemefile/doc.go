// Package schemefile reads and writes scheme documents as YAML or JSON.
// Loaded documents are replayed through a scheme.Session, so a file can only
// describe what the builder itself could build. Callbacks appear as their
// registry keys.
package schemefile
