// Package http exposes a read-mostly inspector for a reference host:
// the current scheme revision, read model, subscriptions and entities, plus
// routes to emit events and save, and the Prometheus /metrics endpoint.
package http
