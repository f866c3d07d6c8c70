// Package redis carries the authoring/host channel over a pair of Redis lists,
// so the two sides can run on different machines.
package redis
