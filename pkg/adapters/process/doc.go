// Package process runs a host controller as a child process and talks to it
// over JSON-Lines on its stdin/stdout.
package process
