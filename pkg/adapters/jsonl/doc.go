// Package jsonl carries boundary messages as JSON-Lines over any
// io.Reader/io.Writer pair, typically the stdio of a child process.
package jsonl
