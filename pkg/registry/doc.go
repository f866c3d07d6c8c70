/*
Package registry lets callbacks embedded in a scheme cross a boundary that
can only carry data.

Externalize replaces every transform, merge and serialization callback with a
key of the form "<role>:<sourceName>-><targetName>" and registers the
function under that key. On the receiving side, Internalize (or Resolve)
turns keys back into functions when the same process registered them; keys
it does not know stay plain strings.

Keys are deterministic, so re-externalizing a structurally identical rule
overwrites the entry with an equivalent function. Entries are never evicted.
*/
package registry
