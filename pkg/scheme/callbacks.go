package scheme

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/narrative/pkg/domain"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInlineCallback is returned when a callable is about to cross the boundary
	// without having been replaced by its registry key.
	ErrInlineCallback = errors.New("inline callback cannot be serialized")

	// ErrUnresolvedCallback is returned when a callback reference holds only a key
	// that was never resolved to a function in this process.
	ErrUnresolvedCallback = errors.New("callback reference is not resolved")
)

// TransformFunc converts file content into the other representation.
// current is the existing content of the destination file, if any.
type TransformFunc func(input, current string, ctx map[string]any) (string, error)

// MergeResult is the reconciled pair produced by a MergeFunc.
type MergeResult struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// MergeFunc reconciles two diverged file representations.
type MergeFunc func(source, target string, ctx map[string]any) (MergeResult, error)

// MatchFunc selects the runtime entities a SerializationRule applies to.
type MatchFunc func(entity domain.EntityBase) bool

// SerializeFunc produces the files describing a runtime entity.
type SerializeFunc func(entity domain.EntityBase) ([]SerializedModelFile, error)

// TransformRef holds either a TransformFunc or the registry key standing in for it.
type TransformRef struct {
	Key string
	Fn  TransformFunc
}

// TransformWith wraps a function.
func TransformWith(fn TransformFunc) TransformRef { return TransformRef{Fn: fn} }

func (r TransformRef) IsZero() bool   { return r.Fn == nil && r.Key == "" }
func (r TransformRef) IsInline() bool { return r.Fn != nil }

// Call runs the function; it fails if only a key is held.
func (r TransformRef) Call(input, current string, ctx map[string]any) (string, error) {
	if r.Fn == nil {
		return "", fmt.Errorf("%w: %q", ErrUnresolvedCallback, r.Key)
	}
	return r.Fn(input, current, ctx)
}

func (r TransformRef) MarshalJSON() ([]byte, error)     { return marshalRef(r.Key, r.Fn != nil) }
func (r *TransformRef) UnmarshalJSON(data []byte) error { return unmarshalRef(data, &r.Key) }
func (r *TransformRef) UnmarshalYAML(n *yaml.Node) error { return n.Decode(&r.Key) }

// MergeRef holds either a MergeFunc or the registry key standing in for it.
type MergeRef struct {
	Key string
	Fn  MergeFunc
}

// MergeWith wraps a function.
func MergeWith(fn MergeFunc) MergeRef { return MergeRef{Fn: fn} }

func (r MergeRef) IsZero() bool   { return r.Fn == nil && r.Key == "" }
func (r MergeRef) IsInline() bool { return r.Fn != nil }

// Call runs the function; it fails if only a key is held.
func (r MergeRef) Call(source, target string, ctx map[string]any) (MergeResult, error) {
	if r.Fn == nil {
		return MergeResult{}, fmt.Errorf("%w: %q", ErrUnresolvedCallback, r.Key)
	}
	return r.Fn(source, target, ctx)
}

func (r MergeRef) MarshalJSON() ([]byte, error)     { return marshalRef(r.Key, r.Fn != nil) }
func (r *MergeRef) UnmarshalJSON(data []byte) error { return unmarshalRef(data, &r.Key) }
func (r *MergeRef) UnmarshalYAML(n *yaml.Node) error { return n.Decode(&r.Key) }

// MatchRef holds either a MatchFunc or the registry key standing in for it.
type MatchRef struct {
	Key string
	Fn  MatchFunc
}

// MatchWith wraps a function.
func MatchWith(fn MatchFunc) MatchRef { return MatchRef{Fn: fn} }

func (r MatchRef) IsZero() bool   { return r.Fn == nil && r.Key == "" }
func (r MatchRef) IsInline() bool { return r.Fn != nil }

func (r MatchRef) MarshalJSON() ([]byte, error)     { return marshalRef(r.Key, r.Fn != nil) }
func (r *MatchRef) UnmarshalJSON(data []byte) error { return unmarshalRef(data, &r.Key) }
func (r *MatchRef) UnmarshalYAML(n *yaml.Node) error { return n.Decode(&r.Key) }

// SerializeRef holds either a SerializeFunc or the registry key standing in for it.
type SerializeRef struct {
	Key string
	Fn  SerializeFunc
}

// SerializeWith wraps a function.
func SerializeWith(fn SerializeFunc) SerializeRef { return SerializeRef{Fn: fn} }

func (r SerializeRef) IsZero() bool   { return r.Fn == nil && r.Key == "" }
func (r SerializeRef) IsInline() bool { return r.Fn != nil }

func (r SerializeRef) MarshalJSON() ([]byte, error)     { return marshalRef(r.Key, r.Fn != nil) }
func (r *SerializeRef) UnmarshalJSON(data []byte) error { return unmarshalRef(data, &r.Key) }
func (r *SerializeRef) UnmarshalYAML(n *yaml.Node) error { return n.Decode(&r.Key) }

// marshalRef encodes the key. A callable without a key cannot be encoded.
func marshalRef(key string, inline bool) ([]byte, error) {
	switch {
	case key != "":
		return json.Marshal(key)
	case inline:
		return nil, ErrInlineCallback
	default:
		return []byte("null"), nil
	}
}

func unmarshalRef(data []byte, key *string) error {
	if string(data) == "null" {
		*key = ""
		return nil
	}
	return json.Unmarshal(data, key)
}
