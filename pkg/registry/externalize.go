package registry

import (
	"fmt"

	"github.com/aretw0/narrative/pkg/scheme"
	"github.com/mohae/deepcopy"
)

// Role names the slot a callback fills. It is the first component of a key.
type Role string

const (
	RoleTransformToTarget Role = "transformToTarget"
	RoleTransformToSource Role = "transformToSource"
	RoleMerge             Role = "merge"
	RoleMatch             Role = "match"
	RoleSerialize         Role = "serialize"
)

// Key derives the deterministic key "<role>:<source>-><target>".
func Key(role Role, source, target string) string {
	return fmt.Sprintf("%s:%s->%s", role, source, target)
}

// ConfigurationError reports a rule that cannot be given a key because a
// naming field is missing.
type ConfigurationError struct {
	Path   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("registry: %s: %s", e.Path, e.Reason)
}

// Externalize returns a deep copy of s in which every callback held by a
// FileTransformRule or SerializationRule is registered and replaced by its
// key. s itself is never modified. Rules are keyed by their
// SourceName/TargetName (EntityType/FileType for serialization rules), so
// externalizing the same rule twice yields the same key.
func (r *Registry) Externalize(s *scheme.Scheme) (*scheme.Scheme, error) {
	if s == nil {
		return nil, nil
	}
	out := deepcopy.Copy(s).(*scheme.Scheme)

	for i, cat := range out.Categories {
		if cat == nil {
			continue
		}
		for j := range cat.Assets {
			path := fmt.Sprintf("categories[%d].assets[%d]", i, j)
			if err := r.externalizeTransforms(path, cat.Assets[j].FileTransformRules); err != nil {
				return nil, err
			}
		}
		for j, c := range cat.Constructs {
			if c == nil {
				continue
			}
			path := fmt.Sprintf("categories[%d].constructs[%d]", i, j)
			if err := r.externalizeTransforms(path, c.FileTransformRules); err != nil {
				return nil, err
			}
		}
	}

	for i := range out.SerializationRules {
		rule := &out.SerializationRules[i]
		if !rule.Match.IsInline() && !rule.Serialize.IsInline() {
			continue
		}
		if rule.EntityType == "" || rule.FileType == "" {
			return nil, &ConfigurationError{
				Path:   fmt.Sprintf("serializationRules[%d]", i),
				Reason: "entityType and fileType are required to externalize callbacks",
			}
		}
		if rule.Match.IsInline() {
			rule.Match = scheme.MatchRef{Key: r.put(RoleMatch, rule.EntityType, rule.FileType, rule.Match.Fn)}
		}
		if rule.Serialize.IsInline() {
			rule.Serialize = scheme.SerializeRef{Key: r.put(RoleSerialize, rule.EntityType, rule.FileType, rule.Serialize.Fn)}
		}
	}

	return out, nil
}

func (r *Registry) externalizeTransforms(path string, rules []scheme.FileTransformRule) error {
	for i := range rules {
		rule := &rules[i]
		if !rule.TransformToTarget.IsInline() && !rule.TransformToSource.IsInline() && !rule.Merge.IsInline() {
			continue
		}
		if rule.SourceName == "" || rule.TargetName == "" {
			return &ConfigurationError{
				Path:   fmt.Sprintf("%s.fileTransformRules[%d]", path, i),
				Reason: "sourceName and targetName are required to externalize callbacks",
			}
		}
		if rule.TransformToTarget.IsInline() {
			rule.TransformToTarget = scheme.TransformRef{
				Key: r.put(RoleTransformToTarget, rule.SourceName, rule.TargetName, rule.TransformToTarget.Fn),
			}
		}
		if rule.TransformToSource.IsInline() {
			rule.TransformToSource = scheme.TransformRef{
				Key: r.put(RoleTransformToSource, rule.SourceName, rule.TargetName, rule.TransformToSource.Fn),
			}
		}
		if rule.Merge.IsInline() {
			rule.Merge = scheme.MergeRef{
				Key: r.put(RoleMerge, rule.SourceName, rule.TargetName, rule.Merge.Fn),
			}
		}
	}
	return nil
}

func (r *Registry) put(role Role, source, target string, fn any) string {
	key := Key(role, source, target)
	r.Register(key, fn)
	return key
}

// Internalize returns a deep copy of s in which every key-only callback
// reference that resolves in this registry holds the function again. Keys
// that do not resolve are left as they are.
func (r *Registry) Internalize(s *scheme.Scheme) *scheme.Scheme {
	if s == nil {
		return nil
	}
	out := deepcopy.Copy(s).(*scheme.Scheme)

	for _, cat := range out.Categories {
		if cat == nil {
			continue
		}
		for j := range cat.Assets {
			r.ResolveRules(cat.Assets[j].FileTransformRules)
		}
		for _, c := range cat.Constructs {
			if c != nil {
				r.ResolveRules(c.FileTransformRules)
			}
		}
	}
	for i := range out.SerializationRules {
		rule := &out.SerializationRules[i]
		if rule.Match.Fn == nil && rule.Match.Key != "" {
			if fn, ok := r.ResolveMatch(rule.Match.Key); ok {
				rule.Match.Fn = fn
			}
		}
		if rule.Serialize.Fn == nil && rule.Serialize.Key != "" {
			if fn, ok := r.ResolveSerialize(rule.Serialize.Key); ok {
				rule.Serialize.Fn = fn
			}
		}
	}
	return out
}

// ResolveRules fills in, in place, the functions of every key-only transform
// and merge reference that resolves in this registry.
func (r *Registry) ResolveRules(rules []scheme.FileTransformRule) {
	for i := range rules {
		rule := &rules[i]
		if rule.TransformToTarget.Fn == nil && rule.TransformToTarget.Key != "" {
			if fn, ok := r.ResolveTransform(rule.TransformToTarget.Key); ok {
				rule.TransformToTarget.Fn = fn
			}
		}
		if rule.TransformToSource.Fn == nil && rule.TransformToSource.Key != "" {
			if fn, ok := r.ResolveTransform(rule.TransformToSource.Key); ok {
				rule.TransformToSource.Fn = fn
			}
		}
		if rule.Merge.Fn == nil && rule.Merge.Key != "" {
			if fn, ok := r.ResolveMerge(rule.Merge.Key); ok {
				rule.Merge.Fn = fn
			}
		}
	}
}
