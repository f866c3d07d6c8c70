package scheme

import (
	"fmt"

	"github.com/aretw0/narrative/pkg/domain"
)

// FileTransformRule converts content between a source file and a target file.
// SourceName and TargetName identify the rule and derive its callback keys.
type FileTransformRule struct {
	SourceName        string       `json:"sourceName" yaml:"sourceName"`
	TargetName        string       `json:"targetName" yaml:"targetName"`
	TransformToTarget TransformRef `json:"transformToTarget,omitzero" yaml:"transformToTarget,omitempty"`
	TransformToSource TransformRef `json:"transformToSource,omitzero" yaml:"transformToSource,omitempty"`
	Merge             MergeRef     `json:"merge,omitzero" yaml:"merge,omitempty"`
}

// SerializedModelFile describes one file produced for a runtime entity.
type SerializedModelFile struct {
	FileName            string   `json:"fileName" yaml:"fileName"`
	FileType            string   `json:"fileType" yaml:"fileType"`
	Content             any      `json:"content,omitempty" yaml:"content,omitempty"`
	ContentFromFile     string   `json:"contentFromFile,omitempty" yaml:"contentFromFile,omitempty"`
	EntityType          string   `json:"entityType,omitempty" yaml:"entityType,omitempty"`
	EntityID            string   `json:"entityId,omitempty" yaml:"entityId,omitempty"`
	InboundTransitions  []string `json:"inboundTransitions,omitempty" yaml:"inboundTransitions,omitempty"`
	OutboundTransitions []string `json:"outboundTransitions,omitempty" yaml:"outboundTransitions,omitempty"`
}

// SerializationRule maps runtime entities of EntityType to files of FileType.
// When Match is unset, entities are matched on their type tag.
type SerializationRule struct {
	EntityType string       `json:"entityType" yaml:"entityType"`
	FileType   string       `json:"fileType" yaml:"fileType"`
	Match      MatchRef     `json:"match,omitzero" yaml:"match,omitempty"`
	Serialize  SerializeRef `json:"serialize,omitzero" yaml:"serialize,omitempty"`
}

// Matches reports whether the rule applies to entity.
func (r SerializationRule) Matches(entity domain.EntityBase) bool {
	if r.Match.Fn != nil {
		return r.Match.Fn(entity)
	}
	return entity.Type == r.EntityType
}

// Apply returns the files for entity, or nil when the rule does not match.
func (r SerializationRule) Apply(entity domain.EntityBase) ([]SerializedModelFile, error) {
	if !r.Matches(entity) {
		return nil, nil
	}
	if r.Serialize.Fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedCallback, r.Serialize.Key)
	}
	files, err := r.Serialize.Fn(entity)
	if err != nil {
		return nil, fmt.Errorf("serialize %s %s: %w", entity.Type, entity.ID, err)
	}
	return files, nil
}

// SerializeEntity applies every matching rule in order and concatenates the output.
func SerializeEntity(rules []SerializationRule, entity domain.EntityBase) ([]SerializedModelFile, error) {
	var out []SerializedModelFile
	for _, rule := range rules {
		files, err := rule.Apply(entity)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}
