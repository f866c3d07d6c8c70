package schemefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/narrative/pkg/scheme"
	"gopkg.in/yaml.v3"
)

// Format is a scheme file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension. Anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFormat parses a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (want yaml or json)", s)
}

// Load reads and parses a scheme file.
func Load(path string) (*scheme.Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scheme file: %w", err)
	}
	s, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scheme document and replays it through a scheme.Session,
// so the result is exactly what the builder would produce for the same calls.
// Callback fields hold registry keys.
func Parse(data []byte, format Format) (*scheme.Scheme, error) {
	var doc scheme.Scheme
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse scheme: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse scheme: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return Replay(&doc)
}

// Replay rebuilds doc through a new Session.
func Replay(doc *scheme.Scheme) (*scheme.Scheme, error) {
	session := scheme.NewSession(scheme.SchemeInput{
		Name:             doc.Name,
		FileExtension:    doc.FileExtension,
		DefaultConstruct: doc.DefaultConstruct,
	})
	if doc.SerializationRules != nil {
		if err := session.WithSerializationRules(doc.SerializationRules); err != nil {
			return nil, err
		}
	}
	if doc.ViewModes != nil {
		if err := session.WithViewModes(doc.ViewModes); err != nil {
			return nil, err
		}
	}

	for i, cat := range doc.Categories {
		if cat == nil {
			return nil, fmt.Errorf("categories[%d]: empty category", i)
		}
		if err := replayCategory(session, cat); err != nil {
			return nil, fmt.Errorf("categories[%d]: %w", i, err)
		}
	}
	return session.Build(), nil
}

func replayCategory(session *scheme.Session, cat *scheme.Category) error {
	if err := session.AddCategory(cat.Name); err != nil {
		return err
	}
	for _, a := range cat.Assets {
		if err := session.AddAsset(a); err != nil {
			return err
		}
	}
	for _, c := range cat.Containers {
		if err := session.AddContainer(c); err != nil {
			return err
		}
	}
	for i, c := range cat.Constructs {
		if c == nil {
			return fmt.Errorf("constructs[%d]: empty construct", i)
		}
		if err := replayConstruct(session, c); err != nil {
			return fmt.Errorf("constructs[%d]: %w", i, err)
		}
	}
	return nil
}

func replayConstruct(session *scheme.Session, c *scheme.Construct) error {
	if err := session.AddConstruct(*c); err != nil {
		return err
	}
	if len(c.Zones) > 0 {
		if err := session.WithZones(c.Zones); err != nil {
			return err
		}
	}
	if c.Script == nil {
		return nil
	}

	if err := session.AddScript(*c.Script); err != nil {
		return err
	}
	for _, g := range c.Script.FrameGroups {
		if g == nil {
			continue
		}
		if err := session.AddFrameGroup(*g); err != nil {
			return err
		}
		for _, f := range g.Frames {
			if err := session.AddFrame(f); err != nil {
				return err
			}
		}
	}
	for _, g := range c.Script.LaneGroups {
		if g == nil {
			continue
		}
		if err := session.AddLaneGroup(*g); err != nil {
			return err
		}
		for _, l := range g.Lanes {
			if err := session.AddLane(l); err != nil {
				return err
			}
		}
	}
	return nil
}

// Marshal encodes s. Inline callbacks fail with scheme.ErrInlineCallback;
// externalize the scheme first.
func Marshal(s *scheme.Scheme, format Format) ([]byte, error) {
	var jsonBuf bytes.Buffer
	jenc := json.NewEncoder(&jsonBuf)
	jenc.SetEscapeHTML(false)
	jenc.SetIndent("", "  ")
	if err := jenc.Encode(s); err != nil {
		return nil, err
	}
	data := jsonBuf.Bytes()
	if format == FormatJSON {
		return data, nil
	}

	// Going through JSON keeps field order and the null encoding of
	// unbounded limits.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle | yaml.DoubleQuotedStyle
	for _, c := range n.Content {
		blockStyle(c)
	}
}
