package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// codec parses one file format. decode fills target and returns the
// top-level keys as a generic tree. A failure reports KindSyntax when data is
// not structured data and KindShape when it does not fit target.
type codec interface {
	decode(data []byte, target any) (map[string]any, Kind, error)
}

var codecs = map[string]codec{
	"yml":  yamlCodec{},
	"yaml": yamlCodec{},
	"toml": tomlCodec{},
}

// Extensions lists the supported file extensions.
func Extensions() []string {
	return []string{"yml", "yaml", "toml"}
}

func codecFor(ext string) (codec, error) {
	c, ok := codecs[strings.ToLower(strings.TrimPrefix(ext, "."))]
	if !ok {
		return nil, fmt.Errorf("unsupported configuration file extension %q", ext)
	}
	return c, nil
}

type yamlCodec struct{}

func (yamlCodec) decode(data []byte, target any) (map[string]any, Kind, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			// empty document
			return map[string]any{}, 0, nil
		}
		return nil, KindSyntax, err
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("yaml: line %d: unexpected additional document", extra.Line)
		}
		return nil, KindSyntax, err
	}

	if err := checkDuplicateKeys(&doc); err != nil {
		return nil, KindSyntax, err
	}

	var tree map[string]any
	if err := doc.Decode(&tree); err != nil {
		return nil, KindShape, err
	}
	if err := doc.Decode(target); err != nil {
		return nil, KindShape, err
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return tree, 0, nil
}

// checkDuplicateKeys rejects mappings that repeat a key. Merge keys (<<) may
// appear more than once.
func checkDuplicateKeys(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode {
		seen := make(map[string]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode || key.Value == "<<" {
				continue
			}
			if line, ok := seen[key.Value]; ok {
				return fmt.Errorf("yaml: line %d: mapping key %q already defined at line %d", key.Line, key.Value, line)
			}
			seen[key.Value] = key.Line
		}
	}
	for _, child := range n.Content {
		if err := checkDuplicateKeys(child); err != nil {
			return err
		}
	}
	return nil
}

type tomlCodec struct{}

// decode normalises integers in the tree to int so Sections holds the same
// types as for YAML files.
func (tomlCodec) decode(data []byte, target any) (map[string]any, Kind, error) {
	tree := map[string]any{}
	if _, err := toml.Decode(string(data), &tree); err != nil {
		return nil, KindSyntax, err
	}
	if _, err := toml.Decode(string(data), target); err != nil {
		return nil, KindShape, err
	}
	return normalizeTOML(tree).(map[string]any), 0, nil
}

func normalizeTOML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeTOML(item)
		}
		return val
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeTOML(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalizeTOML(item)
		}
		return val
	case int64:
		if int64(int(val)) == val {
			return int(val)
		}
		return val
	default:
		return v
	}
}
