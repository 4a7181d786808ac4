package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyKeyPath is returned for an empty configuration key.
var ErrEmptyKeyPath = errors.New("empty key path")

var errEmptySegment = errors.New("empty key segment")

// ParseKeyPath splits a dotted key ("notifications.enabled") into segments.
func ParseKeyPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyKeyPath
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid key path %q: %w", path, errEmptySegment)
		}
	}
	return parts, nil
}

// SetConfigValue validates value against the schema for key and writes it to
// the YAML file at path, creating the file if needed. Existing comments and
// unrelated keys are preserved because the file is edited as a node tree.
func SetConfigValue(path, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return err
	}

	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := ValidateYAMLSyntaxFromBytes(data, path); err != nil {
		return err
	}

	var root yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := SetNestedValue(&root, keyPath, parsed.Parsed); err != nil {
		return err
	}

	out, err := yaml.Marshal(&root)
	if err != nil {
		return fmt.Errorf("encoding config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// SetNestedValue sets keyPath to value inside a YAML document node, creating
// intermediate mappings as needed. The line comment of a replaced value is kept.
func SetNestedValue(root *yaml.Node, keyPath []string, value interface{}) error {
	if len(keyPath) == 0 {
		return ErrEmptyKeyPath
	}

	mapping, err := documentMapping(root)
	if err != nil {
		return err
	}

	for i, key := range keyPath {
		idx := findKey(mapping, key)

		if i == len(keyPath)-1 {
			var valueNode yaml.Node
			if err := valueNode.Encode(value); err != nil {
				return fmt.Errorf("encoding value for %s: %w", strings.Join(keyPath, "."), err)
			}
			if idx >= 0 {
				old := mapping.Content[idx+1]
				valueNode.LineComment = old.LineComment
				mapping.Content[idx+1] = &valueNode
			} else {
				mapping.Content = append(mapping.Content, scalarKey(key), &valueNode)
			}
			return nil
		}

		if idx >= 0 {
			child := mapping.Content[idx+1]
			if child.Kind != yaml.MappingNode {
				child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
				mapping.Content[idx+1] = child
			}
			mapping = child
			continue
		}

		child := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		mapping.Content = append(mapping.Content, scalarKey(key), child)
		mapping = child
	}
	return nil
}

// GetNestedValue returns the node at keyPath, or nil when it does not exist.
func GetNestedValue(root *yaml.Node, keyPath []string) *yaml.Node {
	if len(keyPath) == 0 || root == nil {
		return nil
	}

	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}

	for _, key := range keyPath {
		if node.Kind != yaml.MappingNode {
			return nil
		}
		idx := findKey(node, key)
		if idx < 0 {
			return nil
		}
		node = node.Content[idx+1]
	}
	return node
}

// documentMapping returns the top-level mapping of a document, initializing
// an empty node into a document holding an empty mapping.
func documentMapping(root *yaml.Node) (*yaml.Node, error) {
	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
	}
	if root.Kind != yaml.DocumentNode {
		return nil, fmt.Errorf("expected a YAML document, got node kind %d", root.Kind)
	}
	if len(root.Content) == 0 {
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config root must be a mapping")
	}
	return mapping, nil
}

func findKey(mapping *yaml.Node, key string) int {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func scalarKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
