package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseWorkspace reads and validates a workspace descriptor.
func ParseWorkspace(path string) (*Workspace, error) {
	var ws Workspace
	if err := parseFile(path, &ws); err != nil {
		return nil, err
	}
	if err := ValidateWorkspace(&ws); err != nil {
		return nil, invalid(path, err)
	}
	return &ws, nil
}

// ParseCommand reads and validates a command descriptor.
func ParseCommand(path string) (*Command, error) {
	var cmd Command
	if err := parseFile(path, &cmd); err != nil {
		return nil, err
	}
	if err := ValidateCommand(&cmd); err != nil {
		return nil, invalid(path, err)
	}
	return &cmd, nil
}

// DecodeCommand strictly decodes a command descriptor without validating it.
func DecodeCommand(data []byte) (*Command, error) {
	var cmd Command
	if err := decode(data, &cmd); err != nil {
		return nil, err
	}
	return &cmd, nil
}

// DecodeWorkspace strictly decodes a workspace descriptor without validating it.
func DecodeWorkspace(data []byte) (*Workspace, error) {
	var ws Workspace
	if err := decode(data, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

func parseFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Unable to read %s.", path)
	}
	if err := decode(data, v); err != nil {
		return invalid(path, err)
	}
	return nil
}

func invalid(path string, err error) error {
	return fmt.Errorf("Invalid descriptor: %s. %w", path, err)
}

func decode(data []byte, v any) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}
	if err := checkRootKind(&root); err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func checkRootKind(root *yaml.Node) error {
	node := root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	var kind string
	switch node.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		return nil
	case yaml.ScalarNode:
		kind = "scalar"
		if node.Tag == "!!null" {
			kind = "empty"
		}
	case 0, yaml.DocumentNode:
		kind = "empty"
	default:
		kind = "unknown"
	}
	return fmt.Errorf("The root YAML type is: %s. The root YAML object must be a map or an array.", kind)
}
