// Package descriptor defines the YAML descriptors that mark an fx
// workspace (workspace.fx.yaml) and each of its commands (command.fx.yaml).
package descriptor

import "fmt"

const (
	// SupportedVersion is the only descriptor_version fx understands.
	SupportedVersion = "v1beta"

	// WorkspaceFilename marks the root of a workspace.
	WorkspaceFilename = "workspace.fx.yaml"
	// CommandFilename marks a command directory.
	CommandFilename = "command.fx.yaml"
)

// Workspace is the contents of workspace.fx.yaml.
type Workspace struct {
	DescriptorVersion string   `yaml:"descriptor_version"`
	Ignore            []string `yaml:"ignore"`
}

// Command is the contents of command.fx.yaml.
type Command struct {
	DescriptorVersion string     `yaml:"descriptor_version"`
	Synopsis          string     `yaml:"synopsis"`
	Description       string     `yaml:"description"`
	Runtime           Runtime    `yaml:"runtime"`
	Options           []Option   `yaml:"options"`
	Arguments         []Argument `yaml:"arguments"`
}

// Runtime says how to launch the command.
type Runtime struct {
	Run string `yaml:"run"`
}

// Option is a named flag, e.g. --language or -l.
type Option struct {
	Name        string       `yaml:"name"`
	ShortName   string       `yaml:"short_name"`
	Description string       `yaml:"description"`
	BoolValue   *BoolValue   `yaml:"bool_value"`
	IntValue    *IntValue    `yaml:"int_value"`
	DoubleValue *DoubleValue `yaml:"double_value"`
	StringValue *StringValue `yaml:"string_value"`
}

// Argument is a positional parameter.
type Argument struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	IntValue    *IntValue    `yaml:"int_value"`
	DoubleValue *DoubleValue `yaml:"double_value"`
	StringValue *StringValue `yaml:"string_value"`
}

// BoolValue marks a flag that takes no value.
type BoolValue struct{}

type IntValue struct {
	Default  int64   `yaml:"default"`
	Choices  []int64 `yaml:"choices"`
	Required bool    `yaml:"required"`
	List     bool    `yaml:"list"`
}

type DoubleValue struct {
	Default  float64   `yaml:"default"`
	Choices  []float64 `yaml:"choices"`
	Required bool      `yaml:"required"`
	List     bool      `yaml:"list"`
}

type StringValue struct {
	Default  string   `yaml:"default"`
	Choices  []string `yaml:"choices"`
	Required bool     `yaml:"required"`
	List     bool     `yaml:"list"`
}

// Kind names the type of an option or argument value.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindDouble
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Spec is a type-erased view of a value block. Default and Choices hold
// bool, int64, float64, or string according to Kind.
type Spec struct {
	Kind     Kind
	Default  any
	Choices  []any
	Required bool
	List     bool
}

// TakesValue reports whether an option of this kind consumes a token.
func (s Spec) TakesValue() bool {
	return s.Kind != KindBool
}

// Spec returns the option's value block, or false when it does not set
// exactly one.
func (o Option) Spec() (Spec, bool) {
	if o.valueCount() != 1 {
		return Spec{}, false
	}
	if o.BoolValue != nil {
		return Spec{Kind: KindBool, Default: false}, true
	}
	return valueSpec(o.IntValue, o.DoubleValue, o.StringValue)
}

func (o Option) valueCount() int {
	n := countValues(o.IntValue, o.DoubleValue, o.StringValue)
	if o.BoolValue != nil {
		n++
	}
	return n
}

// Spec returns the argument's value block, or false when it does not set
// exactly one.
func (a Argument) Spec() (Spec, bool) {
	if a.valueCount() != 1 {
		return Spec{}, false
	}
	return valueSpec(a.IntValue, a.DoubleValue, a.StringValue)
}

func (a Argument) valueCount() int {
	return countValues(a.IntValue, a.DoubleValue, a.StringValue)
}

func countValues(i *IntValue, d *DoubleValue, s *StringValue) int {
	n := 0
	if i != nil {
		n++
	}
	if d != nil {
		n++
	}
	if s != nil {
		n++
	}
	return n
}

func valueSpec(i *IntValue, d *DoubleValue, s *StringValue) (Spec, bool) {
	switch {
	case i != nil:
		return Spec{Kind: KindInt, Default: i.Default, Choices: anySlice(i.Choices), Required: i.Required, List: i.List}, true
	case d != nil:
		return Spec{Kind: KindDouble, Default: d.Default, Choices: anySlice(d.Choices), Required: d.Required, List: d.List}, true
	case s != nil:
		return Spec{Kind: KindString, Default: s.Default, Choices: anySlice(s.Choices), Required: s.Required, List: s.List}, true
	default:
		return Spec{}, false
	}
}

func anySlice[T any](values []T) []any {
	if len(values) == 0 {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
