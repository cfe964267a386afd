// Package argparse turns the argv given to a workspace command into the
// argument blob described by the command's descriptor.
package argparse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/brandonbloom/fx/internal/argblob"
	"github.com/brandonbloom/fx/internal/descriptor"
	"github.com/spf13/pflag"
)

// HelpName is the reserved entry set by -h/--help.
const HelpName = "help"

// Error is a user-facing parse failure.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "[argparse] " + e.Message
}

func errorf(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// input accumulates the value of one option or argument.
type input struct {
	name    string
	spec    descriptor.Spec
	userSet bool
	value   any
	values  []any
	err     error
}

func newInput(name string, spec descriptor.Spec) *input {
	in := &input{name: name, spec: spec, value: spec.Default}
	if spec.List {
		in.values = []any{spec.Default}
	}
	return in
}

func (in *input) Set(raw string) error {
	v, err := convert(in.spec.Kind, raw)
	if err != nil {
		in.err = err
		return err
	}
	if len(in.spec.Choices) > 0 && !slices.Contains(in.spec.Choices, v) {
		in.err = errorf("Value '%s' not expected.", raw)
		return in.err
	}
	if in.spec.List {
		if !in.userSet {
			// The first user value replaces the defaults.
			in.values = nil
		}
		in.values = append(in.values, v)
	} else {
		in.value = v
	}
	in.userSet = true
	return nil
}

func (in *input) String() string {
	if in.spec.List {
		return descriptor.JoinValues(in.values)
	}
	return descriptor.FormatValue(in.value)
}

func (in *input) Type() string {
	return in.spec.Kind.String()
}

func (in *input) IsBoolFlag() bool {
	return in.spec.Kind == descriptor.KindBool
}

func (in *input) jsonValue() any {
	if in.spec.List {
		out := make([]any, len(in.values))
		for i, v := range in.values {
			out[i] = encodeValue(v)
		}
		return out
	}
	return encodeValue(in.value)
}

func encodeValue(v any) any {
	if f, ok := v.(float64); ok {
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return json.Number(s)
	}
	return v
}

func convert(kind descriptor.Kind, raw string) (any, error) {
	switch kind {
	case descriptor.KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errorf("Unable to convert '%s' to destination type", raw)
		}
		return v, nil
	case descriptor.KindInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errorf("Unable to convert '%s' to destination type", raw)
		}
		return v, nil
	case descriptor.KindDouble:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, errorf("Unable to convert '%s' to destination type", raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}

// Parse matches args against the command's options and arguments. Every
// declared input appears in the result, alongside the help entry.
func Parse(args []string, cmd *descriptor.Command) (*argblob.Blob, error) {
	fs := pflag.NewFlagSet("fx", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	help := newInput(HelpName, descriptor.Spec{Kind: descriptor.KindBool, Default: false})
	fs.VarPF(help, HelpName, "h", "show help").NoOptDefVal = "true"

	var options []*input
	for _, opt := range cmd.Options {
		spec, ok := opt.Spec()
		if !ok {
			return nil, errorf("Option %q has no value type", opt.Name)
		}
		in := newInput(opt.Name, spec)
		flag := fs.VarPF(in, opt.Name, opt.ShortName, opt.Description)
		if spec.Kind == descriptor.KindBool {
			flag.NoOptDefVal = "true"
		}
		options = append(options, in)
	}

	var arguments []*input
	for _, arg := range cmd.Arguments {
		spec, ok := arg.Spec()
		if !ok {
			return nil, errorf("Argument %q has no value type", arg.Name)
		}
		arguments = append(arguments, newInput(arg.Name, spec))
	}

	if err := fs.Parse(args); err != nil {
		for _, in := range append([]*input{help}, options...) {
			if in.err != nil {
				return nil, in.err
			}
		}
		return nil, errorf("%s", err.Error())
	}

	if err := assignPositional(arguments, fs.Args()); err != nil {
		return nil, err
	}

	if !help.userSet {
		if err := checkRequired(options, arguments); err != nil {
			return nil, err
		}
	}

	return buildBlob(help, options, arguments)
}

func assignPositional(arguments []*input, positional []string) error {
	next := 0
	for _, in := range arguments {
		if next >= len(positional) {
			break
		}
		if in.spec.List {
			for ; next < len(positional); next++ {
				if err := in.Set(positional[next]); err != nil {
					return err
				}
			}
			break
		}
		if err := in.Set(positional[next]); err != nil {
			return err
		}
		next++
	}
	if next < len(positional) {
		return errorf("Unrecognized token: %s", positional[next])
	}
	return nil
}

func checkRequired(options, arguments []*input) error {
	for _, in := range options {
		if in.spec.Required && !in.userSet {
			return errorf("Expected: --%s <%s>", in.name, in.name)
		}
	}
	for _, in := range arguments {
		if in.spec.Required && !in.userSet {
			if in.spec.List {
				return errorf("Expected: <%s> [<%s>...]", in.name, in.name)
			}
			return errorf("Expected: <%s>", in.name)
		}
	}
	return nil
}

func buildBlob(help *input, options, arguments []*input) (*argblob.Blob, error) {
	all := append([]*input{help}, options...)
	all = append(all, arguments...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].name < all[j].name
	})

	blob := argblob.New()
	for _, in := range all {
		if err := blob.SetValue(in.name, in.userSet, in.jsonValue()); err != nil {
			return nil, err
		}
	}
	return blob, nil
}

// IsHelp reports whether the parsed blob asks for help.
func IsHelp(blob *argblob.Blob) bool {
	v, err := blob.Bool(HelpName)
	return err == nil && v
}

// IsParseError reports whether err came from argument parsing.
func IsParseError(err error) bool {
	var perr *Error
	return errors.As(err, &perr)
}
