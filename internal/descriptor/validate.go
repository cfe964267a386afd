package descriptor

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError collects every problem found in a descriptor.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}

type collector struct {
	messages []string
}

func (c *collector) addf(format string, args ...any) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

func (c *collector) err() error {
	if len(c.messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: c.messages}
}

// ValidateWorkspace checks a workspace descriptor.
func ValidateWorkspace(ws *Workspace) error {
	var c collector
	validateVersion(&c, ws.DescriptorVersion)
	return c.err()
}

// ValidateCommand checks a command descriptor, reporting every problem.
func ValidateCommand(cmd *Command) error {
	var c collector

	validateVersion(&c, cmd.DescriptorVersion)
	if cmd.Synopsis == "" {
		c.addf("Command synopsis cannot be empty.")
	}
	if cmd.Runtime.Run == "" {
		c.addf("Runtime run cannot be empty.")
	}

	for i, opt := range cmd.Options {
		prefix := fmt.Sprintf("Option[index:%d]", i)
		validateName(&c, prefix, opt.Name)
		validateShortName(&c, prefix, opt)
		validateDescription(&c, prefix, opt.Name, opt.Description)
		spec, ok := opt.Spec()
		validateValue(&c, prefix, opt.Name, opt.valueCount(), spec, ok)
	}

	for i, arg := range cmd.Arguments {
		prefix := fmt.Sprintf("Argument[index:%d]", i)
		validateName(&c, prefix, arg.Name)
		validateDescription(&c, prefix, arg.Name, arg.Description)
		spec, ok := arg.Spec()
		validateValue(&c, prefix, arg.Name, arg.valueCount(), spec, ok)
	}
	validateArgumentLists(&c, cmd.Arguments)
	validateArgumentRequired(&c, cmd.Arguments)
	validateUniqueNames(&c, cmd.Options, cmd.Arguments)

	return c.err()
}

func validateVersion(c *collector, version string) {
	if version != SupportedVersion {
		c.addf("Unsupported descriptor version %q, only %s is supported.", version, SupportedVersion)
	}
}

func validateName(c *collector, prefix, name string) {
	if len(name) <= 1 {
		c.addf("%s %q name cannot be shorter than two characters.", prefix, name)
	}
	if strings.EqualFold(name, "help") {
		c.addf(`%s name cannot be named "help" (reserved).`, prefix)
	}
}

func validateShortName(c *collector, prefix string, opt Option) {
	if len(opt.ShortName) > 1 {
		c.addf("%s %q short name cannot be longer than one character.", prefix, opt.ShortName)
	}
	if strings.EqualFold(opt.ShortName, "h") {
		c.addf(`%s %q short name cannot be "h" (reserved).`, prefix, opt.Name)
	}
}

func validateDescription(c *collector, prefix, name, description string) {
	if description == "" {
		c.addf("%s %q description cannot be empty.", prefix, name)
	}
}

func validateValue(c *collector, prefix, name string, count int, spec Spec, ok bool) {
	switch {
	case count == 0:
		c.addf("%s %q value cannot be empty.", prefix, name)
		return
	case !ok:
		c.addf("%s %q value must set exactly one type.", prefix, name)
		return
	}
	if len(spec.Choices) > 0 && !slices.Contains(spec.Choices, spec.Default) {
		c.addf("%s %q default value %q is invalid, the default value must be one of the choices: [%s].",
			prefix, name, FormatValue(spec.Default), JoinValues(spec.Choices))
	}
}

func validateArgumentLists(c *collector, args []Argument) {
	var lists []int
	for i, arg := range args {
		if spec, ok := arg.Spec(); ok && spec.List {
			lists = append(lists, i)
		}
	}
	if len(lists) > 1 || (len(lists) == 1 && lists[0] != len(args)-1) {
		c.addf("To prevent ambiguous argument parsing, only the last argument can be a list.")
	}
}

func validateArgumentRequired(c *collector, args []Argument) {
	var mustBeRequired []int
	lastRequired := -1
	for i, arg := range args {
		spec, ok := arg.Spec()
		if !ok || !spec.Required {
			continue
		}
		for j := lastRequired + 1; j < i; j++ {
			mustBeRequired = append(mustBeRequired, j)
		}
		lastRequired = i
	}
	if len(mustBeRequired) == 0 {
		return
	}
	indices := make([]string, len(mustBeRequired))
	for i, idx := range mustBeRequired {
		indices[i] = fmt.Sprint(idx)
	}
	c.addf("Arguments at index [%s] need to also be required, because arguments preceding a required argument must be required to prevent ambiguous parsing.",
		strings.Join(indices, ", "))
}

type usage struct {
	key    string
	owners []string
}

func validateUniqueNames(c *collector, opts []Option, args []Argument) {
	var names, shortNames []*usage
	record := func(list *[]*usage, key, owner string) {
		for _, u := range *list {
			if u.key == key {
				u.owners = append(u.owners, owner)
				return
			}
		}
		*list = append(*list, &usage{key: key, owners: []string{owner}})
	}

	for i, opt := range opts {
		owner := fmt.Sprintf("Option[index:%d]", i)
		record(&names, strings.ToLower(opt.Name), owner)
		if opt.ShortName != "" {
			record(&shortNames, strings.ToLower(opt.ShortName), owner)
		}
	}
	for i, arg := range args {
		record(&names, strings.ToLower(arg.Name), fmt.Sprintf("Argument[index:%d]", i))
	}

	for _, u := range names {
		if len(u.owners) > 1 {
			c.addf("Name %q used in %s is not unique.", u.key, strings.Join(u.owners, ", "))
		}
	}
	for _, u := range shortNames {
		if len(u.owners) > 1 {
			c.addf("Short name %q used in %s is not unique.", u.key, strings.Join(u.owners, ", "))
		}
	}
}

// FormatValue renders a descriptor value for messages and help text.
func FormatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// JoinValues renders a list of descriptor values separated by commas.
func JoinValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, ", ")
}
