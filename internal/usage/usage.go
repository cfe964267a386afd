// Package usage renders the help page of a workspace command from its
// descriptor.
package usage

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brandonbloom/fx/internal/descriptor"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	// MaxWidth caps the rendered page width.
	MaxWidth = 80
	indent   = 3
)

var bold = color.New(color.Bold).SprintFunc()

// Width reports the terminal width of stdout, capped at MaxWidth.
func Width() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return MaxWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 || w > MaxWidth {
		return MaxWidth
	}
	return w
}

type input struct {
	header      string
	description string
	spec        descriptor.Spec
}

// Command writes the help page for the named command.
func Command(w io.Writer, name string, cmd *descriptor.Command, width int) error {
	if width <= 0 {
		width = MaxWidth
	}
	var b strings.Builder

	fmt.Fprintf(&b, "%s — %s\n\n", bold("fx "+name), cmd.Synopsis)
	fmt.Fprintf(&b, "%s\n", Wrap("usage:", indent, width))
	fmt.Fprintf(&b, "%s\n\n", Wrap(Usage(name, cmd), indent*2, width))

	if cmd.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", Wrap(cmd.Description, 0, width))
	}

	if len(cmd.Options) > 0 {
		var inputs []input
		for _, opt := range cmd.Options {
			spec, ok := opt.Spec()
			if !ok {
				continue
			}
			header := strings.Repeat(" ", indent) + "--" + opt.Name
			if opt.ShortName != "" {
				header += ", -" + opt.ShortName
			}
			inputs = append(inputs, input{header: header, description: opt.Description, spec: spec})
		}
		writeSection(&b, "OPTIONS", inputs, width)
	}

	if len(cmd.Arguments) > 0 {
		var inputs []input
		for _, arg := range cmd.Arguments {
			spec, ok := arg.Spec()
			if !ok {
				continue
			}
			header := strings.Repeat(" ", indent) + arg.Name
			inputs = append(inputs, input{header: header, description: arg.Description, spec: spec})
		}
		writeSection(&b, "ARGUMENTS", inputs, width)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, title string, inputs []input, width int) {
	fmt.Fprintf(b, "%s\n\n", rule(title, width))
	for _, in := range inputs {
		fmt.Fprintf(b, "%s\n\n", strings.Join([]string{in.header, typeName(in.spec), requirement(in.spec)}, " · "))
		fmt.Fprintf(b, "%s\n", Wrap(in.description, indent*2, width))
		fmt.Fprintf(b, "\n%s\n", Wrap(footer(in.spec), indent*2, width))
		b.WriteString("\n")
	}
}

func rule(title string, width int) string {
	head := "· " + title + " "
	pad := width - runewidth.StringWidth(head)
	if pad < 0 {
		pad = 0
	}
	return head + strings.Repeat("·", pad)
}

func typeName(spec descriptor.Spec) string {
	if spec.List {
		return "List<" + spec.Kind.String() + ">"
	}
	return spec.Kind.String()
}

func requirement(spec descriptor.Spec) string {
	if spec.Required {
		return "required"
	}
	return "optional"
}

func footer(spec descriptor.Spec) string {
	parts := []string{"Default: " + descriptor.FormatValue(spec.Default)}
	if len(spec.Choices) > 0 {
		parts = append(parts, "Choices: "+descriptor.JoinValues(spec.Choices))
	}
	return strings.Join(parts, " | ")
}

// Usage returns the one-line synopsis of how to invoke the command, e.g.
// `fx format [-l|--language=<language...>] [-t|--test] [paths...]`.
func Usage(name string, cmd *descriptor.Command) string {
	parts := []string{"fx", name}

	for _, opt := range cmd.Options {
		spec, ok := opt.Spec()
		if !ok {
			continue
		}
		var alts []string
		if opt.ShortName != "" {
			alts = append(alts, "-"+opt.ShortName)
		}
		long := "--" + opt.Name
		if spec.TakesValue() {
			long += "=<" + opt.Name
			if spec.List {
				long += "..."
			}
			long += ">"
		}
		alts = append(alts, long)
		parts = append(parts, optional(strings.Join(alts, "|"), spec.Required))
	}

	for _, arg := range cmd.Arguments {
		spec, ok := arg.Spec()
		if !ok {
			continue
		}
		token := arg.Name
		if spec.List {
			token += "..."
		}
		parts = append(parts, optional(token, spec.Required))
	}

	return strings.Join(parts, " ")
}

func optional(s string, required bool) string {
	if required {
		return s
	}
	return "[" + s + "]"
}

// Wrap word-wraps text so that no line, including its indent, is wider
// than width display cells. Blank lines are preserved and a single word
// longer than the line is never split.
func Wrap(text string, indent, width int) string {
	pad := strings.Repeat(" ", indent)
	limit := width - indent
	if limit < 1 {
		limit = 1
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := words[0]
		curWidth := runewidth.StringWidth(cur)
		for _, word := range words[1:] {
			ww := runewidth.StringWidth(word)
			if curWidth+1+ww > limit {
				out = append(out, pad+cur)
				cur, curWidth = word, ww
				continue
			}
			cur += " " + word
			curWidth += 1 + ww
		}
		out = append(out, pad+cur)
	}
	return strings.Join(out, "\n")
}
