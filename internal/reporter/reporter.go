// Package reporter implements the example workspace command: it echoes the
// argument blob it received and the environment it was started with.
package reporter

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/brandonbloom/fx/internal/argblob"
)

// Report writes every blob entry as name=value in blob order, followed by
// the environment sorted by key.
func Report(w io.Writer, blob *argblob.Blob, environ []string) error {
	out := bufio.NewWriter(w)

	fmt.Fprintln(out, "args:")
	for _, name := range blob.Names() {
		raw, err := blob.Value(name)
		if err != nil {
			return err
		}
		value, err := RenderValue(raw)
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		fmt.Fprintf(out, "  %s=%s\n", name, value)
	}

	fmt.Fprintln(out, "envars:")
	for _, kv := range sortedEnv(environ) {
		fmt.Fprintf(out, "  %s=%s\n", kv[0], kv[1])
	}

	return out.Flush()
}

func sortedEnv(environ []string) [][2]string {
	// Later duplicates win, as they do for the process environment.
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	pairs := make([][2]string, 0, len(values))
	for key, value := range values {
		pairs = append(pairs, [2]string{key, value})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i][0] < pairs[j][0]
	})
	return pairs
}
