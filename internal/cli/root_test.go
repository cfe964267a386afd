package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brandonbloom/fx/internal/config"
	"github.com/brandonbloom/fx/internal/descriptor"
	"github.com/brandonbloom/fx/internal/version"
	"github.com/brandonbloom/fx/internal/workspace"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

type recordingExecutor struct {
	argv []string
	env  []string
}

func (r *recordingExecutor) Exec(argv, env []string) error {
	r.argv = argv
	r.env = env
	return nil
}

func newTestApp(t *testing.T, wd string) (*app, *bytes.Buffer, *recordingExecutor) {
	t.Helper()

	prevColor := color.NoColor
	color.NoColor = true
	prevStamp := version.Stamp
	version.Stamp = "v0.1.0"
	t.Cleanup(func() {
		color.NoColor = prevColor
		version.Stamp = prevStamp
	})

	var out bytes.Buffer
	exec := &recordingExecutor{}
	cfg := config.Default()
	cfg.Shell = "/bin/bash --noprofile"
	return &app{
		stdout:   &out,
		cfg:      cfg,
		logger:   zap.NewNop(),
		getwd:    func() (string, error) { return wd, nil },
		executor: exec,
		width:    func() int { return 80 },
	}, &out, exec
}

func run(t *testing.T, a *app, args ...string) error {
	t.Helper()
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func writeWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		descriptor.WorkspaceFilename: "descriptor_version: v1beta\nignore:\n  - vendor\n",
		"tools/example/command.fx.yaml": `descriptor_version: v1beta
synopsis: Print arguments.
runtime:
  run: fx-example
options:
  - name: verbose
    short_name: v
    description: Talk more.
    bool_value: {}
`,
		"broken/command.fx.yaml": "descriptor_version: v1beta\n",
		"vendor/x/command.fx.yaml": "descriptor_version: v1beta\nsynopsis: hidden\nruntime:\n  run: x\n",
	}
	for name, contents := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

const listHeader = `fx — workspace tool manager [version v0.1.0]

Usage:  fx <command> --help
        fx <command> <options...> <args...>

[workspace fx]
    list - List available commands.
    help - Learn more about fx.
    version - Print the fx version.
`

func TestListOutsideWorkspace(t *testing.T) {
	a, out, _ := newTestApp(t, t.TempDir())
	for _, args := range [][]string{nil, {"list"}} {
		out.Reset()
		if err := run(t, a, args...); err != nil {
			t.Fatalf("fx %v returned error: %v", args, err)
		}
		want := listHeader + "\nYou are not in a workspace.\n"
		if out.String() != want {
			t.Fatalf("fx %v output:\n%s\nwant:\n%s", args, out.String(), want)
		}
	}
}

func TestListInsideWorkspace(t *testing.T) {
	root := writeWorkspace(t)
	a, out, _ := newTestApp(t, filepath.Join(root, "tools"))
	if err := run(t, a, "list"); err != nil {
		t.Fatalf("fx list returned error: %v", err)
	}
	want := listHeader +
		"\n[workspace " + filepath.Join(root, descriptor.WorkspaceFilename) + "]\n" +
		"    broken - Descriptor contains errors. Run this to learn more.\n" +
		"    tools/example - Print arguments.\n"
	if out.String() != want {
		t.Fatalf("fx list output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestHelpAndVersion(t *testing.T) {
	a, out, _ := newTestApp(t, t.TempDir())
	for _, args := range [][]string{{"help"}, {"--help"}, {"-h"}} {
		out.Reset()
		if err := run(t, a, args...); err != nil {
			t.Fatalf("fx %v returned error: %v", args, err)
		}
		if !strings.HasPrefix(out.String(), "fx is a workspace tool manager.") {
			t.Fatalf("fx %v output = %q", args, out.String())
		}
	}

	out.Reset()
	if err := run(t, a, "version"); err != nil {
		t.Fatalf("fx version returned error: %v", err)
	}
	if out.String() != "fx-v0.1.0\n" {
		t.Fatalf("fx version output = %q", out.String())
	}
}

func TestForward(t *testing.T) {
	root := writeWorkspace(t)
	a, _, exec := newTestApp(t, root)
	if err := run(t, a, "tools/example", "-v"); err != nil {
		t.Fatalf("forward returned error: %v", err)
	}
	want := []string{
		"/bin/bash", "--noprofile", "-l", "-c",
		`fx-example '{"help":{"user_set":false,"value":false},"verbose":{"user_set":true,"value":true}}'`,
	}
	if strings.Join(exec.argv, "\x00") != strings.Join(want, "\x00") {
		t.Fatalf("argv = %q, want %q", exec.argv, want)
	}
	if exec.env[0] != "FX_WORKSPACE_DIRECTORY="+root {
		t.Fatalf("env[0] = %q", exec.env[0])
	}
}

func TestForwardHelpFlag(t *testing.T) {
	root := writeWorkspace(t)
	a, out, exec := newTestApp(t, root)
	if err := run(t, a, "tools/example", "--help"); err != nil {
		t.Fatalf("forward returned error: %v", err)
	}
	if exec.argv != nil {
		t.Fatalf("unexpected exec: %q", exec.argv)
	}
	if !strings.Contains(out.String(), "fx tools/example [-v|--verbose]") {
		t.Fatalf("help output:\n%s", out.String())
	}
}

func TestForwardErrors(t *testing.T) {
	root := writeWorkspace(t)

	a, _, _ := newTestApp(t, root)
	if err := run(t, a, "missing"); err == nil || err.Error() != `Unknown command "missing".` {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _, _ = newTestApp(t, t.TempDir())
	if err := run(t, a, "tools/example"); !errors.Is(err, workspace.ErrNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
}
