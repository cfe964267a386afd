// Implementation of the `fxcmdtest` harness.
//
// Key behaviors:
//   - Creates `/tmp/fx-transcripts/workspace-<id>` with a workspace.fx.yaml and
//     unmodified copies of `tools/*/command.fx.yaml`.
//   - Copies `fx-example` and `fx-format` into the workspace's `bin/`, where
//     the descriptors run them from, and `bin/fxbazelstub` as `bin/bazel`.
//   - Writes an fx config selecting `bash --noprofile --norc` so login shells
//     keep the harness PATH.
//   - Honors `FX_CMDTEST_TIMEOUT` (default 10s) to cap setup + command runtime.
//   - Honors `FX_CMDTEST_ID` to isolate temp workspaces for parallel tests.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/brandonbloom/fx/internal/descriptor"
	"gopkg.in/yaml.v3"
)

type tool struct {
	repoRoot        string
	transcriptsRoot string
	binDir          string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

const defaultTimeout = 10 * time.Second

// seededCommands are the repository commands copied into every workspace,
// keyed by command name with the binary that implements each.
var seededCommands = []struct {
	name   string
	binary string
}{
	{"tools/example", "fx-example"},
	{"tools/format", "fx-format"},
}

const harnessConfig = `shell = "bash --noprofile --norc"
log_level = "warn"
color = "never"
`

func newToolFromExecutable() (*tool, error) {
	if root := os.Getenv("FX_REPO_ROOT"); root != "" {
		return newTool(root), nil
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, err
	}
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(exe), ".."))
	return newTool(repoRoot), nil
}

func newTool(repoRoot string) *tool {
	repoRoot = filepath.Clean(repoRoot)
	return &tool{
		repoRoot:        repoRoot,
		transcriptsRoot: "/tmp/fx-transcripts",
		binDir:          filepath.Join(repoRoot, "bin"),
		stdin:           os.Stdin,
		stdout:          os.Stdout,
		stderr:          os.Stderr,
	}
}

func (t *tool) runCLI(ctx context.Context, args []string) int {
	ctx, cancel, timeout := withTimeoutFromEnv(ctx, "FX_CMDTEST_TIMEOUT", defaultTimeout)
	if cancel != nil {
		defer cancel()
	}

	opts, cmdArgs, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(t.stderr, err)
		t.printUsage()
		return 2
	}
	if opts.help {
		t.printUsage()
		return 0
	}

	exitCode, err := t.run(ctx, opts, cmdArgs, timeout)
	if err != nil {
		fmt.Fprintln(t.stderr, err)
		return 1
	}
	return exitCode
}

func (t *tool) printUsage() {
	fmt.Fprint(t.stderr, `Usage: fxcmdtest [options] -- <command> [args...]

Sets up a disposable fx workspace, runs the given command inside it,
and cleans up afterward. Intended for transcript integration tests.

Options:
  --bare               Create the directory without a workspace descriptor.
  --dir DIR            cd into DIR (relative to the temp workspace) before running.
  --bazel-exit K=CODE  Make the bazel stub exit with CODE for target or config K.
  --keep               Preserve the temp workspace for debugging (prints its path).
`)
}

func (t *tool) run(ctx context.Context, opts options, cmdArgs []string, timeout time.Duration) (int, error) {
	if t.repoRoot == "" {
		return 1, errors.New("repo root is required")
	}
	if _, err := os.Stat(filepath.Join(t.repoRoot, "go.mod")); err != nil {
		return 1, fmt.Errorf("unable to locate fx repo root: %w", err)
	}

	if err := os.MkdirAll(t.transcriptsRoot, 0o755); err != nil {
		return 1, err
	}

	wsDir := filepath.Join(t.transcriptsRoot, workspaceDirName())
	if err := removeAllUnder(t.transcriptsRoot, wsDir); err != nil {
		return 1, err
	}
	if err := os.MkdirAll(wsDir, 0o755); err != nil {
		return 1, err
	}

	if !opts.bare {
		if err := t.seedWorkspace(wsDir); err != nil {
			return 1, err
		}
	}
	if err := t.installBinaries(wsDir); err != nil {
		return 1, err
	}
	if err := writeBazelExits(wsDir, opts.bazelExits); err != nil {
		return 1, err
	}
	configPath := filepath.Join(wsDir, ".fx-config.toml")
	if err := os.WriteFile(configPath, []byte(harnessConfig), 0o644); err != nil {
		return 1, err
	}

	childEnv := deterministicEnv(os.Environ())
	childEnv = withEnv(childEnv, "FX_CONFIG", configPath)
	childEnv = withEnv(childEnv, "FX_BAZEL_STATE_FILE", filepath.Join(wsDir, ".bazel-exits"))
	childEnv = withEnv(childEnv, "FX_BAZEL_LOG", filepath.Join(wsDir, ".bazel-log"))
	childEnv = withEnv(childEnv, "PATH", strings.Join([]string{
		filepath.Join(wsDir, "bin"),
		t.binDir,
		getEnv(childEnv, "PATH"),
	}, string(os.PathListSeparator)))

	workdir := wsDir
	if opts.dir != "" {
		workdir = filepath.Join(wsDir, opts.dir)
		if err := os.MkdirAll(workdir, 0o755); err != nil {
			return 1, err
		}
	}

	name, err := lookPathIn(cmdArgs[0], getEnv(childEnv, "PATH"))
	if err != nil {
		return 127, err
	}
	cmd := exec.CommandContext(ctx, name, cmdArgs[1:]...)
	cmd.Args[0] = cmdArgs[0]
	cmd.Dir = workdir
	cmd.Env = withEnv(childEnv, "PWD", workdir)
	cmd.Stdin = t.stdin
	cmd.Stdout = t.stdout
	cmd.Stderr = t.stderr

	runErr := cmd.Run()
	if runErr != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 124, fmt.Errorf("fxcmdtest: timed out after %s", timeout)
	}
	exitCode := exitStatus(runErr)

	if opts.keep {
		fmt.Fprintf(t.stderr, "temp workspace kept at %s\n", wsDir)
	} else if cleanupErr := removeAllUnder(t.transcriptsRoot, wsDir); cleanupErr != nil {
		return 1, cleanupErr
	}

	return exitCode, nil
}

func (t *tool) seedWorkspace(wsDir string) error {
	ws := descriptor.Workspace{
		DescriptorVersion: descriptor.SupportedVersion,
		Ignore:            []string{"bin"},
	}
	if err := writeYAML(filepath.Join(wsDir, descriptor.WorkspaceFilename), ws); err != nil {
		return err
	}

	// Descriptors are copied verbatim so transcripts run the shipped
	// runtime.run lines.
	for _, seeded := range seededCommands {
		rel := filepath.Join(filepath.FromSlash(seeded.name), descriptor.CommandFilename)
		src := filepath.Join(t.repoRoot, rel)
		if _, err := descriptor.ParseCommand(src); err != nil {
			return err
		}
		if err := copyFile(src, filepath.Join(wsDir, rel), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string, perm os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, perm)
}

// installBinaries copies the seeded commands' binaries into the workspace's
// bin directory, where their descriptors expect them, along with the bazel
// stub.
func (t *tool) installBinaries(wsDir string) error {
	binDir := filepath.Join(wsDir, "bin")
	for _, seeded := range seededCommands {
		if err := copyFile(filepath.Join(t.binDir, seeded.binary), filepath.Join(binDir, seeded.binary), 0o755); err != nil {
			return err
		}
	}
	return copyFile(filepath.Join(t.binDir, "fxbazelstub"), filepath.Join(binDir, "bazel"), 0o755)
}

func writeBazelExits(wsDir string, exits []string) error {
	var lines []string
	for _, exit := range exits {
		key, code, _ := strings.Cut(exit, "=")
		lines = append(lines, key+"|"+code+"|")
	}
	state := strings.Join(lines, "\n")
	if state != "" {
		state += "\n"
	}
	return os.WriteFile(filepath.Join(wsDir, ".bazel-exits"), []byte(state), 0o644)
}

func lookPathIn(name, path string) (string, error) {
	if strings.Contains(name, string(filepath.Separator)) {
		return name, nil
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0o111 != 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("fxcmdtest: %s: command not found", name)
}

func deterministicEnv(base []string) []string {
	env := envMap(base)
	env["NO_COLOR"] = "1"
	env["CLICOLOR"] = "0"
	env["CLICOLOR_FORCE"] = "0"
	env["LC_ALL"] = "C"
	env["TZ"] = "UTC"
	delete(env, "FX_LOG_LEVEL")
	delete(env, "FX_WORKSPACE_DIRECTORY")
	return envSlice(env)
}

func removeAllUnder(root, target string) error {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return err
	}
	if rel == "." {
		return fmt.Errorf("refusing to remove root: %s", root)
	}
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return fmt.Errorf("refusing to remove outside root: %s", target)
	}
	return os.RemoveAll(target)
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 127
}

func withTimeoutFromEnv(ctx context.Context, key string, def time.Duration) (context.Context, context.CancelFunc, time.Duration) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = def.String()
	}
	if raw == "0" || raw == "0s" {
		return ctx, nil, 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		d = def
	}
	next, cancel := context.WithTimeout(ctx, d)
	return next, cancel, d
}

func envMap(env []string) map[string]string {
	out := make(map[string]string, len(env))
	for _, entry := range env {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		out[key] = value
	}
	return out
}

func envSlice(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	return out
}

func withEnv(env []string, key, value string) []string {
	m := envMap(env)
	m[key] = value
	return envSlice(m)
}

func getEnv(env []string, key string) string {
	return envMap(env)[key]
}

func workspaceDirName() string {
	raw := strings.TrimSpace(os.Getenv("FX_CMDTEST_ID"))
	if raw != "" {
		safe := strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
				return r
			}
			return '_'
		}, raw)
		if id := strings.Trim(safe, "._-"); id != "" {
			return "workspace-" + id
		}
	}

	// Fall back to a random ID so concurrent runs never share a directory.
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("workspace-%d", os.Getpid())
	}
	return "workspace-" + hex.EncodeToString(b[:])
}
