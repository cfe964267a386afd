package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/brandonbloom/fx/internal/descriptor"
	"go.uber.org/zap"
)

var (
	// ErrNotFound indicates that no workspace.fx.yaml encloses the directory.
	ErrNotFound = errors.New("Workspace descriptor not found.")
)

// Workspace encapsulates an fx workspace discovered on disk.
type Workspace struct {
	Root           string
	DescriptorPath string
}

// Discover walks upward from start until it finds a workspace descriptor.
func Discover(start string) (*Workspace, error) {
	root, err := locateRoot(start)
	if err != nil {
		return nil, err
	}
	return Load(root), nil
}

// Load returns the workspace rooted at root without reading its descriptor.
func Load(root string) *Workspace {
	return &Workspace{
		Root:           root,
		DescriptorPath: filepath.Join(root, descriptor.WorkspaceFilename),
	}
}

func locateRoot(start string) (string, error) {
	cur, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if isFile(filepath.Join(cur, descriptor.WorkspaceFilename)) {
			return cur, nil
		}
		next := filepath.Dir(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return "", ErrNotFound
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !fi.IsDir()
}

// Descriptor parses the workspace's own descriptor.
func (w *Workspace) Descriptor() (*descriptor.Workspace, error) {
	return descriptor.ParseWorkspace(w.DescriptorPath)
}

// CommandDescriptorPath is where the descriptor for the named command lives.
func (w *Workspace) CommandDescriptorPath(name string) string {
	return filepath.Join(w.Root, filepath.FromSlash(name), descriptor.CommandFilename)
}

// CommandEntry describes one command found in the workspace. Err is set
// when its descriptor could not be parsed.
type CommandEntry struct {
	Name     string
	Path     string
	Synopsis string
	Err      error
}

// ListCommands finds every command descriptor beneath the workspace root,
// skipping dot-directories and paths matched by the descriptor's ignore list.
func (w *Workspace) ListCommands(logger *zap.Logger) ([]CommandEntry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ws, err := w.Descriptor()
	if err != nil {
		return nil, err
	}
	ignore := ws.Ignore

	var result []CommandEntry
	err = filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.Root {
				return err
			}
			logger.Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(w.Root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if path != w.Root && (strings.HasPrefix(d.Name(), ".") || ignored(filepath.ToSlash(rel), ignore)) {
				logger.Debug("ignoring command search", zap.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != descriptor.CommandFilename {
			return nil
		}

		dir := filepath.Dir(rel)
		if dir == "." {
			// A descriptor at the root would name the empty command.
			return nil
		}
		cmd := CommandEntry{Name: filepath.ToSlash(dir), Path: path}
		parsed, perr := descriptor.ParseCommand(path)
		if perr != nil {
			cmd.Err = perr
		} else {
			cmd.Synopsis = parsed.Synopsis
		}
		result = append(result, cmd)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func ignored(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSuffix(filepath.ToSlash(filepath.Clean(pattern)), "/")
		if pattern == rel {
			return true
		}
		if ok, err := filepath.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
