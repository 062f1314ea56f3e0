package devenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const StatePrefix = "<dev_state>"

var modName = regexp.MustCompile(`(?m)^module *([\w\-_./]+)$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == "gamecatalog"
}

func GetWorkspaceRoot() (string, error) {
	currentdir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs("/")
	if err != nil {
		return "", err
	}

	for currentdir != root {
		if isWorkspaceRoot(currentdir) {
			return currentdir, nil
		}
		currentdir = filepath.Dir(currentdir)
	}

	return "", os.ErrNotExist
}

// StateDir is dev/.state of the workspace. Outside a checkout of this
// module (e.g. when run from the website repo) it is gamecatalog under the
// user cache directory.
func StateDir() (string, error) {
	root, err := GetWorkspaceRoot()
	if err == nil {
		return filepath.Join(root, "dev", ".state"), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("no workspace root and no user cache dir: %w", err)
	}
	return filepath.Join(cache, "gamecatalog"), nil
}

// ResolvePath expands a leading "<dev_state>" into StateDir, creating that
// directory if needed. Other paths are returned unchanged.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, StatePrefix) {
		return path, nil
	}

	stateDir, err := StateDir()
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	err = os.MkdirAll(stateDir, 0777)
	if err != nil {
		return "", err
	}

	subpath := strings.TrimLeft(strings.TrimPrefix(path, StatePrefix), `/\`)
	return filepath.Join(stateDir, subpath), nil
}
