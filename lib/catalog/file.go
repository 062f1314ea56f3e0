package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Load reads a catalog file. Both a bare JSON array and an object with a
// "games" array are accepted.
func Load(path string) ([]Game, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(contents)
}

func Decode(contents []byte) ([]Game, error) {
	trimmed := bytes.TrimSpace(contents)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	if trimmed[0] == '{' {
		var wrapped struct {
			Games []Game `json:"games"`
		}
		err := json.Unmarshal(trimmed, &wrapped)
		if err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return wrapped.Games, nil
	}

	var games []Game
	err := json.Unmarshal(trimmed, &games)
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return games, nil
}

// Encode renders games the way the site keeps games.json: tab indented,
// no HTML escaping, trailing newline.
func Encode(games []Game) ([]byte, error) {
	if games == nil {
		games = []Game{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	err := enc.Encode(games)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save atomically replaces the catalog file at path.
func Save(path string, games []Game) error {
	contents, err := Encode(games)
	if err != nil {
		return err
	}

	mode := os.FileMode(0644)
	info, err := os.Stat(path)
	if err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".games-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	_, err = tmp.Write(contents)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Chmod(tmpName, mode)
	if err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ErrLocked is returned by Update when another process holds the catalog
// lock for longer than the context allows.
var ErrLocked = errors.New("catalog is locked by another process")

// Update runs a read-modify-write cycle on the catalog while holding an
// exclusive lock on <path>.lock. If fn returns an error the file is left
// untouched. A missing catalog is treated as empty.
func Update(ctx context.Context, path string, fn func([]Game) ([]Game, error)) error {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrLocked, err)
	}
	if err != nil {
		return fmt.Errorf("lock catalog: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer func() {
		err := lock.Unlock()
		if err != nil {
			slog.Warn("failed to unlock catalog", "path", path, "err", err)
		}
	}()

	games, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		games = nil
	} else if err != nil {
		return err
	}

	updated, err := fn(games)
	if err != nil {
		return err
	}
	err = Save(path, updated)
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	slog.Debug("catalog saved", "path", path, "before", len(games), "after", len(updated))
	return nil
}
