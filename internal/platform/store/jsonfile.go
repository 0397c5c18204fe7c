// Package store persists keyed and ordered collections as JSON files.
// Writes go to a temporary file first and reach their final name through
// an atomic rename, so a crash mid-write cannot corrupt the previous state.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads the JSON file at path into dest.
func Load(path string, dest any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("platform/store: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("platform/store: decode %s: %w", path, err)
	}
	return nil
}

// Staged is a fully written but not yet visible version of a file.
type Staged struct {
	tmp  string
	path string
}

// Stage marshals v and writes it to a temporary file next to path, fsynced.
// The data only becomes visible once Commit renames it into place, which
// lets callers stage several files and commit them together. The write is
// abandoned when ctx expires.
func Stage(ctx context.Context, path string, v any) (*Staged, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("platform/store: encode %s: %w", path, err)
	}
	raw = append(raw, '\n')

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("platform/store: stage %s: %w", path, err)
	}

	type result struct {
		tmp string
		err error
	}
	done := make(chan result, 1)
	go func() {
		tmp, err := writeTemp(path, raw)
		done <- result{tmp: tmp, err: err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if res := <-done; res.err == nil {
				_ = os.Remove(res.tmp)
			}
		}()
		return nil, fmt.Errorf("platform/store: stage %s: %w", path, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return &Staged{tmp: res.tmp, path: path}, nil
	}
}

func writeTemp(path string, raw []byte) (string, error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("platform/store: create temp for %s: %w", path, err)
	}
	tmp := f.Name()
	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("platform/store: write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("platform/store: sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("platform/store: close %s: %w", tmp, err)
	}
	return tmp, nil
}

// Commit renames the staged file into place and fsyncs the directory.
func (s *Staged) Commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		_ = os.Remove(s.tmp)
		return fmt.Errorf("platform/store: rename %s: %w", s.path, err)
	}
	if dir, err := os.Open(filepath.Dir(s.path)); err == nil {
		_ = dir.Sync()
		_ = dir.Close()
	}
	return nil
}

// Discard removes a staged file that will not be committed.
func (s *Staged) Discard() {
	_ = os.Remove(s.tmp)
}

// Save stages and immediately commits v to path.
func Save(ctx context.Context, path string, v any) error {
	staged, err := Stage(ctx, path, v)
	if err != nil {
		return err
	}
	return staged.Commit()
}
