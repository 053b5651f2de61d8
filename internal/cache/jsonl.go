// Package cache persists a local snapshot of the remote library: a JSONL
// file as the durable copy and an ephemeral SQLite index rebuilt from it
// for search. The remote datastore stays authoritative; the cache enables
// offline listing and fast full-text search.
package cache

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeenaps/shelf/internal/library"
)

// MaxLineCapacity is the JSONL line buffer size. Items carry extracted text
// chunks, so lines run far past the bufio default.
const MaxLineCapacity = 4 * 1024 * 1024

// ReadAll reads every item from a JSONL snapshot. A missing file is an
// empty library, not an error.
func ReadAll(path string) ([]library.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	var items []library.Item
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, MaxLineCapacity), MaxLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var it library.Item
		if err := json.Unmarshal(line, &it); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		items = append(items, it)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return items, nil
}

// WriteAll replaces the snapshot with the given items, creating the parent
// directory if needed.
func WriteAll(path string, items []library.Item) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, it := range items {
		data, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encoding item %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing item %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return w.Flush()
}

// Append adds one item to the end of the snapshot.
func Append(path string, it library.Item) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening snapshot for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encoding item: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing item: %w", err)
	}
	return nil
}

// FindByID returns the index of the item with the given id.
func FindByID(items []library.Item, id string) (int, bool) {
	for i, it := range items {
		if it.ID == id {
			return i, true
		}
	}
	return -1, false
}
