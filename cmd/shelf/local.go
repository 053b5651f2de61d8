package main

import (
	"strings"

	"github.com/xeenaps/shelf/internal/cache"
	"github.com/xeenaps/shelf/internal/config"
	"github.com/xeenaps/shelf/internal/library"
)

// mustLoadSnapshot reads the local library snapshot or exits. Commands that
// read the library work from this snapshot; `shelf sync` refreshes it.
func mustLoadSnapshot() []library.Item {
	items, err := cache.ReadAll(config.LibraryPath())
	if err != nil {
		exitWithError(ExitDataError, "reading local library: %v", err)
	}
	return items
}

// mustSaveSnapshot writes the snapshot or exits.
func mustSaveSnapshot(items []library.Item) {
	if err := cache.WriteAll(config.LibraryPath(), items); err != nil {
		exitWithError(ExitDataError, "writing local library: %v", err)
	}
}

// mustResolveItem finds one item by full id or unambiguous id prefix.
func mustResolveItem(items []library.Item, idArg string) library.Item {
	if idx, ok := cache.FindByID(items, idArg); ok {
		return items[idx]
	}

	var matches []library.Item
	for _, it := range items {
		if strings.HasPrefix(it.ID, idArg) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0]
	case 0:
		exitWithError(ExitNotFound, "no item with id %q; run `shelf sync` if the library changed remotely", idArg)
	default:
		exitWithError(ExitError, "id prefix %q is ambiguous (%d matches)", idArg, len(matches))
	}
	return library.Item{} // unreachable
}

// snapshotView adapts the snapshot file to the optimistic engine's view.
type snapshotView struct {
	items []library.Item
}

func (v *snapshotView) Items() []library.Item {
	return append([]library.Item(nil), v.items...)
}

func (v *snapshotView) SetItems(items []library.Item) {
	v.items = items
	mustSaveSnapshot(items)
}
