package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xeenaps/shelf/internal/library"
)

func resetAddFlags() {
	addFlags.url = ""
	addFlags.file = ""
	addFlags.ref = ""
}

func TestAddInputRequiresOneSource(t *testing.T) {
	defer resetAddFlags()

	resetAddFlags()
	if _, err := addInput(); err == nil {
		t.Error("no source: expected error")
	}

	resetAddFlags()
	addFlags.url = "https://example.org"
	addFlags.ref = "10.1000/x"
	if _, err := addInput(); err == nil {
		t.Error("two sources: expected error")
	}
}

func TestAddInputKinds(t *testing.T) {
	defer resetAddFlags()

	resetAddFlags()
	addFlags.url = "https://example.org/paper"
	in, err := addInput()
	if err != nil {
		t.Fatal(err)
	}
	if in.Kind != library.AddLink || in.URL != "https://example.org/paper" {
		t.Errorf("in = %+v", in)
	}

	resetAddFlags()
	addFlags.ref = "10.1000/x"
	in, err = addInput()
	if err != nil {
		t.Fatal(err)
	}
	if in.Kind != library.AddRef || in.Ref != "10.1000/x" {
		t.Errorf("in = %+v", in)
	}
}

func TestAddInputReadsFile(t *testing.T) {
	defer resetAddFlags()

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("file body"), 0o644); err != nil {
		t.Fatal(err)
	}

	resetAddFlags()
	addFlags.file = path
	in, err := addInput()
	if err != nil {
		t.Fatal(err)
	}
	if in.Kind != library.AddFile || in.FileName != "notes.txt" || string(in.FileData) != "file body" {
		t.Errorf("in = %+v", in)
	}

	resetAddFlags()
	addFlags.file = filepath.Join(t.TempDir(), "missing.pdf")
	if _, err := addInput(); err == nil {
		t.Error("missing file: expected error")
	}
}
