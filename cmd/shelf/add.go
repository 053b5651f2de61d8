package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xeenaps/shelf/internal/cache"
	"github.com/xeenaps/shelf/internal/config"
	"github.com/xeenaps/shelf/internal/extract"
	"github.com/xeenaps/shelf/internal/library"
	"github.com/xeenaps/shelf/internal/pdf"
)

var addFlags struct {
	url      string
	file     string
	ref      string
	title    string
	itemType string
	offline  bool
	noSave   bool
}

func init() {
	f := addCmd.Flags()
	f.StringVar(&addFlags.url, "url", "", "Capture a web page or video URL")
	f.StringVar(&addFlags.file, "file", "", "Capture a local document")
	f.StringVar(&addFlags.ref, "ref", "", "Look up a bibliographic identifier (DOI, ISBN, arXiv, PMID)")
	f.StringVar(&addFlags.title, "title", "", "Override the captured title")
	f.StringVar(&addFlags.itemType, "type", "", "Override the item type")
	f.BoolVar(&addFlags.offline, "offline", false, "Use local extraction even when a backend is configured")
	f.BoolVar(&addFlags.noSave, "no-save", false, "Print the draft item without persisting it")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Capture a new item from a URL, file, or identifier",
	Long: `Capture a new library item. The source is read, scanned for a
bibliographic identifier, looked up, and analyzed; the resulting item is
saved to the backend and the local snapshot.

Exactly one of --url, --file, or --ref is required.

Examples:
  shelf add --url https://arxiv.org/abs/1706.03762
  shelf add --file paper.pdf
  shelf add --ref 10.1038/nature14539
  shelf add --ref 978-0-13-419044-0 --no-save`,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	in, err := addInput()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	cfg := mustLoadConfig()

	var onStage func(extract.Stage)
	if humanOutput {
		onStage = func(s extract.Stage) {
			if s != extract.StageIdle {
				fmt.Fprintf(cmd.ErrOrStderr(), "... %s\n", s)
			}
		}
	}

	w := buildWorkflow(cfg, addFlags.offline, onStage)
	it, err := w.Run(cmd.Context(), in)
	if err != nil {
		code := ExitError
		if in.Kind == library.AddRef {
			code = ExitNotFound
		}
		exitWithError(code, "capturing item: %v", err)
	}

	if addFlags.title != "" {
		it.Title = addFlags.title
	}
	if addFlags.itemType != "" {
		it.Type = library.ItemType(addFlags.itemType)
	}
	it.Normalize()
	if err := it.Validate(); err != nil {
		exitWithError(ExitDataError, "captured item invalid: %v", err)
	}

	if !addFlags.noSave {
		saveItem(cmd, cfg, it)
	}

	if humanOutput {
		printItemDetail(it)
		return nil
	}
	return outputJSON(it)
}

// addInput validates the source flags into a workflow input. File content
// is read here so the workflow stays filesystem-free.
func addInput() (extract.Input, error) {
	given := 0
	for _, v := range []string{addFlags.url, addFlags.file, addFlags.ref} {
		if v != "" {
			given++
		}
	}
	if given != 1 {
		return extract.Input{}, fmt.Errorf("exactly one of --url, --file, or --ref is required")
	}

	switch {
	case addFlags.url != "":
		return extract.Input{Kind: library.AddLink, URL: addFlags.url}, nil
	case addFlags.ref != "":
		return extract.Input{Kind: library.AddRef, Ref: addFlags.ref}, nil
	default:
		data, err := os.ReadFile(addFlags.file)
		if err != nil {
			return extract.Input{}, fmt.Errorf("reading %s: %w", addFlags.file, err)
		}
		name := filepath.Base(addFlags.file)
		in := extract.Input{
			Kind:     library.AddFile,
			FileName: name,
			FileData: data,
			MimeType: mime.TypeByExtension(filepath.Ext(name)),
		}
		// PDFs on disk get a local scan: a DOI found here takes precedence,
		// the title fills in if the extractor reports none.
		if strings.EqualFold(filepath.Ext(name), ".pdf") {
			if doi, err := pdf.DOI(addFlags.file); err == nil {
				in.IdentifierHint = doi
			}
			if title, err := pdf.Title(addFlags.file); err == nil {
				in.TitleHint = title
			}
		}
		return in, nil
	}
}

// saveItem persists a captured item remotely when possible and always
// appends it to the local snapshot.
func saveItem(cmd *cobra.Command, cfg *config.Config, it library.Item) {
	if cfg.BackendURL != "" {
		client := newBackendClient(cfg)
		if err := client.Save(cmd.Context(), it, nil); err != nil {
			exitWithError(ExitError, "saving item: %v", err)
		}
	} else if humanOutput {
		fmt.Fprintln(cmd.ErrOrStderr(), "no backend configured; item saved locally only")
	}

	if err := cache.Append(config.LibraryPath(), it); err != nil {
		exitWithError(ExitDataError, "updating local library: %v", err)
	}
}
