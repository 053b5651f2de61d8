package main

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/xeenaps/shelf/internal/config"
	"github.com/xeenaps/shelf/internal/enrich"
	"github.com/xeenaps/shelf/internal/extract"
	"github.com/xeenaps/shelf/internal/library"
	"github.com/xeenaps/shelf/internal/sheets"
	"github.com/xeenaps/shelf/internal/web"
)

// backendReader reads sources through the backend extractor, which also
// stores uploaded files in the remote drive.
type backendReader struct {
	client *sheets.Client
}

func (r backendReader) ReadURL(ctx context.Context, url string) (extract.Capture, error) {
	ex, err := r.client.ExtractURL(ctx, url)
	if err != nil {
		return extract.Capture{}, err
	}
	return captureFromExtraction(ex), nil
}

func (r backendReader) ReadFile(ctx context.Context, name string, data []byte, mimeType string) (extract.Capture, error) {
	ex, err := r.client.ExtractFile(ctx, sheets.FilePayload{
		FileName: name,
		MimeType: mimeType,
		FileData: base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return extract.Capture{}, err
	}
	return captureFromExtraction(ex), nil
}

func captureFromExtraction(ex *sheets.Extraction) extract.Capture {
	return extract.Capture{
		Title:      ex.Title,
		Text:       ex.Text(),
		Chunks:     ex.Chunks,
		FileID:     ex.FileID,
		Identifier: ex.DOI,
		Patch:      ex.Patch(),
	}
}

// backendResolver resolves identifiers through the backend's bibliographic
// lookup.
type backendResolver struct {
	client *sheets.Client
}

func (r backendResolver) Resolve(ctx context.Context, raw string) (library.Patch, error) {
	patch, err := r.client.IdentifierSearch(ctx, raw)
	if err != nil {
		if sheets.IsNotFound(err) {
			return library.Patch{}, nil
		}
		return library.Patch{}, err
	}
	return *patch, nil
}

// buildWorkflow wires a capture pipeline: backend reader and resolver when
// a backend is configured, otherwise the local reader with no resolver.
// Verbose runs report stage transitions on stderr.
func buildWorkflow(cfg *config.Config, offline bool, onStage func(extract.Stage)) *extract.Workflow {
	w := &extract.Workflow{OnStage: onStage}

	if cfg.BackendURL != "" && !offline {
		client := newBackendClient(cfg)
		w.Reader = backendReader{client: client}
		w.Resolver = backendResolver{client: client}
		w.Enricher = newEnricher(cfg, client)
	} else {
		w.Reader = web.NewReader()
	}

	w.OnAlert = func(msg string) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: %s\n", msg)
	}
	return w
}

// newEnricher builds the AI metadata stage over the backend's AI proxy.
func newEnricher(cfg *config.Config, client *sheets.Client) *enrich.Enricher {
	e := enrich.New(client.AIProxy)
	if cfg.AIProvider != "" {
		e = e.WithProvider(cfg.AIProvider, cfg.AIModel)
	}
	return e
}
