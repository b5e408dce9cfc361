// Package batch translates every text file of a directory into an output
// directory, leaving a metadata file per translation and a run summary.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/nguyenvanduocit/grctrans/pkg/loader"
	"github.com/nguyenvanduocit/grctrans/pkg/pipeline"
	"github.com/nguyenvanduocit/grctrans/pkg/processor"
	"github.com/nguyenvanduocit/grctrans/pkg/util"
)

const (
	SummaryFile = "translation_summary.json"
	ErrorsDir   = "errors"
)

var ErrNoFiles = errors.New("no text files found")

// errSkipped is returned for files whose translation already exists.
var errSkipped = errors.New("translation already exists")

type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

type Config struct {
	SourceDir  string
	OutputDir  string
	Credential string
	Model      string
	Workers    int
	// Force retranslates files whose output already exists.
	Force bool
	// Files restricts the run to these base names.
	Files []string
}

type Metadata struct {
	SourceFile      string    `json:"source_file"`
	TranslationDate time.Time `json:"translation_date"`
	Model           string    `json:"model"`
	Characters      int       `json:"characters"`
	Chunks          int       `json:"chunks"`
	Status          Status    `json:"status"`
}

type ErrorInfo struct {
	SourceFile   string    `json:"source_file"`
	ErrorDate    time.Time `json:"error_date"`
	ErrorMessage string    `json:"error_message"`
	Status       Status    `json:"status"`
}

type Summary struct {
	Timestamp       time.Time         `json:"timestamp"`
	SourceDirectory string            `json:"source_directory"`
	OutputDirectory string            `json:"output_directory"`
	Model           string            `json:"model"`
	TotalFiles      int               `json:"total_files"`
	Completed       int               `json:"completed"`
	Skipped         int               `json:"skipped"`
	Failed          int               `json:"failed"`
	Results         map[string]Status `json:"results"`
}

// Translator is the part of the pipeline a batch run needs.
type Translator interface {
	Translate(ctx context.Context, req pipeline.TranslationRequest) (*pipeline.TranslationResult, error)
}

type Runner struct {
	translator Translator
	logger     *slog.Logger
	now        func() time.Time
}

func NewRunner(t Translator, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{translator: t, logger: logger, now: time.Now}
}

// Run translates the files of cfg.SourceDir. A file that fails is recorded and
// the run moves on; only setup problems and cancellation return an error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Summary, error) {
	if err := util.ValidateDirPath(cfg.SourceDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	files, err := loader.ListTextFiles(cfg.SourceDir, cfg.Files)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, cfg.SourceDir)
	}

	r.logger.Info("starting batch translation",
		"files", len(files),
		"source", cfg.SourceDir,
		"output", cfg.OutputDir,
		"model", cfg.Model,
		"workers", cfg.Workers,
	)

	results, runErr := processor.Process(ctx, files, processor.Config{Workers: cfg.Workers}, func(ctx context.Context, i int, path string) error {
		return r.processFile(ctx, cfg, path)
	})

	summary := &Summary{
		Timestamp:       r.now(),
		SourceDirectory: cfg.SourceDir,
		OutputDirectory: cfg.OutputDir,
		Model:           cfg.Model,
		TotalFiles:      len(files),
		Results:         make(map[string]Status, len(files)),
	}
	for i, path := range files {
		var status Status
		switch err := results[i]; {
		case errors.Is(err, processor.ErrNotRun):
			continue
		case err == nil:
			status = StatusCompleted
			summary.Completed++
		case errors.Is(err, errSkipped):
			status = StatusSkipped
			summary.Skipped++
		default:
			status = StatusFailed
			summary.Failed++
		}
		summary.Results[filepath.Base(path)] = status
	}

	r.logger.Info("batch translation finished",
		"completed", summary.Completed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)

	if err := util.WriteJSON(filepath.Join(cfg.OutputDir, SummaryFile), summary); err != nil {
		return summary, err
	}

	return summary, runErr
}

func (r *Runner) processFile(ctx context.Context, cfg Config, path string) error {
	name := filepath.Base(path)
	outPath, err := util.OutputPath(path, cfg.OutputDir, ".txt")
	if err != nil {
		return err
	}

	if !cfg.Force && util.FileExists(outPath) {
		r.logger.Info("skipping, translation already exists", "file", name)
		return errSkipped
	}

	r.logger.Info("translating file", "file", name)

	result, err := r.translateFile(ctx, cfg, path, outPath)
	if err != nil {
		r.logger.Error("failed to translate file", "file", name, "error", err)
		info := ErrorInfo{
			SourceFile:   name,
			ErrorDate:    r.now(),
			ErrorMessage: err.Error(),
			Status:       StatusFailed,
		}
		if werr := util.WriteJSON(filepath.Join(cfg.OutputDir, ErrorsDir, name+".error.json"), info); werr != nil {
			r.logger.Error("failed to write error file", "file", name, "error", werr)
		}
		return err
	}

	r.logger.Info("translation saved", "file", outPath, "chunks", result.ChunkCount)
	return nil
}

func (r *Runner) translateFile(ctx context.Context, cfg Config, path, outPath string) (*pipeline.TranslationResult, error) {
	text, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}

	result, err := r.translator.Translate(ctx, pipeline.TranslationRequest{
		Credential: cfg.Credential,
		ModelID:    cfg.Model,
		SourceText: text,
	})
	if err != nil {
		return nil, err
	}

	metaPath, err := util.OutputPath(path, cfg.OutputDir, ".meta.json")
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(outPath, []byte(result.TranslatedText), 0o644); err != nil {
		return nil, fmt.Errorf("writing translation: %w", err)
	}

	meta := Metadata{
		SourceFile:      filepath.Base(path),
		TranslationDate: result.Timestamp,
		Model:           result.ModelID,
		Characters:      utf8.RuneCountInString(text),
		Chunks:          result.ChunkCount,
		Status:          StatusCompleted,
	}
	// a translation without metadata would be skipped as done on the next run
	if err := util.WriteJSON(metaPath, meta); err != nil {
		os.Remove(outPath)
		return nil, err
	}

	return result, nil
}
