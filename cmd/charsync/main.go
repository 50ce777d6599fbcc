package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"charsync/internal/character"
	"charsync/internal/config"
	"charsync/internal/layout"
	"charsync/internal/pdf"
	"charsync/internal/runner"
	"charsync/internal/sheets"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	extractor, err := pdf.NewExtractor(cfg.ExtractMode, cfg.MaxFileSize)
	if err != nil {
		return err
	}

	template, ok := layout.ForVersion(cfg.TemplateVersion)
	if !ok {
		return fmt.Errorf("unknown template version %q", cfg.TemplateVersion)
	}

	writer, err := newWriter(ctx, cfg)
	if err != nil {
		return err
	}

	pipeline := &runner.Pipeline{
		Extractor: extractor,
		Mapper:    character.NewMapper(),
		Template:  template,
		Writer:    writer,
	}
	if cfg.IsDebug() {
		pipeline.Logf = log.Printf
	}

	result, err := pipeline.Run(ctx, cfg.PDFPath)
	if err != nil {
		return err
	}

	log.Printf("Wrote %d cells (%d attributes) from %s", result.CellsWritten, result.Attributes, cfg.PDFPath)
	return nil
}

// newWriter builds the configured writer. The credential session is
// acquired here, once, and released at process exit. Writer construction
// failures count as the writing stage.
func newWriter(ctx context.Context, cfg *config.Config) (sheets.Writer, error) {
	if cfg.WorkbookPath != "" {
		return sheets.NewWorkbookWriter(cfg.WorkbookPath), nil
	}

	writer, err := sheets.NewGoogleWriter(ctx, cfg.CredentialsFile, cfg.SheetName)
	if err != nil {
		return nil, &runner.StageError{Stage: runner.StageWriting, Err: err}
	}
	return writer, nil
}

func printVersion() {
	fmt.Printf("charsync %s (built %s)\n", version, buildTime)
}
