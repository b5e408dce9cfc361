package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nguyenvanduocit/grctrans/pkg/detector"
	"github.com/nguyenvanduocit/grctrans/pkg/exporter"
	"github.com/nguyenvanduocit/grctrans/pkg/loader"
	"github.com/nguyenvanduocit/grctrans/pkg/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Translate = &cobra.Command{
	Use:   "translate [file]",
	Short: "Translate one Ancient Greek text",
	Long:  "Translate a .txt, .html or .xhtml file, the text given with --text, or standard input.",
	Example: `grctrans translate iliad.txt
grctrans translate --text "μῆνιν ἄειδε θεὰ" --format md
cat odyssey.txt | grctrans translate -o odyssey.html -f html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranslate,
}

func init() {
	Translate.Flags().String("text", "", "text to translate instead of a file")
	Translate.Flags().StringP("output", "o", "", "write the result to this file instead of stdout")
	Translate.Flags().StringP("format", "f", "txt", "output format: txt, html, md or json")
}

// withSignalCancel cancels the returned context on SIGINT or SIGTERM.
func withSignalCancel(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "Interrupt received, stopping...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx, cancel := withSignalCancel(cmd.Context())
	defer cancel()

	format, err := exporter.ParseFormat(cmd.Flag("format").Value.String())
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	if !detector.New().IsGreek(text) {
		slog.Warn("input does not look like Greek, translating anyway")
	}

	model := viper.GetString("model")
	key, err := credentialFor(model)
	if err != nil {
		return err
	}

	completer, closeCompleter, err := newCompleter()
	if err != nil {
		return err
	}
	defer closeCompleter()

	result, err := newPipeline(completer).Translate(ctx, pipeline.TranslationRequest{
		Credential: key,
		ModelID:    model,
		SourceText: text,
	})
	if err != nil {
		return err
	}

	body, err := exporter.Render(format, result)
	if err != nil {
		return err
	}

	if output := cmd.Flag("output").Value.String(); output != "" {
		if err := os.WriteFile(output, body, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		slog.Info("translation saved", "file", output, "chunks", result.ChunkCount)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(append(body, '\n'))
	return err
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return loader.LoadFile(args[0])
	}
	if text := cmd.Flag("text").Value.String(); text != "" {
		return loader.ReadText("input.txt", strings.NewReader(text))
	}
	return loader.ReadText("stdin.txt", cmd.InOrStdin())
}
