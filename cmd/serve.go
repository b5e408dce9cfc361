package cmd

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/nguyenvanduocit/grctrans/pkg/detector"
	"github.com/nguyenvanduocit/grctrans/pkg/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Serve = &cobra.Command{
	Use:     "serve",
	Short:   "Serve the translator page and its JSON API",
	Example: "grctrans serve --port 5000",
	Args:    cobra.NoArgs,
	RunE:    runServe,
}

func init() {
	Serve.Flags().StringP("port", "p", "3000", "port to listen on")
	viper.BindPFlag("serve.port", Serve.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := withSignalCancel(cmd.Context())
	defer cancel()

	completer, closeCompleter, err := newCompleter()
	if err != nil {
		return err
	}
	defer closeCompleter()

	app := server.New(server.Config{
		Translator:   newPipeline(completer),
		Logger:       slog.Default(),
		DefaultModel: viper.GetString("model"),
		Detector:     detector.New(),
	})

	port := viper.GetString("serve.port")

	slog.Info("- http://localhost:" + port + "/")
	slog.Info("- http://localhost:" + port + "/api/models")
	slog.Info("- http://localhost:" + port + "/api/translate")
	slog.Info("- http://localhost:" + port + "/api/export")

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(net.JoinHostPort("", port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		return app.ShutdownWithContext(shutdownCtx)
	}
}
