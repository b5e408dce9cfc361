// Package server exposes translation over HTTP and serves the browser page.
package server

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/nguyenvanduocit/grctrans/pkg/detector"
	"github.com/nguyenvanduocit/grctrans/pkg/exporter"
	"github.com/nguyenvanduocit/grctrans/pkg/loader"
	"github.com/nguyenvanduocit/grctrans/pkg/models"
	"github.com/nguyenvanduocit/grctrans/pkg/pipeline"
	"github.com/nguyenvanduocit/grctrans/pkg/translator"
)

// DefaultBodyLimit leaves room for multipart overhead around a MaxFileSize upload.
const DefaultBodyLimit = 16 << 20

//go:embed static
var staticFS embed.FS

type Translator interface {
	Translate(ctx context.Context, req pipeline.TranslationRequest) (*pipeline.TranslationResult, error)
}

type Config struct {
	Translator   Translator
	Logger       *slog.Logger
	DefaultModel string
	BodyLimit    int
	// Detector, when set, flags input that does not look like Greek.
	Detector *detector.Detector
}

type server struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config) *fiber.App {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = models.Default().ID
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	s := &server{cfg: cfg, logger: cfg.Logger}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          s.handleError,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New())
	app.Use(s.logRequest)

	app.Get("/", s.handleIndex)
	app.Get("/assets/:filename", s.handleAsset)
	app.Get("/api/models", s.handleModels)
	app.Post("/api/translate", s.handleTranslate)
	app.Post("/api/export", s.handleExport)

	return app
}

func (s *server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Info("request",
		"id", c.Locals("requestid"),
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

func (s *server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case isBadRequest(err):
		code = fiber.StatusBadRequest
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "id", c.Locals("requestid"), "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func isBadRequest(err error) bool {
	return pipeline.IsValidation(err) ||
		errors.Is(err, loader.ErrUnsupportedFileType) ||
		errors.Is(err, loader.ErrFileTooLarge) ||
		errors.Is(err, loader.ErrInvalidEncoding) ||
		errors.Is(err, exporter.ErrUnknownFormat)
}

func (s *server) handleIndex(c *fiber.Ctx) error {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}

func (s *server) handleAsset(c *fiber.Ctx) error {
	filename := filepath.Base(c.Params("filename"))
	body, err := staticFS.ReadFile("static/" + filename)
	if err != nil {
		return fiber.ErrNotFound
	}

	switch {
	case strings.HasSuffix(filename, ".css"):
		c.Set(fiber.HeaderContentType, "text/css")
	case strings.HasSuffix(filename, ".js"):
		c.Set(fiber.HeaderContentType, "application/javascript")
	}
	return c.Send(body)
}

func (s *server) handleModels(c *fiber.Ctx) error {
	return c.JSON(models.List())
}

func (s *server) handleTranslate(c *fiber.Ctx) error {
	apiKey := strings.TrimSpace(c.FormValue("api_key"))
	if apiKey == "" {
		return pipeline.ErrMissingCredential
	}

	model := strings.TrimSpace(c.FormValue("model"))
	if model == "" {
		model = s.cfg.DefaultModel
	}
	if _, err := translator.ProviderFor(model); err != nil {
		return err
	}

	text := c.FormValue("text")
	if fh, err := c.FormFile("file"); err == nil {
		if err := loader.ValidateUpload(fh.Filename, fh.Size); err != nil {
			return err
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()

		s.logger.Info("processing upload", "id", c.Locals("requestid"), "file", fh.Filename, "size", fh.Size)
		if text, err = loader.ReadText(fh.Filename, f); err != nil {
			return err
		}
	}

	if strings.TrimSpace(text) == "" {
		return pipeline.ErrEmptyText
	}

	if s.cfg.Detector != nil && !s.cfg.Detector.IsGreek(text) {
		c.Set("X-Language-Warning", "input does not look like Greek")
	}

	result, err := s.cfg.Translator.Translate(c.UserContext(), pipeline.TranslationRequest{
		Credential: apiKey,
		ModelID:    model,
		SourceText: text,
	})
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (s *server) handleExport(c *fiber.Ctx) error {
	format, err := exporter.ParseFormat(c.Query("format", string(exporter.FormatText)))
	if err != nil {
		return err
	}

	var result pipeline.TranslationResult
	if err := c.BodyParser(&result); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid translation payload")
	}
	if result.TranslatedText == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no translation to export")
	}
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now()
	}

	body, err := exporter.Render(format, &result)
	if err != nil {
		return err
	}

	c.Attachment(exporter.Filename(format, &result))
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(body)
}
