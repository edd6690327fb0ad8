package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lms_backend/internal/importer"
)

const MaxImportSize = 5 * 1024 * 1024 // 5MB

// Archiver keeps a copy of every uploaded CSV.
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte) (string, error)
}

type ImportController struct {
	importer *importer.Importer
	archiver Archiver
	log      *zap.Logger
	now      func() time.Time
}

// NewImportController accepts a nil archiver; uploads are then not archived.
func NewImportController(im *importer.Importer, archiver Archiver, log *zap.Logger) *ImportController {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImportController{importer: im, archiver: archiver, log: log, now: time.Now}
}

func (ic *ImportController) ImportCSV(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "CSV file is required",
		})
	}

	if file.Size > MaxImportSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": fmt.Sprintf("File size too large. Maximum size is %d bytes", MaxImportSize),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not open file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read file",
		})
	}

	ctx := c.UserContext()
	if ic.archiver != nil {
		if key, err := ic.archiver.Archive(ctx, file.Filename, data); err != nil {
			ic.log.Warn("Could not archive CSV upload", zap.String("file", file.Filename), zap.Error(err))
		} else {
			ic.log.Info("Archived CSV upload", zap.String("key", key))
		}
	}

	res, err := ic.importer.Import(ctx, bytes.NewReader(data), ic.now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    "Import stopped",
			"imported": res.Imported,
			"skipped":  res.Skipped,
		})
	}

	return c.JSON(res)
}

func (ic *ImportController) Template(c *fiber.Ctx) error {
	c.Attachment(importer.TemplateFileName)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(importer.Template())
}
