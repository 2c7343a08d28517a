package controller

import (
	"io"

	"github.com/Unshaft/StudyBuddy/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// readImageFile pulls the uploaded photo out of the multipart form and
// enforces type and size limits before any byte reaches the pipeline.
func readImageFile(ctx *fiber.Ctx, field string) ([]byte, error) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		return nil, serverutils.NewAppError(fiber.StatusBadRequest, "Missing image file")
	}

	if fileHeader.Size > maxImageSize {
		return nil, serverutils.NewAppError(fiber.StatusRequestEntityTooLarge, "Image too large (max 10MB)")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return nil, serverutils.NewAppError(fiber.StatusBadRequest, "Unsupported image type: "+contentType)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, serverutils.NewAppError(fiber.StatusBadRequest, "Unreadable image file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, serverutils.NewAppError(fiber.StatusBadRequest, "Unreadable image file")
	}
	return data, nil
}
