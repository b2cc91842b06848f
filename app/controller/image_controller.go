package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"shoe-card/service"
)

// ImageOptimizer returns the optimized bytes of an image source
type ImageOptimizer interface {
	GetOptimized(ctx context.Context, src string, size string) ([]byte, error)
}

// ImageController serves shoe images resized for the card
type ImageController struct {
	images ImageOptimizer
	logger *zap.Logger
}

// NewImageController creates a new ImageController
func NewImageController(images ImageOptimizer, logger *zap.Logger) *ImageController {
	return &ImageController{images: images, logger: logger}
}

// validImageSizes is a map of valid size values
var validImageSizes = map[string]bool{
	service.SizeThumb:  true,
	service.SizeMedium: true,
}

// GetImage handles GET /images?src=...&size=thumb|medium
func (c *ImageController) GetImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	src := strings.TrimSpace(r.URL.Query().Get("src"))
	if src == "" {
		http.Error(w, "src parameter is required", http.StatusBadRequest)
		return
	}

	size := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("size")))
	if size == "" {
		size = service.SizeMedium
	}
	if !validImageSizes[size] {
		http.Error(w, "Invalid size. Valid sizes: thumb, medium", http.StatusBadRequest)
		return
	}

	data, err := c.images.GetOptimized(r.Context(), src, size)
	if err != nil {
		c.logger.Error("❌ GetImage: error optimizing image", zap.String("src", src), zap.Error(err))
		switch {
		case errors.Is(err, service.ErrUnsupportedSource):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrDriveUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			http.Error(w, fmt.Sprintf("Failed to load image: %v", err), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		c.logger.Error("❌ GetImage: error writing response", zap.Error(err))
	}
}
