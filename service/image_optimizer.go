package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// Image sizes accepted by the optimizer
const (
	SizeThumb  = "thumb"
	SizeMedium = "medium"
)

// ImageService fetches shoe images, shrinks them for the card and caches the result on disk
type ImageService struct {
	fetcher  *ImageFetcher
	cacheDir string
	logger   *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(fetcher *ImageFetcher, cacheDir string, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{
		fetcher:  fetcher,
		cacheDir: cacheDir,
		logger:   logger,
	}
}

// EnsureCacheDir ensures the cache directory exists, creates it if it doesn't
func (s *ImageService) EnsureCacheDir() error {
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// CachePath returns the cache file path for an image source and size
func (s *ImageService) CachePath(src string, size string) string {
	sum := sha256.Sum256([]byte(src))
	filename := fmt.Sprintf("shoe_%s_%s.jpg", hex.EncodeToString(sum[:12]), size)
	return filepath.Join(s.cacheDir, filename)
}

// GetOptimized returns the optimized JPEG for an image source, from cache when possible
func (s *ImageService) GetOptimized(ctx context.Context, src string, size string) ([]byte, error) {
	cachePath := s.CachePath(src, size)
	if data, err := os.ReadFile(cachePath); err == nil {
		s.logger.Debug("✓ Image cache hit", zap.String("path", cachePath))
		return data, nil
	}

	raw, err := s.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(raw, size)
	if err != nil {
		return nil, err
	}

	if err := s.saveToCache(cachePath, optimized); err != nil {
		// Serving the image matters more than caching it
		s.logger.Warn("⚠️ Failed to cache image", zap.String("path", cachePath), zap.Error(err))
	}
	return optimized, nil
}

func (s *ImageService) saveToCache(cachePath string, imageData []byte) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(cachePath, imageData, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	s.logger.Debug("✓ Image cached", zap.String("path", cachePath))
	return nil
}

// OptimizeImage converts an image to JPEG, shrinking it to fit the size's max dimension.
// size: "thumb" or "medium"; anything else is treated as medium.
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxDim, quality := maxSizeMedium, qualityMedium
	if size == SizeThumb {
		maxDim, quality = maxSizeThumb, qualityThumb
	}

	// Fit keeps the aspect ratio and never upscales
	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
