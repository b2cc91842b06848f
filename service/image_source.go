package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DriveScheme prefixes image sources stored on Google Drive, e.g. "drive://FILE_ID"
const DriveScheme = "drive://"

// maxImageBytes caps how much of an image source is read
const maxImageBytes = 20 << 20

var (
	// ErrDriveUnavailable is returned for drive:// sources when no Drive credentials are configured
	ErrDriveUnavailable = errors.New("drive image source not configured")
	// ErrUnsupportedSource is returned for image sources that are neither paths, allowed URLs nor Drive files
	ErrUnsupportedSource = errors.New("unsupported image source")
)

// DriveServiceInterface defines the contract for Google Drive downloads
type DriveServiceInterface interface {
	DownloadImage(ctx context.Context, fileID string) ([]byte, error)
}

// ImageFetcher loads the raw bytes behind a shoe's imageSrc
type ImageFetcher struct {
	client  *http.Client
	baseURL string // used for sources given as a path ("/assets/x.jpg")
	hosts   map[string]bool
	drive   DriveServiceInterface
	logger  *zap.Logger
}

// NewImageFetcher creates a new ImageFetcher. drive may be nil.
// Absolute URLs are only fetched from the baseURL host or one of allowedHosts.
func NewImageFetcher(client *http.Client, baseURL string, drive DriveServiceInterface, logger *zap.Logger, allowedHosts ...string) *ImageFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	hosts := make(map[string]bool, len(allowedHosts)+1)
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		hosts[strings.ToLower(u.Host)] = true
	}
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = true
		}
	}

	return &ImageFetcher{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		hosts:   hosts,
		drive:   drive,
		logger:  logger,
	}
}

// Fetch returns the bytes of an image source
func (f *ImageFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, DriveScheme):
		if f.drive == nil {
			return nil, ErrDriveUnavailable
		}
		fileID := strings.TrimPrefix(src, DriveScheme)
		if fileID == "" {
			return nil, fmt.Errorf("%w: empty drive file id", ErrUnsupportedSource)
		}
		return f.drive.DownloadImage(ctx, fileID)
	case strings.HasPrefix(src, "/"):
		return f.fetchURL(ctx, f.baseURL+src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		if !f.allowed(src) {
			return nil, fmt.Errorf("%w: host not allowed: %q", ErrUnsupportedSource, src)
		}
		return f.fetchURL(ctx, src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, src)
	}
}

// allowed matches the URL's host, with or without port, against the allowed hosts
func (f *ImageFetcher) allowed(src string) bool {
	u, err := url.Parse(src)
	if err != nil || u.Host == "" || u.User != nil {
		return false
	}
	return f.hosts[strings.ToLower(u.Host)] || f.hosts[strings.ToLower(u.Hostname())]
}

func (f *ImageFetcher) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	f.logger.Debug("📥 Fetched image", zap.String("url", url), zap.Int("bytes", len(data)))
	return data, nil
}
