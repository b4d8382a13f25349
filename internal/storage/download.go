package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var maxImageBytes = 32 << 20

// ErrImageTooLarge is returned instead of a truncated image.
var ErrImageTooLarge = errors.New("storage: image too large")

// Image is a downloaded result image.
type Image struct {
	Data        []byte
	ContentType string
}

// Ext returns a file extension matching the content type, defaulting to .png.
func (img Image) Ext() string {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(img.ContentType, ";", 2)[0]))
	switch ct {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// Download fetches an image URL returned by the generation API.
func Download(ctx context.Context, client *http.Client, imageURL string) (Image, error) {
	parsed, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Image{}, fmt.Errorf("storage: invalid image url %q", imageURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return Image{}, fmt.Errorf("storage: build download request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("storage: download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return Image{}, fmt.Errorf("storage: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxImageBytes)+1))
	if err != nil {
		return Image{}, fmt.Errorf("storage: read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return Image{}, fmt.Errorf("%w: over %d bytes", ErrImageTooLarge, maxImageBytes)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return Image{Data: data, ContentType: ct}, nil
}
