// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/photon/internal/config"
	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/metrics"
)

// Variant selects the image size.
type Variant string

const (
	Thumbnail Variant = "thumbnail"
	Preview   Variant = "preview"
)

var (
	// ErrNoThumbnail is returned when the upstream has no image for the file.
	ErrNoThumbnail = errors.New("no thumbnail available for this file")

	// ErrTooLarge is returned when the upstream image exceeds preview.max_bytes.
	ErrTooLarge = errors.New("upstream image too large")

	// ErrNotImage is returned when the upstream answers 200 with something
	// other than an image, such as the sign-in page served for private files.
	ErrNotImage = errors.New("upstream response is not an image")
)

// Image is a fetched image.
type Image struct {
	Data        []byte
	ContentType string
}

// Source fetches images by file id.
type Source interface {
	Fetch(ctx context.Context, fileID string, variant Variant) (*Image, error)
}

// DriveSource fetches images over HTTP. The upstream URL comes from a
// LinkResolver when one is set and from the configured URL template otherwise.
type DriveSource struct {
	cfg    config.PreviewConfig
	client *http.Client
	links  LinkResolver
	cb     *gobreaker.CircuitBreaker[*Image]
}

// NewDriveSource creates a DriveSource. A nil client gets one with cfg.Timeout.
func NewDriveSource(cfg config.PreviewConfig, client *http.Client) *DriveSource {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	cbName := "preview-upstream"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*Image](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNoThumbnail) ||
				errors.Is(err, ErrNotImage) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return &DriveSource{cfg: cfg, client: client, cb: cb}
}

// NewDriveSourceWithLinks creates a DriveSource that looks up each file's
// thumbnail link through links before fetching it.
func NewDriveSourceWithLinks(cfg config.PreviewConfig, client *http.Client, links LinkResolver) *DriveSource {
	s := NewDriveSource(cfg, client)
	s.links = links
	return s
}

func (s *DriveSource) size(v Variant) int {
	if v == Preview {
		return s.cfg.PreviewSize
	}
	return s.cfg.ThumbnailSize
}

// Fetch implements Source.
func (s *DriveSource) Fetch(ctx context.Context, fileID string, variant Variant) (*Image, error) {
	img, err := s.cb.Execute(func() (*Image, error) {
		url, err := s.upstreamURL(ctx, fileID, s.size(variant))
		if err != nil {
			return nil, err
		}
		return s.fetch(ctx, url)
	})
	metrics.RecordPreviewFetch(string(variant), err)
	return img, err
}

func (s *DriveSource) upstreamURL(ctx context.Context, fileID string, size int) (string, error) {
	if s.links == nil {
		return s.cfg.URLFor(fileID, size), nil
	}
	link, err := s.links.ThumbnailLink(ctx, fileID)
	if err != nil {
		return "", err
	}
	return resizeLink(link, size), nil
}

func (s *DriveSource) fetch(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch upstream image: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNoThumbnail
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if s.cfg.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, s.cfg.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upstream image: %w", err)
	}
	if s.cfg.MaxBytes > 0 && int64(len(data)) > s.cfg.MaxBytes {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrNoThumbnail
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !isImage(contentType) {
		return nil, fmt.Errorf("%w: content type %q", ErrNotImage, contentType)
	}
	return &Image{Data: data, ContentType: contentType}, nil
}

func isImage(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.HasPrefix(mediaType, "image/")
}
