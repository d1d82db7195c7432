// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package preview

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// LinkResolver looks up the upstream thumbnail link of a file.
type LinkResolver interface {
	ThumbnailLink(ctx context.Context, fileID string) (string, error)
}

// DriveLinks resolves thumbnail links with the Drive v3 files API, so files
// shared only with the service account still get a thumbnail.
type DriveLinks struct {
	files *drive.FilesService
}

// NewDriveLinks authenticates with a base64 encoded service account key and
// read-only Drive scope. ctx backs token refreshes and should outlive the
// returned value.
func NewDriveLinks(ctx context.Context, serviceAccountB64 string) (*DriveLinks, error) {
	key, err := base64.StdEncoding.DecodeString(serviceAccountB64)
	if err != nil {
		return nil, fmt.Errorf("decode service account key: %w", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(key, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	svc, err := drive.NewService(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	return &DriveLinks{files: svc.Files}, nil
}

// ThumbnailLink implements LinkResolver. A file Drive does not know maps to
// ErrNoThumbnail, as does a file without a thumbnail.
func (d *DriveLinks) ThumbnailLink(ctx context.Context, fileID string) (string, error) {
	file, err := d.files.Get(fileID).Fields("thumbnailLink").Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return "", ErrNoThumbnail
		}
		return "", fmt.Errorf("drive files.get: %w", err)
	}
	if file.ThumbnailLink == "" {
		return "", ErrNoThumbnail
	}
	return file.ThumbnailLink, nil
}

var linkSizePattern = regexp.MustCompile(`=s\d+`)

// resizeLink rewrites the =s<N> size suffix of a Drive thumbnail link.
// Links without one are returned unchanged.
func resizeLink(link string, size int) string {
	return linkSizePattern.ReplaceAllLiteralString(link, "=s"+strconv.Itoa(size))
}
