// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

// Package preview fetches project image thumbnails and previews from the
// upstream file host for the public gallery.
//
// Two variants exist, thumbnail (220px by default) and preview (640px). The
// upstream URL comes from preview.url_template, formatted with the file id and
// the pixel size. Calls go through a circuit breaker so an unavailable
// upstream fails fast.
package preview
