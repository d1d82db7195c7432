// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

// Package testinfra starts throwaway infrastructure for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/store/...
//
// Tests call SkipIfNoDocker first so the suite still passes on machines
// without a Docker daemon.
package testinfra
