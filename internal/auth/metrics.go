// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CredentialDecodes counts credential decode outcomes.
	// Labels:
	//   - credential: "staff", "public"
	//   - outcome: "ok", "missing", "invalid", "no_email", "claims_missing"
	CredentialDecodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_credential_decodes_total",
			Help: "Total number of bearer credential decode attempts",
		},
		[]string{"credential", "outcome"},
	)
)

func recordDecode(credential, outcome string) {
	CredentialDecodes.WithLabelValues(credential, outcome).Inc()
}
