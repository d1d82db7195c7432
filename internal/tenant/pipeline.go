// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/metrics"
)

// Pipeline names, used in logs and metric labels.
const (
	PrivatePipeline = "private"
	PublicPipeline  = "public"
)

// Stage names.
const (
	StageDecodeStaffToken    = "decode_staff_token"
	StageResolveMerchant     = "resolve_merchant"
	StageCheckMerchantActive = "check_merchant_active"
	StageVerifyPublicToken   = "verify_public_token"
	StageExtractClaims       = "extract_merchant_and_project"
)

// RequestContext is the state threaded through pipeline stages.
type RequestContext struct {
	// Authorization is the raw Authorization header value.
	Authorization string

	Staff  StaffIdentity
	Claims PublicClaims
	Tenant Context
}

// StageFunc transforms the request context or rejects the request.
type StageFunc func(ctx context.Context, rc RequestContext) (RequestContext, error)

// Stage is a named step of a pipeline.
type Stage struct {
	Name string
	Run  StageFunc
}

// Pipeline runs stages in order and stops at the first error.
type Pipeline struct {
	name   string
	stages []Stage
}

// NewPipeline creates a pipeline from an ordered list of stages.
func NewPipeline(name string, stages ...Stage) *Pipeline {
	return &Pipeline{name: name, stages: stages}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run executes every stage. On failure the input context is returned unchanged
// together with a *Error naming the failing stage.
func (p *Pipeline) Run(ctx context.Context, rc RequestContext) (RequestContext, error) {
	cur := rc
	for _, stage := range p.stages {
		start := time.Now()
		next, err := stage.Run(ctx, cur)
		metrics.RecordPipelineStage(p.name, stage.Name, time.Since(start))

		if err != nil {
			perr := stageError(stage.Name, err)
			metrics.RecordPipelineDecision(p.name, false, perr.Kind.String())
			logging.Ctx(ctx).Warn().
				Str("pipeline", p.name).
				Str("stage", perr.Stage).
				Str("kind", perr.Kind.String()).
				Str("reason", perr.Message).
				Msg("Request rejected")
			return rc, perr
		}
		cur = next
	}

	metrics.RecordPipelineDecision(p.name, true, "")
	return cur, nil
}

// stageError maps any stage failure onto *Error. Unclassified failures inside an
// auth stage fail closed as Unauthenticated.
func stageError(stage string, err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		out := *te
		if out.Stage == "" {
			out.Stage = stage
		}
		return &out
	}
	return &Error{Kind: KindUnauthenticated, Stage: stage, Message: MsgInvalidStaffToken, Err: err}
}

// MerchantResolver resolves a staff identity to a tenant context.
type MerchantResolver interface {
	Resolve(ctx context.Context, email, token string) (Context, error)
}

// DecodeStaffTokenStage extracts the staff identity from the Authorization header.
func DecodeStaffTokenStage(decoder StaffDecoder) Stage {
	return Stage{
		Name: StageDecodeStaffToken,
		Run: func(_ context.Context, rc RequestContext) (RequestContext, error) {
			id, err := decoder.DecodeStaff(rc.Authorization)
			if err != nil {
				return rc, err
			}
			if id.Email == "" {
				return rc, Unauthenticated(MsgMissingEmail, nil)
			}
			rc.Staff = id
			return rc, nil
		},
	}
}

// ResolveMerchantStage resolves the decoded identity to its merchant.
func ResolveMerchantStage(resolver MerchantResolver) Stage {
	return Stage{
		Name: StageResolveMerchant,
		Run: func(ctx context.Context, rc RequestContext) (RequestContext, error) {
			tc, err := resolver.Resolve(ctx, rc.Staff.Email, rc.Staff.Token)
			if err != nil {
				return rc, err
			}
			rc.Tenant = tc
			return rc, nil
		},
	}
}

// CheckMerchantActiveStage rejects requests for disabled merchants.
func CheckMerchantActiveStage() Stage {
	return Stage{
		Name: StageCheckMerchantActive,
		Run: func(_ context.Context, rc RequestContext) (RequestContext, error) {
			if !rc.Tenant.IsActiveMerchant {
				return rc, Forbidden(MsgMerchantDisabled, nil)
			}
			return rc, nil
		},
	}
}

// VerifyPublicTokenStage verifies the public project token. Any verification
// failure is Forbidden, except a missing header which stays Unauthenticated.
func VerifyPublicTokenStage(verifier PublicVerifier) Stage {
	return Stage{
		Name: StageVerifyPublicToken,
		Run: func(_ context.Context, rc RequestContext) (RequestContext, error) {
			claims, err := verifier.VerifyPublic(rc.Authorization)
			if err != nil {
				var te *Error
				if errors.As(err, &te) {
					return rc, err
				}
				return rc, Forbidden(MsgInvalidPublicToken, err)
			}
			rc.Claims = claims
			return rc, nil
		},
	}
}

// ExtractClaimsStage builds the tenant context from verified claims.
func ExtractClaimsStage() Stage {
	return Stage{
		Name: StageExtractClaims,
		Run: func(_ context.Context, rc RequestContext) (RequestContext, error) {
			if rc.Claims.MerchantID == "" || rc.Claims.ProjectID == "" {
				return rc, Forbidden(MsgPublicClaimsMissing, nil)
			}
			rc.Tenant = Context{
				MerchantID: rc.Claims.MerchantID,
				ProjectID:  rc.Claims.ProjectID,
			}
			return rc, nil
		},
	}
}

// NewPrivatePipeline wires the staff pipeline:
// decode_staff_token -> resolve_merchant -> check_merchant_active.
func NewPrivatePipeline(decoder StaffDecoder, resolver MerchantResolver) *Pipeline {
	return NewPipeline(PrivatePipeline,
		DecodeStaffTokenStage(decoder),
		ResolveMerchantStage(resolver),
		CheckMerchantActiveStage(),
	)
}

// NewPublicPipeline wires the viewer pipeline:
// verify_public_token -> extract_merchant_and_project.
func NewPublicPipeline(verifier PublicVerifier) *Pipeline {
	return NewPipeline(PublicPipeline,
		VerifyPublicTokenStage(verifier),
		ExtractClaimsStage(),
	)
}
