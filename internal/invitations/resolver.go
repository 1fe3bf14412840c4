package invitations

import (
	"context"
	"errors"
	"strings"
	"time"

	"epc-portal-backend/internal/authority"
	"epc-portal-backend/internal/shared/telemetry"
)

const defaultLookupTimeout = 8 * time.Second

// Resolver validates invitation codes with a cache-aside read: the local
// store answers the common case at local latency, and codes known only to
// the record authority are fetched once and written back.
type Resolver struct {
	Repo          Repo
	Authority     authority.Client
	LookupTimeout time.Duration
}

// Validate resolves a code to an active invitation.
//
// A code the local store already knows to be used, expired, or cancelled is
// rejected outright; the authority is consulted only for codes the local
// store has never seen. An unreachable authority is indistinguishable from a
// missing code: both return ErrNotFound.
func (r *Resolver) Validate(ctx context.Context, code string) (Invitation, error) {
	code = strings.TrimSpace(code)
	if len(code) != CodeLength {
		return Invitation{}, ErrMalformedCode
	}
	code = strings.ToUpper(code)

	inv, err := r.Repo.Get(ctx, code)
	switch {
	case err == nil:
		if inv.Status != StatusActive {
			return Invitation{}, ErrNotFound
		}
		inv.Source = SourceLocalCache
		return inv, nil
	case !errors.Is(err, ErrNotFound):
		return Invitation{}, err
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.lookupTimeout())
	defer cancel()

	remote, err := r.Authority.LookupInvitation(lookupCtx, code)
	if err != nil || !remote.Active() {
		return Invitation{}, ErrNotFound
	}

	inv = Invitation{
		Code:         code,
		CompanyName:  remote.CompanyName,
		ContactEmail: remote.ContactEmail,
		Notes:        remote.Notes,
		Status:       StatusActive,
	}

	// Write-back must never turn a successful validation into a failure.
	if err := r.Repo.Upsert(ctx, inv); err != nil {
		telemetry.Warn("invitation.writeback.failed", map[string]any{
			"invitation_code": code,
			"err":             err.Error(),
		})
	}

	inv.Source = SourceAuthority
	return inv, nil
}

func (r *Resolver) lookupTimeout() time.Duration {
	if r.LookupTimeout > 0 {
		return r.LookupTimeout
	}
	return defaultLookupTimeout
}
