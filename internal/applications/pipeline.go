package applications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"epc-portal-backend/internal/authority"
	"epc-portal-backend/internal/shared/telemetry"
)

// ProcessingStatus is the caller-visible outcome of a successful submission.
const (
	ProcessingSubmitted       = "submitted_to_operations"
	ProcessingQueuedForReview = "queued_for_review"
)

const (
	defaultHandoffTimeout  = 10 * time.Second
	defaultCloseoutTimeout = 5 * time.Second
)

// StepNote records a best-effort step that failed without changing the
// submission outcome. Attached to the result so callers and tests can assert
// on it instead of digging through logs.
type StepNote struct {
	Step   string `json:"step"`
	Detail string `json:"detail"`
}

// SubmitResult is returned on every successful Submit, including handoff
// failures: those are qualified successes, not errors.
type SubmitResult struct {
	ReferenceNumber  string     `json:"referenceNumber"`
	Status           Status     `json:"status"`
	ProcessingStatus string     `json:"processingStatus"`
	Notes            []StepNote `json:"notes,omitempty"`
}

// DraftClearer removes the autosaved draft once a submission is durable.
type DraftClearer interface {
	Clear(ctx context.Context, invitationCode string) (bool, error)
}

// InvitationMarker mirrors invitation close-out into the local store so the
// cache-aside read stays honest after a code is consumed.
type InvitationMarker interface {
	MarkUsed(ctx context.Context, invitationCode string) error
}

// Pipeline commits a finished application across the local store, the record
// authority, and the draft store. Steps are individually committed: there is
// no two-phase commit and no rollback, only forward-only status markers.
type Pipeline struct {
	Repo            Repo
	Authority       authority.Client
	Drafts          DraftClearer
	Invitations     InvitationMarker
	ReferencePrefix string
	HandoffTimeout  time.Duration
	CloseoutTimeout time.Duration

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Submit runs the ordered commit sequence:
//
//  1. persist the application row (failure is fatal, nothing downstream runs)
//  2. hand off a minimal case record to the record authority (failure parks
//     the row in pending_handoff and still reports success)
//  3. close out the invitation remotely and locally (best-effort)
//  4. finalize status and clear the draft (best-effort past the handoff)
//
// Once step 1 commits, caller cancellation is deliberately not observed:
// partially applied external writes cannot be safely undone, so each
// outbound call runs to its own timeout regardless of caller presence.
func (p *Pipeline) Submit(ctx context.Context, invitationCode string, formData map[string]any, files []FileRecord) (SubmitResult, error) {
	invitationCode = strings.ToUpper(strings.TrimSpace(invitationCode))
	if invitationCode == "" {
		return SubmitResult{}, ErrInvalidInput
	}

	now := p.now()
	ref := NewReferenceNumber(p.ReferencePrefix, invitationCode, now)

	app := Application{
		ReferenceNumber: ref,
		InvitationCode:  invitationCode,
		Status:          StatusPending,
		FormData:        formData,
		Files:           files,
		SubmissionDate:  now,
	}
	if err := p.Repo.Create(ctx, app); err != nil {
		return SubmitResult{}, fmt.Errorf("persist application: %w", err)
	}

	// Past this point the user's data is durable and the outcome is a
	// success; detach from caller cancellation.
	base := context.WithoutCancel(ctx)

	if note, ok := p.handoff(base, ref, invitationCode, formData); !ok {
		return SubmitResult{
			ReferenceNumber:  ref,
			Status:           StatusPendingHandoff,
			ProcessingStatus: ProcessingQueuedForReview,
			Notes:            []StepNote{note},
		}, nil
	}

	var notes []StepNote
	notes = append(notes, p.closeOutInvitation(base, ref, invitationCode)...)

	if err := p.Repo.UpdateStatus(base, ref, StatusSubmitted); err != nil {
		// The row stays pending; operators can pick it up. The user's data
		// is durable and the authority already has the case, so this is not
		// reported as a failure.
		notes = append(notes, p.noteFailure(base, ref, "status_finalize", err))
	}

	if p.Drafts != nil {
		if _, err := p.Drafts.Clear(base, invitationCode); err != nil {
			notes = append(notes, p.noteFailure(base, ref, "draft_clear", err))
		}
	}

	return SubmitResult{
		ReferenceNumber:  ref,
		Status:           StatusSubmitted,
		ProcessingStatus: ProcessingSubmitted,
		Notes:            notes,
	}, nil
}

func (p *Pipeline) handoff(ctx context.Context, ref, invitationCode string, formData map[string]any) (StepNote, bool) {
	rec := authority.BuildCaseRecord(ref, invitationCode, formData)

	handoffCtx, cancel := context.WithTimeout(ctx, p.handoffTimeout())
	defer cancel()

	caseID, err := p.Authority.CreateCase(handoffCtx, rec)
	if err == nil {
		telemetry.Info("submission.handoff.ok", map[string]any{
			"reference_number": ref,
			"invitation_code":  invitationCode,
			"case_id":          caseID,
		})
		return StepNote{}, true
	}

	note := p.noteFailure(ctx, ref, "handoff", err)
	if uerr := p.Repo.UpdateStatus(ctx, ref, StatusPendingHandoff); uerr != nil {
		telemetry.Error("submission.handoff.mark_failed", map[string]any{
			"reference_number": ref,
			"err":              uerr.Error(),
		})
	}
	return note, false
}

// closeOutInvitation marks the code used at the authority and mirrors the
// state locally. Both writes are best-effort with a short timeout; neither
// changes the reported outcome.
func (p *Pipeline) closeOutInvitation(ctx context.Context, ref, invitationCode string) []StepNote {
	var notes []StepNote

	closeCtx, cancel := context.WithTimeout(ctx, p.closeoutTimeout())
	defer cancel()

	if err := p.Authority.MarkInvitationUsed(closeCtx, invitationCode); err != nil {
		notes = append(notes, p.noteFailure(ctx, ref, "invitation_closeout", err))
	}

	if p.Invitations != nil {
		if err := p.Invitations.MarkUsed(ctx, invitationCode); err != nil {
			notes = append(notes, p.noteFailure(ctx, ref, "invitation_closeout_local", err))
		}
	}

	return notes
}

// noteFailure logs a best-effort failure and records it in the application's
// processing notes. The note write itself is also best-effort.
func (p *Pipeline) noteFailure(ctx context.Context, ref, step string, cause error) StepNote {
	detail := fmt.Sprintf("%s failed: %v", step, cause)
	telemetry.Warn("submission.step.failed", map[string]any{
		"reference_number": ref,
		"step":             step,
		"err":              cause.Error(),
	})
	if err := p.Repo.AppendNote(ctx, ref, detail); err != nil {
		telemetry.Warn("submission.note.failed", map[string]any{
			"reference_number": ref,
			"step":             step,
			"err":              err.Error(),
		})
	}
	return StepNote{Step: step, Detail: detail}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

func (p *Pipeline) handoffTimeout() time.Duration {
	if p.HandoffTimeout > 0 {
		return p.HandoffTimeout
	}
	return defaultHandoffTimeout
}

func (p *Pipeline) closeoutTimeout() time.Duration {
	if p.CloseoutTimeout > 0 {
		return p.CloseoutTimeout
	}
	return defaultCloseoutTimeout
}
