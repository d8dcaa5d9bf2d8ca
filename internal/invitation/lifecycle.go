// Package invitation holds the board invitation state machine.
//
// pending -> accepted and pending -> declined are the only transitions. Expiry
// is not stored: a pending invitation older than the TTL reads as expired while
// its row keeps status "pending".
package invitation

import (
	"strings"
	"time"

	"collabkanban/internal/apperror"
	"collabkanban/internal/model"

	"golang.org/x/text/cases"
)

const DefaultTTL = 7 * 24 * time.Hour

type Lifecycle struct {
	TTL time.Duration
}

func New(ttl time.Duration) Lifecycle {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Lifecycle{TTL: ttl}
}

// Expired reports whether now is past the acceptance deadline. An invitation
// exactly TTL old is still valid.
func (l Lifecycle) Expired(inv *model.BoardInvitation, now time.Time) bool {
	return now.Sub(inv.CreatedAt) > l.TTL
}

func (l Lifecycle) ExpiresAt(inv *model.BoardInvitation) time.Time {
	return inv.CreatedAt.Add(l.TTL)
}

// EffectiveStatus is the status every reader should act on.
func (l Lifecycle) EffectiveStatus(inv *model.BoardInvitation, now time.Time) model.InvitationStatus {
	if inv.Status == model.InvitationPending && l.Expired(inv, now) {
		return model.InvitationExpired
	}
	return inv.Status
}

// Actionable reports whether the invitation can still be accepted or declined.
func (l Lifecycle) Actionable(inv *model.BoardInvitation, now time.Time) bool {
	return l.EffectiveStatus(inv, now) == model.InvitationPending
}

// CheckAccept returns a domain error unless the invitation is pending, not
// expired and addressed to email.
func (l Lifecycle) CheckAccept(inv *model.BoardInvitation, email string, now time.Time) error {
	if inv.Status != model.InvitationPending {
		return apperror.Domain(apperror.CodeInvitationNotPending, "invitation was already %s", inv.Status)
	}
	if l.Expired(inv, now) {
		return apperror.Domain(apperror.CodeInvitationExpired, "invitation expired")
	}
	if NormalizeEmail(inv.Email) != NormalizeEmail(email) {
		return apperror.Domain(apperror.CodeInvitationEmailMismatch, "invitation was sent to a different email")
	}
	return nil
}

// CheckDecline only requires the stored status to be pending.
func (l Lifecycle) CheckDecline(inv *model.BoardInvitation) error {
	if inv.Status != model.InvitationPending {
		return apperror.Domain(apperror.CodeInvitationNotPending, "invitation was already %s", inv.Status)
	}
	return nil
}

// Accept and Decline perform the transition on the row. Callers check first.
func Accept(inv *model.BoardInvitation) {
	inv.Status = model.InvitationAccepted
}

func Decline(inv *model.BoardInvitation) {
	inv.Status = model.InvitationDeclined
}

// NormalizeEmail is the form emails are stored and compared in. Accounts are
// registered lower-cased, so this keeps invitation matching exact on that form.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// FilterActionable keeps invitations that are still pending and unexpired.
func (l Lifecycle) FilterActionable(invs []model.BoardInvitation, now time.Time) []model.BoardInvitation {
	out := make([]model.BoardInvitation, 0, len(invs))
	for _, inv := range invs {
		if l.Actionable(&inv, now) {
			out = append(out, inv)
		}
	}
	return out
}
