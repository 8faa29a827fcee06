package scheduling

import (
	"strings"
	"time"

	"github.com/papan-digital/minbar/internal/model"
)

// Approval state machine:
//
//	pending -> active (approve) | rejected (reject)
//	active  -> expired (time-driven)
//
// rejected and expired are terminal. Resubmission creates a new pending item
// elsewhere; it is not a transition here. Each function is pure: it returns
// an updated copy or a typed error and never mutates its argument.

// Approve moves a pending item to active. The approver must not be the
// submitter.
func Approve(item model.ContentItem, approverID string, notes string, now time.Time) (model.ContentItem, error) {
	if item.Status != model.ContentStatusPending {
		return item, invalidTransition("cannot approve content in status %q", item.Status)
	}
	if approverID == item.SubmittedBy {
		return item, &Error{Kind: KindSelfApprovalForbidden, Message: "submitter cannot approve their own content"}
	}

	item.Status = model.ContentStatusActive
	item.ApprovedBy = &approverID
	item.ApprovedAt = &now
	if notes != "" {
		item.ApprovalNotes = &notes
	}
	item.UpdatedAt = now
	return item, nil
}

// Reject moves a pending item to rejected. A reason is mandatory.
func Reject(item model.ContentItem, approverID string, reason string, now time.Time) (model.ContentItem, error) {
	if strings.TrimSpace(reason) == "" {
		return item, validationError("rejection reason is required")
	}
	if item.Status != model.ContentStatusPending {
		return item, invalidTransition("cannot reject content in status %q", item.Status)
	}

	item.Status = model.ContentStatusRejected
	item.ApprovedBy = &approverID
	item.RejectionReason = &reason
	item.UpdatedAt = now
	return item, nil
}

// Expire moves an active item past its validity window to expired. Calling it
// on an already-expired item is a no-op so the expiry sweep can be retried
// freely. pending and rejected items cannot expire.
func Expire(item model.ContentItem, asOf time.Time) (model.ContentItem, error) {
	if item.Status == model.ContentStatusExpired {
		return item, nil
	}
	if item.Status != model.ContentStatusActive {
		return item, invalidTransition("cannot expire content in status %q", item.Status)
	}
	if item.ValidUntil == nil || !asOf.After(*item.ValidUntil) {
		return item, validationError("content %s is not past its validity window", item.ID)
	}

	item.Status = model.ContentStatusExpired
	item.UpdatedAt = asOf
	return item, nil
}
