package approval

import (
	"time"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/lib/utils/helpers"
	"hr-portal-backend/models"
)

// Actor is the authenticated user attempting a workflow action. IsAdmin
// comes from the configured allow-list, never from the request body.
type Actor struct {
	Email   string
	IsAdmin bool
}

// Request is the view of a pending record the two-tier workflow needs.
// Trip requests map their extended lifecycle onto ApprovalStatus before
// entering here.
type Request interface {
	RequestID() string
	OwnerEmail() string
	ApproverEmail() string
	CurrentStatus() models.ApprovalStatus
}

// Tier names which approval step a transition performs.
type Tier string

const (
	TierManager Tier = "manager"
	TierAdmin   Tier = "admin"
)

// Transition is a decided status change plus the audit columns to set. It
// is applied with a conditional update so a concurrent change surfaces as
// a conflict instead of a lost write.
type Transition struct {
	RequestID string
	From      models.ApprovalStatus
	To        models.ApprovalStatus
	Tier      Tier
	Updates   map[string]interface{}
}

// Approve decides the next status for an approve action. Managers move
// pending to manager_approved, admins move manager_approved to approved.
// An admin who is also the request's manager still approves one tier at a
// time: approving from pending is the manager step, never a shortcut to
// approved. Acting on your own request is always denied.
func Approve(actor Actor, req Request, now time.Time) (Transition, error) {
	if err := checkActor(actor, req); err != nil {
		return Transition{}, err
	}
	status := req.CurrentStatus()
	if status.IsTerminal() {
		return Transition{}, apperrors.InvalidState("request is already %s", status)
	}
	isManager := actor.Email == req.ApproverEmail()
	switch status {
	case models.ApprovalStatusPending:
		if !isManager {
			if actor.IsAdmin {
				return Transition{}, apperrors.InvalidState("request is awaiting manager approval")
			}
			return Transition{}, apperrors.PermissionDenied("only the manager may approve a pending request")
		}
		return Transition{
			RequestID: req.RequestID(),
			From:      models.ApprovalStatusPending,
			To:        models.ApprovalStatusManagerApproved,
			Tier:      TierManager,
			Updates: map[string]interface{}{
				"status":              string(models.ApprovalStatusManagerApproved),
				"manager_approved_by": actor.Email,
				"manager_approved_at": now,
			},
		}, nil
	case models.ApprovalStatusManagerApproved:
		if !actor.IsAdmin {
			return Transition{}, apperrors.PermissionDenied("only an admin may give final approval")
		}
		return Transition{
			RequestID: req.RequestID(),
			From:      models.ApprovalStatusManagerApproved,
			To:        models.ApprovalStatusApproved,
			Tier:      TierAdmin,
			Updates: map[string]interface{}{
				"status":            string(models.ApprovalStatusApproved),
				"admin_approved_by": actor.Email,
				"admin_approved_at": now,
			},
		}, nil
	}
	return Transition{}, apperrors.InvalidState("request can not be approved from status %s", status)
}

// Reject decides a reject action. The rejecting tier mirrors the
// approving one: the manager rejects a pending request, an admin rejects
// after manager approval.
func Reject(actor Actor, req Request, reason string, now time.Time) (Transition, error) {
	if err := checkActor(actor, req); err != nil {
		return Transition{}, err
	}
	if reason == "" {
		return Transition{}, apperrors.Validation("a rejection reason is required")
	}
	status := req.CurrentStatus()
	if status.IsTerminal() {
		return Transition{}, apperrors.InvalidState("request is already %s", status)
	}
	isManager := actor.Email == req.ApproverEmail()
	switch status {
	case models.ApprovalStatusPending:
		if !isManager {
			return Transition{}, apperrors.PermissionDenied("only the manager may reject a pending request")
		}
	case models.ApprovalStatusManagerApproved:
		if !actor.IsAdmin {
			return Transition{}, apperrors.PermissionDenied("only an admin may reject after manager approval")
		}
	default:
		return Transition{}, apperrors.InvalidState("request can not be rejected from status %s", status)
	}
	tier := TierManager
	if status == models.ApprovalStatusManagerApproved {
		tier = TierAdmin
	}
	return Transition{
		RequestID: req.RequestID(),
		From:      status,
		To:        models.ApprovalStatusRejected,
		Tier:      tier,
		Updates: map[string]interface{}{
			"status":           string(models.ApprovalStatusRejected),
			"rejected_by":      actor.Email,
			"rejected_at":      now,
			"rejection_reason": reason,
		},
	}, nil
}

func checkActor(actor Actor, req Request) error {
	if actor.Email == "" {
		return apperrors.PermissionDenied("not authenticated")
	}
	if helpers.NormalizeEmail(actor.Email) == helpers.NormalizeEmail(req.OwnerEmail()) {
		return apperrors.PermissionDenied("acting on your own request is not allowed")
	}
	return nil
}

// CanView reports whether the actor may read the request at all. Owners,
// their manager and admins see it, everyone else gets not found upstream.
func CanView(actor Actor, req Request) bool {
	if actor.IsAdmin {
		return true
	}
	email := helpers.NormalizeEmail(actor.Email)
	return email == helpers.NormalizeEmail(req.OwnerEmail()) ||
		email == helpers.NormalizeEmail(req.ApproverEmail())
}
