package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/models"
)

type fakeRequest struct {
	id      string
	owner   string
	manager string
	status  models.ApprovalStatus
}

func (r fakeRequest) RequestID() string                    { return r.id }
func (r fakeRequest) OwnerEmail() string                   { return r.owner }
func (r fakeRequest) ApproverEmail() string                { return r.manager }
func (r fakeRequest) CurrentStatus() models.ApprovalStatus { return r.status }

var now = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

func pendingRequest() fakeRequest {
	return fakeRequest{
		id:      "req-1",
		owner:   "user@example.com",
		manager: "manager@example.com",
		status:  models.ApprovalStatusPending,
	}
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := apperrors.KindOf(err)
	require.True(t, ok)
	require.Equal(t, kind, got)
}

func TestApprove(t *testing.T) {
	t.Run("manager approves pending", func(t *testing.T) {
		tr, err := Approve(Actor{Email: "manager@example.com"}, pendingRequest(), now)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusManagerApproved, tr.To)
		require.Equal(t, TierManager, tr.Tier)
		require.Equal(t, "manager@example.com", tr.Updates["manager_approved_by"])
	})

	t.Run("admin approves manager_approved", func(t *testing.T) {
		req := pendingRequest()
		req.status = models.ApprovalStatusManagerApproved
		tr, err := Approve(Actor{Email: "admin@example.com", IsAdmin: true}, req, now)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusApproved, tr.To)
		require.Equal(t, TierAdmin, tr.Tier)
		require.Equal(t, "admin@example.com", tr.Updates["admin_approved_by"])
	})

	t.Run("admin can not skip the manager tier", func(t *testing.T) {
		_, err := Approve(Actor{Email: "admin@example.com", IsAdmin: true}, pendingRequest(), now)
		requireKind(t, err, apperrors.KindInvalidState)
	})

	t.Run("admin who is the manager performs the manager step", func(t *testing.T) {
		req := pendingRequest()
		req.manager = "admin@example.com"
		tr, err := Approve(Actor{Email: "admin@example.com", IsAdmin: true}, req, now)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusManagerApproved, tr.To)
		require.Equal(t, TierManager, tr.Tier)
	})

	t.Run("self approval denied even for admins", func(t *testing.T) {
		req := pendingRequest()
		req.owner = "admin@example.com"
		req.manager = "admin@example.com"
		_, err := Approve(Actor{Email: "admin@example.com", IsAdmin: true}, req, now)
		requireKind(t, err, apperrors.KindPermissionDenied)

		_, err = Approve(Actor{Email: "User@Example.com"}, pendingRequest(), now)
		requireKind(t, err, apperrors.KindPermissionDenied)
	})

	t.Run("unrelated employee denied", func(t *testing.T) {
		_, err := Approve(Actor{Email: "other@example.com"}, pendingRequest(), now)
		requireKind(t, err, apperrors.KindPermissionDenied)
	})

	t.Run("manager can not give final approval", func(t *testing.T) {
		req := pendingRequest()
		req.status = models.ApprovalStatusManagerApproved
		_, err := Approve(Actor{Email: "manager@example.com"}, req, now)
		requireKind(t, err, apperrors.KindPermissionDenied)
	})

	t.Run("terminal statuses are frozen", func(t *testing.T) {
		for _, status := range []models.ApprovalStatus{models.ApprovalStatusApproved, models.ApprovalStatusRejected} {
			req := pendingRequest()
			req.status = status
			_, err := Approve(Actor{Email: "admin@example.com", IsAdmin: true}, req, now)
			requireKind(t, err, apperrors.KindInvalidState)
		}
	})
}

func TestReject(t *testing.T) {
	t.Run("manager rejects pending", func(t *testing.T) {
		tr, err := Reject(Actor{Email: "manager@example.com"}, pendingRequest(), "no coverage that week", now)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusRejected, tr.To)
		require.Equal(t, "no coverage that week", tr.Updates["rejection_reason"])
	})

	t.Run("admin rejects after manager approval", func(t *testing.T) {
		req := pendingRequest()
		req.status = models.ApprovalStatusManagerApproved
		tr, err := Reject(Actor{Email: "admin@example.com", IsAdmin: true}, req, "policy", now)
		require.Nil(t, err)
		require.Equal(t, TierAdmin, tr.Tier)
	})

	t.Run("admin can not reject a pending request for the manager", func(t *testing.T) {
		_, err := Reject(Actor{Email: "admin@example.com", IsAdmin: true}, pendingRequest(), "policy", now)
		requireKind(t, err, apperrors.KindPermissionDenied)
	})

	t.Run("empty reason is rejected", func(t *testing.T) {
		_, err := Reject(Actor{Email: "manager@example.com"}, pendingRequest(), "", now)
		requireKind(t, err, apperrors.KindValidation)
	})

	t.Run("manager can not reject after own approval", func(t *testing.T) {
		req := pendingRequest()
		req.status = models.ApprovalStatusManagerApproved
		_, err := Reject(Actor{Email: "manager@example.com"}, req, "changed my mind", now)
		requireKind(t, err, apperrors.KindPermissionDenied)
	})

	t.Run("rejected request stays rejected", func(t *testing.T) {
		req := pendingRequest()
		req.status = models.ApprovalStatusRejected
		_, err := Reject(Actor{Email: "admin@example.com", IsAdmin: true}, req, "again", now)
		requireKind(t, err, apperrors.KindInvalidState)
	})
}

func TestCanView(t *testing.T) {
	req := pendingRequest()
	require.True(t, CanView(Actor{Email: "user@example.com"}, req))
	require.True(t, CanView(Actor{Email: "Manager@example.com"}, req))
	require.True(t, CanView(Actor{Email: "admin@example.com", IsAdmin: true}, req))
	require.False(t, CanView(Actor{Email: "other@example.com"}, req))
}
