package models

type ApprovalStatus string

const (
	ApprovalStatusPending         ApprovalStatus = "pending"
	ApprovalStatusManagerApproved ApprovalStatus = "manager_approved"
	ApprovalStatusApproved        ApprovalStatus = "approved"
	ApprovalStatusRejected        ApprovalStatus = "rejected"
)

var approvalStatusHumanName = map[ApprovalStatus]string{
	ApprovalStatusPending:         "Pending manager approval",
	ApprovalStatusManagerApproved: "Pending admin approval",
	ApprovalStatusApproved:        "Approved",
	ApprovalStatusRejected:        "Rejected",
}

func (s ApprovalStatus) ToHuman() string {
	if human, exist := approvalStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsTerminal reports whether no further approval transition is permitted.
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

func (s ApprovalStatus) IsValid() bool {
	_, exist := approvalStatusHumanName[s]
	return exist
}

// RequestKind identifies which request collection a transition applies to.
type RequestKind string

const (
	RequestKindTimeOff RequestKind = "timeoff"
	RequestKindTrip    RequestKind = "trip"
	RequestKindAsset   RequestKind = "asset"
)

var requestKindHumanName = map[RequestKind]string{
	RequestKindTimeOff: "time-off",
	RequestKindTrip:    "business trip",
	RequestKindAsset:   "equipment",
}

func (k RequestKind) ToHuman() string {
	if human, exist := requestKindHumanName[k]; exist {
		return human
	}
	return string(k)
}

// SyncState tracks delivery of post-approval side effects (calendar event,
// trip documents, inventory entry). A failed side effect never reverts the
// approval, the state stays visible for retry instead.
type SyncState string

const (
	SyncStateNone    SyncState = ""
	SyncStatePending SyncState = "pending"
	SyncStateDone    SyncState = "done"
	SyncStateFailed  SyncState = "failed"
)
