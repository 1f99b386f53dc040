package models

// TripStatus extends the shared approval lifecycle with the post-approval
// phase of a business trip: the trip itself and the expense justification
// review cycle.
type TripStatus string

const (
	TripStatusPending                TripStatus = TripStatus(ApprovalStatusPending)
	TripStatusManagerApproved        TripStatus = TripStatus(ApprovalStatusManagerApproved)
	TripStatusApproved               TripStatus = TripStatus(ApprovalStatusApproved)
	TripStatusRejected               TripStatus = TripStatus(ApprovalStatusRejected)
	TripStatusInProgress             TripStatus = "in_progress"
	TripStatusJustificationSubmitted TripStatus = "justification_submitted"
	TripStatusJustificationRejected  TripStatus = "justification_rejected"
	TripStatusCompleted              TripStatus = "completed"
)

var tripStatusHumanName = map[TripStatus]string{
	TripStatusPending:                "Pending manager approval",
	TripStatusManagerApproved:        "Pending admin approval",
	TripStatusApproved:               "Approved",
	TripStatusRejected:               "Rejected",
	TripStatusInProgress:             "Trip in progress",
	TripStatusJustificationSubmitted: "Expenses submitted for review",
	TripStatusJustificationRejected:  "Expenses returned for correction",
	TripStatusCompleted:              "Completed",
}

func (s TripStatus) ToHuman() string {
	if human, exist := tripStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// ApprovalPhase maps the trip status onto the shared approval automaton.
// Every post-approval status reports as approved, so a second admin
// approval attempt fails the same way it does for the other request kinds.
func (s TripStatus) ApprovalPhase() ApprovalStatus {
	switch s {
	case TripStatusPending, TripStatusManagerApproved, TripStatusApproved, TripStatusRejected:
		return ApprovalStatus(s)
	default:
		return ApprovalStatusApproved
	}
}

type JustificationStatus string

const (
	JustificationStatusPendingReview JustificationStatus = "pending_review"
	JustificationStatusApproved      JustificationStatus = "approved"
	JustificationStatusRejected      JustificationStatus = "rejected"
)

var justificationStatusHumanName = map[JustificationStatus]string{
	JustificationStatusPendingReview: "Pending review",
	JustificationStatusApproved:      "Approved",
	JustificationStatusRejected:      "Rejected",
}

func (s JustificationStatus) ToHuman() string {
	if human, exist := justificationStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

type Currency string

const (
	CurrencyMXN Currency = "MXN"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyCOP Currency = "COP"
	CurrencyCLP Currency = "CLP"
)

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyMXN, CurrencyUSD, CurrencyEUR, CurrencyCOP, CurrencyCLP:
		return true
	}
	return false
}
