package pdfexport

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	dbmodels "hr-portal-backend/models/db"
)

// GenerateTripSummary renders the one-page trip summary placed in the trip
// folder on final approval.
func GenerateTripSummary(trip dbmodels.TripRequest) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateTripSummary panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Business trip: %s", trip.Destination)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Request %s", trip.ID)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeRow := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(55, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, tr(value), "", "L", false)
	}

	writeRow("Employee", trip.EmployeeEmail)
	writeRow("Manager", trip.ManagerEmail)
	writeRow("Dates", fmt.Sprintf("%s - %s", trip.StartDate.Format("2006-01-02"), trip.EndDate.Format("2006-01-02")))
	writeRow("Purpose", trip.Purpose)
	if trip.ExpectedGoal != "" {
		writeRow("Expected goal", trip.ExpectedGoal)
	}
	writeRow("Estimated budget", fmt.Sprintf("%.2f %s", trip.EstimatedBudget, trip.Currency))
	if trip.NeedsAdvanceFunding && trip.AdvanceAmount != nil {
		writeRow("Advance funding", fmt.Sprintf("%.2f %s", *trip.AdvanceAmount, trip.Currency))
	}
	pdf.Ln(4)

	if trip.ManagerApprovedBy != nil && trip.ManagerApprovedAt != nil {
		writeRow("Manager approval", fmt.Sprintf("%s on %s", *trip.ManagerApprovedBy, trip.ManagerApprovedAt.Format("2006-01-02")))
	}
	if trip.AdminApprovedBy != nil && trip.AdminApprovedAt != nil {
		writeRow("Final approval", fmt.Sprintf("%s on %s", *trip.AdminApprovedBy, trip.AdminApprovedAt.Format("2006-01-02")))
	}

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, errors.Wrap(err, "failed to render trip summary pdf")
	}
	return buf.Bytes(), nil
}
