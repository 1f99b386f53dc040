package xlsexport

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	dbmodels "hr-portal-backend/models/db"
)

type Provider interface {
	ExportTripExpenses(trip dbmodels.TripRequest, justifications []dbmodels.TripJustification) (*bytes.Buffer, error)
	ExportTimeOffList(list []dbmodels.TimeOffRequest) (*bytes.Buffer, error)
	ExportAssetList(list []dbmodels.EmployeeAsset) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var expenseHeaders = []string{"Submission", "Status", "Claimed", "Approved", "Receipts", "Notes", "Admin feedback"}

// ExportTripExpenses builds the expense tracking spreadsheet placed in the
// trip folder on final approval and refreshed on every justification
// review.
func (i impl) ExportTripExpenses(trip dbmodels.TripRequest, justifications []dbmodels.TripJustification) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	row := 1
	summary := [][2]interface{}{
		{"Destination", trip.Destination},
		{"Employee", trip.EmployeeEmail},
		{"Dates", fmt.Sprintf("%s - %s", trip.StartDate.Format("2006-01-02"), trip.EndDate.Format("2006-01-02"))},
		{"Estimated budget", fmt.Sprintf("%.2f %s", trip.EstimatedBudget, trip.Currency)},
	}
	if trip.NeedsAdvanceFunding && trip.AdvanceAmount != nil {
		summary = append(summary, [2]interface{}{"Advance", fmt.Sprintf("%.2f %s", *trip.AdvanceAmount, trip.Currency)})
	}
	for _, pair := range summary {
		if err := setCell(f, sheet, 1, row, pair[0]); err != nil {
			return nil, errors.Wrap(err, "failed to write trip summary in xlsx")
		}
		if err := setCell(f, sheet, 2, row, pair[1]); err != nil {
			return nil, errors.Wrap(err, "failed to write trip summary in xlsx")
		}
		row++
	}
	row, err := writeHeaderRow(f, sheet, row, expenseHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write header in xlsx")
	}
	if len(justifications) != 0 {
		row, err = writeExpenseData(f, sheet, justifications, row)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write expense rows in xlsx")
		}
	}
	f.SetSheetName(sheet, "Expenses")
	return f.WriteToBuffer()
}

func writeExpenseData(f *excelize.File, sheet string, list []dbmodels.TripJustification, row int) (int, error) {
	if err := styleDataRange(f, sheet, 1, row+1, len(expenseHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		col := 1
		if err := setCell(f, sheet, col, row, item.SubmissionNumber); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.Status.ToHuman()); err != nil {
			return row, err
		}

		col++
		if item.TotalClaimed != nil {
			if err := setCell(f, sheet, col, row, *item.TotalClaimed); err != nil {
				return row, err
			}
		}

		col++
		if item.TotalApproved != nil {
			if err := setCell(f, sheet, col, row, *item.TotalApproved); err != nil {
				return row, err
			}
		}

		col++
		if err := setCell(f, sheet, col, row, len(item.ReceiptKeys)); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.Notes); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.AdminFeedback); err != nil {
			return row, err
		}
	}
	return row, nil
}

var timeOffHeaders = []string{"Employee", "Type", "Status", "Start", "End", "Working days", "Region", "Notes"}

// ExportTimeOffList is the admin download of the full time-off register.
func (i impl) ExportTimeOffList(list []dbmodels.TimeOffRequest) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeaderRow(f, sheet, row, timeOffHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write header in xlsx")
	}
	if len(list) != 0 {
		row, err = writeTimeOffData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write time-off rows in xlsx")
		}
	}
	f.SetSheetName(sheet, "Time off")
	return f.WriteToBuffer()
}

func writeTimeOffData(f *excelize.File, sheet string, list []dbmodels.TimeOffRequest, row int) (int, error) {
	if err := styleDataRange(f, sheet, 1, row+1, len(timeOffHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		col := 1
		if err := setCell(f, sheet, col, row, item.EmployeeEmail); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.TimeOffType.ToHuman()); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.Status.ToHuman()); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.StartDate.Format("2006-01-02")); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.EndDate.Format("2006-01-02")); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.WorkingDaysCount); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.HolidayRegion); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.Notes); err != nil {
			return row, err
		}
	}
	return row, nil
}

var assetHeaders = []string{"Holder", "Category", "Description", "Serial", "Status", "Assigned", "Cost", "Currency", "Returned"}

// ExportAssetList is the admin download of the asset inventory.
func (i impl) ExportAssetList(list []dbmodels.EmployeeAsset) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeaderRow(f, sheet, row, assetHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write header in xlsx")
	}
	if len(list) != 0 {
		row, err = writeAssetData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write asset rows in xlsx")
		}
	}
	f.SetSheetName(sheet, "Inventory")
	return f.WriteToBuffer()
}

func writeAssetData(f *excelize.File, sheet string, list []dbmodels.EmployeeAsset, row int) (int, error) {
	if err := styleDataRange(f, sheet, 1, row+1, len(assetHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		col := 1
		if err := setCell(f, sheet, col, row, item.EmployeeEmail); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.Category.ToHuman()); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.Description); err != nil {
			return row, err
		}

		col++
		if item.SerialNumber != nil {
			if err := setCell(f, sheet, col, row, *item.SerialNumber); err != nil {
				return row, err
			}
		}

		col++
		if err := setCell(f, sheet, col, row, item.Status.ToHuman()); err != nil {
			return row, err
		}

		col++
		if err := setCell(f, sheet, col, row, item.AssignedDate.Format("2006-01-02")); err != nil {
			return row, err
		}

		col++
		if item.Cost != nil {
			if err := setCell(f, sheet, col, row, *item.Cost); err != nil {
				return row, err
			}
		}

		col++
		if err := setCell(f, sheet, col, row, string(item.Currency)); err != nil {
			return row, err
		}

		col++
		if item.ReturnDate != nil {
			if err := setCell(f, sheet, col, row, item.ReturnDate.Format("2006-01-02")); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
