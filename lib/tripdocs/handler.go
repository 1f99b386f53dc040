package tripdocshandler

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hr-portal-backend/config"
	pdfexport "hr-portal-backend/lib/export/pdf"
	xlsexport "hr-portal-backend/lib/export/xls"
	filestorage "hr-portal-backend/lib/filestorage"
	dbmodels "hr-portal-backend/models/db"
)

// Provider maintains the per-trip document folder in object storage: a
// summary pdf and an expense spreadsheet, plus uploaded receipt scans.
type Provider interface {
	PrepareTripWorkspace(ctx context.Context, trip dbmodels.TripRequest) (folderURL, spreadsheetURL string, err error)
	RefreshExpenseSheet(ctx context.Context, trip dbmodels.TripRequest, justifications []dbmodels.TripJustification) error
	UploadReceipt(ctx context.Context, tripID string, submissionNumber int, fileName string, data []byte, contentType string) (key string, err error)
	ReceiptURL(ctx context.Context, key string) (string, error)
	GetDocument(ctx context.Context, tripID, docName string) ([]byte, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		storage:   filestorage.Instance,
		xls:       xlsexport.Instance,
		portalURL: config.Conf.Smtp.PortalURL,
	}
}

type impl struct {
	storage   filestorage.Provider
	xls       xlsexport.Provider
	portalURL string
}

const (
	expenseSheetName = "expense_report.xlsx"
	tripSummaryName  = "trip_summary.pdf"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

func docKey(tripID, name string) string {
	return fmt.Sprintf("trips/%s/docs/%s", tripID, name)
}

func receiptKey(tripID string, submissionNumber int, fileName string) string {
	return fmt.Sprintf("trips/%s/receipts/%d/%s", tripID, submissionNumber, path.Base(fileName))
}

// PrepareTripWorkspace runs once when a trip gets final approval. The
// returned URLs are stable portal links, the files behind them live in
// object storage.
func (i impl) PrepareTripWorkspace(ctx context.Context, trip dbmodels.TripRequest) (string, string, error) {
	logger := log.WithField("trip_id", trip.ID)

	pdfFile, err := pdfexport.GenerateTripSummary(trip)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate trip summary")
	}
	err = i.storage.Upload(ctx, docKey(trip.ID, tripSummaryName), bytes.NewReader(pdfFile), int64(len(pdfFile)), pdfContentType)
	if err != nil {
		return "", "", err
	}

	if err := i.RefreshExpenseSheet(ctx, trip, nil); err != nil {
		return "", "", err
	}

	folderURL := fmt.Sprintf("%s/api/v1/trips/%s/documents", i.portalURL, trip.ID)
	spreadsheetURL := fmt.Sprintf("%s/api/v1/trips/%s/documents/%s", i.portalURL, trip.ID, expenseSheetName)
	logger.Info("trip document workspace prepared")
	return folderURL, spreadsheetURL, nil
}

func (i impl) RefreshExpenseSheet(ctx context.Context, trip dbmodels.TripRequest, justifications []dbmodels.TripJustification) error {
	buf, err := i.xls.ExportTripExpenses(trip, justifications)
	if err != nil {
		return errors.Wrap(err, "failed to generate expense spreadsheet")
	}
	return i.storage.Upload(ctx, docKey(trip.ID, expenseSheetName), buf, int64(buf.Len()), xlsxContentType)
}

func (i impl) UploadReceipt(ctx context.Context, tripID string, submissionNumber int, fileName string, data []byte, contentType string) (string, error) {
	key := receiptKey(tripID, submissionNumber, fileName)
	err := i.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", err
	}
	return key, nil
}

func (i impl) ReceiptURL(ctx context.Context, key string) (string, error) {
	return i.storage.PresignedURL(ctx, key, 24*time.Hour)
}

func (i impl) GetDocument(ctx context.Context, tripID, docName string) ([]byte, error) {
	return i.storage.Download(ctx, docKey(tripID, path.Base(docName)))
}
