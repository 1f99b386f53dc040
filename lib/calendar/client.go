package calendarclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider talks to the shared team-absence calendar. Event creation runs
// as a post-approval side effect: failures are recorded on the request,
// never propagated back into the approval.
type Provider interface {
	CreateAbsenceEvent(ctx context.Context, event AbsenceEvent) (eventID string, err error)
	DeleteEvent(ctx context.Context, eventID string) error
}

var Instance Provider

type AbsenceEvent struct {
	EmployeeEmail string    `json:"employee_email"`
	Title         string    `json:"title"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	AllDay        bool      `json:"all_day"`
}

func NewProvider(baseURL, apiToken, calendarID string) {
	Instance = &impl{
		baseURL:    baseURL,
		apiToken:   apiToken,
		calendarID: calendarID,
	}
}

type impl struct {
	baseURL    string
	apiToken   string
	calendarID string
}

const (
	eventsPath = "/calendars/%v/events"
	eventPath  = "/calendars/%v/events/%v"
)

type eventResponse struct {
	ID string `json:"id"`
}

func (i impl) CreateAbsenceEvent(ctx context.Context, event AbsenceEvent) (string, error) {
	if i.baseURL == "" {
		log.Debug("calendar client is not configured, event skipped")
		return "", nil
	}
	event.AllDay = true
	body, err := json.Marshal(event)
	if err != nil {
		return "", errors.Wrap(err, "failed to serialize calendar event")
	}
	uri := i.baseURL + fmt.Sprintf(eventsPath, i.calendarID)
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to build calendar request")
	}
	r.Header.Add("Content-Type", "application/json")

	logger := log.
		WithField("external_request", uri).
		WithField("employee", event.EmployeeEmail)
	resp := eventResponse{}
	if err := i.sendRequest(logger, r, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (i impl) DeleteEvent(ctx context.Context, eventID string) error {
	if i.baseURL == "" || eventID == "" {
		return nil
	}
	uri := i.baseURL + fmt.Sprintf(eventPath, i.calendarID, eventID)
	r, err := http.NewRequestWithContext(ctx, http.MethodDelete, uri, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build calendar request")
	}
	logger := log.WithField("external_request", uri)
	return i.sendRequest(logger, r, nil)
}

func (i impl) sendRequest(logger *log.Entry, r *http.Request, resp interface{}) error {
	r.Header.Add("Authorization", fmt.Sprintf("Bearer %v", i.apiToken))
	client := &http.Client{Timeout: 15 * time.Second}
	response, err := client.Do(r)
	if err != nil {
		logger.WithError(err).Error("calendar request failed")
		return errors.Wrap(err, "calendar request failed")
	}
	defer response.Body.Close()
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if resp != nil {
			responseBody, _ := io.ReadAll(response.Body)
			if err = json.Unmarshal(responseBody, resp); err != nil {
				return errors.Wrap(err, "failed to decode calendar response")
			}
		}
		return nil
	}
	responseBody, _ := io.ReadAll(response.Body)
	logger.
		WithField("status_code", response.StatusCode).
		WithField("response_body", string(responseBody)).
		Error("calendar request rejected")
	return errors.Errorf("calendar request rejected with status %v", response.StatusCode)
}
