package workspaceclient

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

	"hr-portal-backend/apperrors"
)

// Provider talks to the workspace directory: user listing for sync and the
// out-of-office autoresponder toggled alongside approved vacations.
type Provider interface {
	ListUsers(ctx context.Context) ([]DirectoryUser, error)
	Authenticate(ctx context.Context, email, password string) error
	SetAutoresponder(ctx context.Context, email string, settings AutoresponderSettings) error
}

var Instance Provider

type DirectoryUser struct {
	ID         string `json:"id"`
	Email      string `json:"primaryEmail"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
	FullName   string `json:"fullName"`
	PhotoURL   string `json:"thumbnailPhotoUrl"`
	Department string `json:"department"`
	JobTitle   string `json:"title"`
	Location   string `json:"location"`
	Suspended  bool   `json:"suspended"`
}

type AutoresponderSettings struct {
	Enabled   bool      `json:"enabled"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func NewProvider(baseURL, apiToken, domain string) {
	Instance = &impl{
		baseURL:  baseURL,
		apiToken: apiToken,
		domain:   domain,
	}
}

type impl struct {
	baseURL  string
	apiToken string
	domain   string
}

const (
	usersPath         = "/directory/users?domain=%v&pageToken=%v"
	verifyPath        = "/auth/verify"
	autoresponderPath = "/gmail/users/%v/vacation"
)

type usersResponse struct {
	Users         []DirectoryUser `json:"users"`
	NextPageToken string          `json:"nextPageToken"`
}

func (i impl) ListUsers(ctx context.Context) ([]DirectoryUser, error) {
	if i.baseURL == "" {
		return nil, errors.New("workspace client is not configured")
	}
	result := []DirectoryUser{}
	pageToken := ""
	for {
		uri := i.baseURL + fmt.Sprintf(usersPath, i.domain, pageToken)
		r, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build directory request")
		}
		logger := log.WithField("external_request", uri)
		resp := usersResponse{}
		if err := i.sendRequest(logger, r, &resp); err != nil {
			return nil, err
		}
		result = append(result, resp.Users...)
		if resp.NextPageToken == "" {
			return result, nil
		}
		pageToken = resp.NextPageToken
	}
}

// Authenticate asks the directory to verify the password. The portal
// never stores credentials itself.
func (i impl) Authenticate(ctx context.Context, email, password string) error {
	if i.baseURL == "" {
		return errors.New("workspace client is not configured")
	}
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return errors.Wrap(err, "failed to serialize credentials")
	}
	uri := i.baseURL + verifyPath
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build verify request")
	}
	r.Header.Add("Content-Type", "application/json")
	r.Header.Add("Authorization", fmt.Sprintf("Bearer %v", i.apiToken))
	client := &http.Client{Timeout: 30 * time.Second}
	response, err := client.Do(r)
	if err != nil {
		return errors.Wrap(err, "workspace request failed")
	}
	defer response.Body.Close()
	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		return nil
	case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
		return apperrors.PermissionDenied("invalid credentials")
	default:
		return errors.Errorf("workspace request rejected with status %v", response.StatusCode)
	}
}

func (i impl) SetAutoresponder(ctx context.Context, email string, settings AutoresponderSettings) error {
	if i.baseURL == "" {
		log.Debug("workspace client is not configured, autoresponder skipped")
		return nil
	}
	body, err := json.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "failed to serialize autoresponder settings")
	}
	uri := i.baseURL + fmt.Sprintf(autoresponderPath, email)
	r, err := http.NewRequestWithContext(ctx, http.MethodPut, uri, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build autoresponder request")
	}
	r.Header.Add("Content-Type", "application/json")
	logger := log.
		WithField("external_request", uri).
		WithField("employee", email)
	return i.sendRequest(logger, r, nil)
}

func (i impl) sendRequest(logger *log.Entry, r *http.Request, resp interface{}) error {
	r.Header.Add("Authorization", fmt.Sprintf("Bearer %v", i.apiToken))
	client := &http.Client{Timeout: 30 * time.Second}
	response, err := client.Do(r)
	if err != nil {
		logger.WithError(err).Error("workspace request failed")
		return errors.Wrap(err, "workspace request failed")
	}
	defer response.Body.Close()
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if resp != nil {
			responseBody, _ := io.ReadAll(response.Body)
			if err = json.Unmarshal(responseBody, resp); err != nil {
				return errors.Wrap(err, "failed to decode workspace response")
			}
		}
		return nil
	}
	responseBody, _ := io.ReadAll(response.Body)
	logger.
		WithField("status_code", response.StatusCode).
		WithField("response_body", string(responseBody)).
		Error("workspace request rejected")
	return errors.Errorf("workspace request rejected with status %v", response.StatusCode)
}
