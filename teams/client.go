// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package teams

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultGraphBaseURL is the Microsoft Graph v1.0 endpoint.
	DefaultGraphBaseURL = "https://graph.microsoft.com/v1.0"

	// graphScope requests all application permissions granted to the app
	// registration.
	graphScope = "https://graph.microsoft.com/.default"

	// DefaultDaysBack is the listing window when the caller does not pass one.
	DefaultDaysBack = 7

	requestTimeout = 30 * time.Second
)

var (
	// ErrCredentialsMissing indicates the tenant, client id or client secret
	// was not configured.
	ErrCredentialsMissing = errors.New("teams credentials not configured")

	// ErrNoRecording indicates a call record has no downloadable recording.
	ErrNoRecording = errors.New("call record has no recording")
)

// Config holds the Microsoft Graph application credentials. TokenURL and
// GraphBaseURL default to the Microsoft endpoints and exist so tests can point
// the client at a local server.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	DownloadDir  string

	TokenURL     string
	GraphBaseURL string
}

// Validate checks that the configuration carries a complete credential.
func (c *Config) Validate() error {
	if c.TenantID == "" || c.ClientID == "" || c.ClientSecret == "" {
		return ErrCredentialsMissing
	}
	return nil
}

func (c *Config) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token",
		c.TenantID)
}

func (c *Config) graphBaseURL() string {
	if c.GraphBaseURL != "" {
		return c.GraphBaseURL
	}
	return DefaultGraphBaseURL
}

// Recording describes a downloadable Teams call recording.
type Recording struct {
	CallID       string
	Name         string
	StartTime    time.Time
	EndTime      time.Time
	Participants []string
	DownloadURL  string
}

// Client lists and downloads Teams call recordings over the Microsoft Graph
// call-records API using an app-only (client credentials) grant. Token
// acquisition and refresh are handled by the oauth2 transport.
type Client struct {
	baseURL     string
	downloadDir string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a Graph client from the configuration. The returned
// client caches access tokens and refreshes them before expiry.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cc := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.tokenURL(),
		Scopes:       []string{graphScope},
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = requestTimeout

	return &Client{
		baseURL:     config.graphBaseURL(),
		downloadDir: config.DownloadDir,
		httpClient:  httpClient,
		logger:      slog.Default().With("component", "teams-client"),
	}, nil
}

// callRecord mirrors the subset of the Graph callRecord resource the client
// reads.
type callRecord struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	CallType      string    `json:"callType"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
	Participants  []struct {
		User struct {
			DisplayName string `json:"displayName"`
		} `json:"user"`
	} `json:"participants"`
}

type listResponse[T any] struct {
	Value []T `json:"value"`
}

// ListRecordings returns recordings of group and peer-to-peer calls started
// within the last daysBack days, newest first. Calls without recording
// segments are skipped.
func (c *Client) ListRecordings(ctx context.Context, daysBack int) ([]Recording, error) {
	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -daysBack)

	query := url.Values{}
	query.Set("$filter", fmt.Sprintf("startDateTime ge %s and startDateTime le %s",
		start.Format(time.RFC3339), end.Format(time.RFC3339)))
	query.Set("$orderby", "startDateTime desc")

	var records listResponse[callRecord]
	err := c.getJSON(ctx, "/communications/callRecords?"+query.Encode(), &records)
	if err != nil {
		return nil, fmt.Errorf("list call records: %w", err)
	}

	var recordings []Recording
	for _, record := range records.Value {
		if record.Type != "groupCall" {
			continue
		}
		if record.CallType != "group" && record.CallType != "peerToPeer" {
			continue
		}

		downloadURL, err := c.recordingURL(ctx, record.ID)
		if errors.Is(err, ErrNoRecording) {
			continue
		}
		if err != nil {
			c.logger.Warn("failed to resolve recording for call",
				"call_id", record.ID, "error", err)
			continue
		}

		participants := make([]string, 0, len(record.Participants))
		for _, p := range record.Participants {
			if p.User.DisplayName != "" {
				participants = append(participants, p.User.DisplayName)
			}
		}

		recordings = append(recordings, Recording{
			CallID:       record.ID,
			Name:         "Teams Call - " + record.StartDateTime.Format("2006-01-02 15:04"),
			StartTime:    record.StartDateTime,
			EndTime:      record.EndDateTime,
			Participants: participants,
			DownloadURL:  downloadURL,
		})
	}

	c.logger.Info("listed teams recordings",
		"days_back", daysBack, "count", len(recordings))
	return recordings, nil
}

// recordingURL walks the call's sessions and segments looking for recorded
// media and returns its content download URL.
func (c *Client) recordingURL(ctx context.Context, callID string) (string, error) {
	type session struct {
		ID string `json:"id"`
	}
	type segment struct {
		Media struct {
			Recording struct {
				ContentDownloadURL string `json:"contentDownloadUrl"`
			} `json:"recording"`
		} `json:"media"`
	}

	var sessions listResponse[session]
	path := fmt.Sprintf("/communications/callRecords/%s/sessions", callID)
	if err := c.getJSON(ctx, path, &sessions); err != nil {
		return "", err
	}

	for _, s := range sessions.Value {
		var segments listResponse[segment]
		segPath := fmt.Sprintf("%s/%s/segments", path, s.ID)
		if err := c.getJSON(ctx, segPath, &segments); err != nil {
			return "", err
		}
		for _, seg := range segments.Value {
			if u := seg.Media.Recording.ContentDownloadURL; u != "" {
				return u, nil
			}
		}
	}
	return "", ErrNoRecording
}

// DownloadRecording fetches the recording media into the download directory
// and returns the local file path.
func (c *Client) DownloadRecording(ctx context.Context, recording Recording) (string, error) {
	if recording.DownloadURL == "" {
		return "", ErrNoRecording
	}

	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	filename := fmt.Sprintf("teams_recording_%s.mp4",
		recording.StartTime.Format("20060102_150405"))
	path := filepath.Join(c.downloadDir, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		recording.DownloadURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download recording: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download recording: unexpected status %d",
			resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write recording: %w", err)
	}

	c.logger.Info("downloaded recording", "call_id", recording.CallID, "path", path)
	return path, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph request failed with status %d: %s",
			resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
