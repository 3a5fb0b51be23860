package teams

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostFormValue("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "graph-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, graphURL string) *Client {
	t.Helper()
	client, err := NewClient(&Config{
		TenantID:     "tenant",
		ClientID:     "client",
		ClientSecret: "secret",
		DownloadDir:  t.TempDir(),
		TokenURL:     newTokenServer(t).URL,
		GraphBaseURL: graphURL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(&Config{TenantID: "tenant"})
	require.ErrorIs(t, err, ErrCredentialsMissing)
}

func TestListRecordingsFiltersAndResolves(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/communications/callRecords", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("$filter"), "startDateTime ge ")
		assert.Equal(t, "startDateTime desc", r.URL.Query().Get("$orderby"))

		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{
				{
					"id":            "call-1",
					"type":          "groupCall",
					"callType":      "group",
					"startDateTime": "2026-08-28T14:30:00Z",
					"endDateTime":   "2026-08-28T15:00:00Z",
					"participants": []map[string]any{
						{"user": map[string]any{"displayName": "Ada"}},
						{"user": map[string]any{"displayName": "Grace"}},
					},
				},
				{
					"id":            "call-2",
					"type":          "unknownFutureValue",
					"callType":      "group",
					"startDateTime": "2026-08-27T09:00:00Z",
				},
			},
		})
	})
	mux.HandleFunc("/communications/callRecords/call-1/sessions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{{"id": "session-1"}},
		})
	})
	mux.HandleFunc("/communications/callRecords/call-1/sessions/session-1/segments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{
				{"media": map[string]any{"recording": map[string]any{
					"contentDownloadUrl": "https://example.com/rec.mp4",
				}}},
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	recordings, err := client.ListRecordings(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, recordings, 1)

	rec := recordings[0]
	assert.Equal(t, "call-1", rec.CallID)
	assert.Equal(t, "Teams Call - 2026-08-28 14:30", rec.Name)
	assert.Equal(t, []string{"Ada", "Grace"}, rec.Participants)
	assert.Equal(t, "https://example.com/rec.mp4", rec.DownloadURL)
}

func TestListRecordingsSkipsCallsWithoutRecording(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/communications/callRecords", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{{
				"id":            "call-3",
				"type":          "groupCall",
				"callType":      "peerToPeer",
				"startDateTime": "2026-08-28T10:00:00Z",
			}},
		})
	})
	mux.HandleFunc("/communications/callRecords/call-3/sessions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"value": []map[string]any{}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	recordings, err := client.ListRecordings(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, recordings)
}

func TestDownloadRecordingWritesFile(t *testing.T) {
	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp4-bytes"))
	}))
	defer media.Close()

	client := newTestClient(t, media.URL)
	recording := Recording{
		CallID:      "call-1",
		StartTime:   mustParseTime(t, "2026-08-28T14:30:00Z"),
		DownloadURL: media.URL + "/rec.mp4",
	}

	path, err := client.DownloadRecording(context.Background(), recording)
	require.NoError(t, err)
	assert.Equal(t, "teams_recording_20260828_143000.mp4", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp4-bytes", string(data))
}

func TestDownloadRecordingWithoutURL(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid")
	_, err := client.DownloadRecording(context.Background(), Recording{CallID: "x"})
	require.ErrorIs(t, err, ErrNoRecording)
}
