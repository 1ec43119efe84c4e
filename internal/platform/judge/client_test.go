package judge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantVerdict string
		wantErr     bool
		wantDetails any
		wantOutcome string
	}{
		{
			name:        "accepted",
			status:      http.StatusCreated,
			body:        `{"stdout":"3\n","time":"0.01","status":{"id":3,"description":"Accepted"}}`,
			wantVerdict: "Accepted",
			wantOutcome: "ok",
		},
		{
			name:        "wrong answer is still a verdict",
			status:      http.StatusOK,
			body:        `{"status":{"id":4,"description":"Wrong Answer"}}`,
			wantVerdict: "Wrong Answer",
			wantOutcome: "ok",
		},
		{
			name:        "missing status",
			status:      http.StatusOK,
			body:        `{"stdout":null}`,
			wantVerdict: "",
			wantOutcome: "ok",
		},
		{
			name:        "error status keeps json details",
			status:      http.StatusUnprocessableEntity,
			body:        `{"language_id":["language with id 999 doesn't exist"]}`,
			wantErr:     true,
			wantDetails: map[string]any{"language_id": []any{"language with id 999 doesn't exist"}},
			wantOutcome: "bad_status",
		},
		{
			name:        "error status with text body",
			status:      http.StatusBadGateway,
			body:        "upstream unavailable",
			wantErr:     true,
			wantDetails: "upstream unavailable",
			wantOutcome: "bad_status",
		},
		{
			name:        "malformed success body",
			status:      http.StatusOK,
			body:        `<html>`,
			wantErr:     true,
			wantDetails: "<html>",
			wantOutcome: "bad_body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Request
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/submissions/", r.URL.Path)
				assert.Equal(t, "false", r.URL.Query().Get("base64_encoded"))
				assert.Equal(t, "true", r.URL.Query().Get("wait"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "key-123", r.Header.Get("X-RapidAPI-Key"))
				assert.Equal(t, "judge.example.com", r.Header.Get("X-RapidAPI-Host"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			m := metrics.New()
			client := NewClient(Options{
				BaseURL: srv.URL + "/",
				APIKey:  "key-123",
				APIHost: "judge.example.com",
				Timeout: 5 * time.Second,
			}, m)

			res, err := client.Execute(context.Background(), Request{
				SourceCode:     "print(1+2)",
				LanguageID:     71,
				Stdin:          "1 2",
				ExpectedOutput: "3",
			})

			assert.Equal(t, Request{SourceCode: "print(1+2)", LanguageID: 71, Stdin: "1 2", ExpectedOutput: "3"}, got)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.JudgeRequests.WithLabelValues(tt.wantOutcome)))

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrUpstream))
				var upErr *common.UpstreamError
				require.ErrorAs(t, err, &upErr)
				assert.Equal(t, tt.wantDetails, upErr.Details)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVerdict, res.Description())
			assert.JSONEq(t, tt.body, string(res.Raw))
		})
	}
}

func TestExecuteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	m := metrics.New()
	_, err := NewClient(Options{BaseURL: url, Timeout: time.Second}, m).Execute(context.Background(), Request{LanguageID: 54})

	var upErr *common.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.NotEmpty(t, upErr.Details)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JudgeRequests.WithLabelValues("transport_error")))
}

func TestExecuteHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(Options{BaseURL: srv.URL}, nil).Execute(ctx, Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResultDescriptionNil(t *testing.T) {
	var r *Result
	assert.Equal(t, "", r.Description())
}
