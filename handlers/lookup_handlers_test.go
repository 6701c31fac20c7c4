package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
	"github.com/S-Pillow/bulk-whois-rdap-lookup/pkg/lookup"
)

// stubStreamer records the sanitized request it receives and plays back
// a canned event sequence.
type stubStreamer struct {
	got    models.LookupRequest
	events []lookup.Event
}

func (s *stubStreamer) Stream(ctx context.Context, req models.LookupRequest) <-chan lookup.Event {
	s.got = req
	out := make(chan lookup.Event, len(s.events))
	for _, ev := range s.events {
		out <- ev
	}
	close(out)
	return out
}

func newLookupRouter(streamer LookupStreamer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewLookupHandlers(streamer)
	r.POST("/api/whois-lookup", h.WhoisLookupHandler)
	r.GET("/api/whois-lookup", h.WhoisLookupGetHandler)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWhoisLookupRejectsInvalidPayload(t *testing.T) {
	r := newLookupRouter(&stubStreamer{})

	w := postJSON(t, r, "/api/whois-lookup", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request payload")
}

func TestWhoisLookupStreamsEvents(t *testing.T) {
	streamer := &stubStreamer{events: []lookup.Event{
		{Name: lookup.EventTotal, Data: map[string]any{"total": 1}},
		{Name: lookup.EventMessage, Data: map[string]any{"message": "Lookup started"}},
		{Name: lookup.EventResult, Data: map[string]any{"domain": "example.com", "registrar": "Reg A"}},
	}}
	r := newLookupRouter(streamer)

	w := postJSON(t, r, "/api/whois-lookup",
		`{"domains":["example.com"],"fields":["domain","registrar"],"use_rdap":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))

	body := w.Body.String()
	assert.Contains(t, body, "event:total")
	assert.Contains(t, body, `"total":1`)
	assert.Contains(t, body, "event:result")
	assert.Contains(t, body, `"registrar":"Reg A"`)
}

func TestWhoisLookupSanitizesBeforeStreaming(t *testing.T) {
	streamer := &stubStreamer{events: []lookup.Event{
		{Name: lookup.EventTotal, Data: map[string]any{"total": 1}},
	}}
	r := newLookupRouter(streamer)

	w := postJSON(t, r, "/api/whois-lookup",
		`{"domains":[" Example.com ","example.com",""],"fields":["domain","bogus","registrar"],"use_rdap":true}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Example.com"}, streamer.got.Domains)
	assert.Equal(t, []string{"domain", "registrar"}, streamer.got.Fields)
	assert.True(t, streamer.got.UseRDAP)
}

func TestWhoisLookupEmptyDomainsShortCircuits(t *testing.T) {
	streamer := &stubStreamer{}
	r := newLookupRouter(streamer)

	w := postJSON(t, r, "/api/whois-lookup",
		`{"domains":["  ",""],"fields":["domain"],"use_rdap":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "event:total")
	assert.Contains(t, body, `"total":0`)
	assert.Contains(t, body, "event:error")
	assert.Contains(t, body, "No valid domains provided.")
	assert.NotContains(t, body, "event:result")
	// The streamer is never consulted.
	assert.Empty(t, streamer.got.Domains)
}

func TestWhoisLookupNoValidFieldsShortCircuits(t *testing.T) {
	r := newLookupRouter(&stubStreamer{})

	w := postJSON(t, r, "/api/whois-lookup",
		`{"domains":["example.com"],"fields":["bogus"],"use_rdap":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No valid fields requested.")
}

func TestWhoisLookupGetHintsAtPost(t *testing.T) {
	r := newLookupRouter(&stubStreamer{})

	req := httptest.NewRequest(http.MethodGet, "/api/whois-lookup", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "POST")
}
