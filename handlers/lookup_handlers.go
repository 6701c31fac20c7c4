package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
	"github.com/S-Pillow/bulk-whois-rdap-lookup/pkg/lookup"
)

// keepAliveInterval is how often an idle SSE comment is written so
// intermediaries do not time out the connection during slow lookups.
const keepAliveInterval = 10 * time.Second

// LookupStreamer produces the event stream for a sanitized batch request.
type LookupStreamer interface {
	Stream(ctx context.Context, req models.LookupRequest) <-chan lookup.Event
}

// LookupHandlers serves the bulk WHOIS/RDAP lookup endpoint.
type LookupHandlers struct {
	svc LookupStreamer
}

func NewLookupHandlers(svc LookupStreamer) *LookupHandlers {
	return &LookupHandlers{svc: svc}
}

// WhoisLookupHandler godoc
// @Summary      Bulk WHOIS/RDAP domain lookup
// @Description  Streams one normalized result per domain as server-sent events. RDAP is tried first when use_rdap is set, with WHOIS as fallback.
// @Tags         WHOIS/RDAP
// @Accept       json
// @Produce      text/event-stream
// @Param        lookupRequest body models.LookupRequest true "Domains, requested fields and protocol preference"
// @Success      200 {string} string "SSE stream of total/message/result events"
// @Failure      400 {object} map[string]string "Error: Invalid request payload"
// @Router       /whois-lookup [post]
func (h *LookupHandlers) WhoisLookupHandler(c *gin.Context) {
	var req models.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	cleaned := req.Sanitize()
	zap.L().Info("whois-lookup request",
		zap.Int("domains", len(cleaned.Domains)),
		zap.Strings("fields", cleaned.Fields),
		zap.Bool("use_rdap", cleaned.UseRDAP))

	var events <-chan lookup.Event
	switch {
	case len(cleaned.Domains) == 0:
		events = lookup.ErrorStream("No valid domains provided.")
	case len(cleaned.Fields) == 0:
		events = lookup.ErrorStream("No valid fields requested.")
	default:
		events = h.svc.Stream(c.Request.Context(), cleaned)
	}

	streamEvents(c, events)
}

// WhoisLookupGetHandler exists only to point misdirected clients at the
// POST endpoint.
func (h *LookupHandlers) WhoisLookupGetHandler(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"error": "This endpoint only accepts POST requests with a JSON payload",
	})
}

// streamEvents forwards lookup events to the client as SSE, writing a
// keep-alive comment when the stream goes idle. A client disconnect
// cancels the request context, which stops the producer; that is an
// expected cancellation, not a failure.
func streamEvents(c *gin.Context, events <-chan lookup.Event) {
	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := sse.Encode(c.Writer, sse.Event{Event: ev.Name, Data: ev.Data}); err != nil {
				zap.L().Debug("sse write failed, client likely gone", zap.Error(err))
				return
			}
			c.Writer.Flush()
			ticker.Reset(keepAliveInterval)
		case <-ticker.C:
			io.WriteString(c.Writer, ": keep-alive\n\n") //nolint:errcheck
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}
