package lookup

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
)

// Event names emitted on the lookup stream.
const (
	EventTotal   = "total"
	EventMessage = "message"
	EventResult  = "result"
	EventError   = "error"
)

// Placeholder field values for degraded results.
const (
	rateLimitedValue  = "Rate limit reached"
	lookupFailedValue = "Lookup failed"
)

// Event is one unit of the lookup stream; Data is marshaled to JSON by
// the transport layer.
type Event struct {
	Name string
	Data any
}

// Stream processes the sanitized request and emits events on the
// returned channel: a total, a start message, then exactly one result
// per domain in input order. The channel is closed when the batch
// completes or ctx is cancelled (client disconnect); cancellation stops
// processing without emitting anything further.
//
// Domains are processed strictly sequentially, so the batch-wide
// rate-limit flag needs no locking. Once a lookup reports a rate limit,
// every remaining domain short-circuits to a placeholder result without
// any network call.
func (s *Service) Stream(ctx context.Context, req models.LookupRequest) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)

		// One limiter per batch; other in-flight batches keep their own
		// pace.
		pace := rate.NewLimiter(rate.Every(s.paceInterval), 1)

		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		zap.L().Info("lookup batch started",
			zap.Int("domains", len(req.Domains)),
			zap.Strings("fields", req.Fields),
			zap.Bool("use_rdap", req.UseRDAP))

		if !emit(Event{EventTotal, map[string]any{"total": len(req.Domains)}}) {
			return
		}
		if !emit(Event{EventMessage, map[string]any{"message": "Lookup started"}}) {
			return
		}

		rateLimited := false
		for _, domain := range req.Domains {
			result := make(map[string]any, len(req.Fields)+2)
			result["domain"] = domain

			if rateLimited {
				fillFields(result, req.Fields, rateLimitedValue)
				result["error_message"] = "Rate limit reached, further lookups stopped."
				if !emit(Event{EventResult, result}) {
					return
				}
				continue
			}

			rec, err := s.lookupDomain(ctx, domain, req.UseRDAP)
			switch {
			case err == nil:
				for _, field := range req.Fields {
					result[field] = rec.Field(field)
				}
				result["domain"] = domain
				result["_method"] = rec.Method
			case IsRateLimited(err):
				rateLimited = true
				fillFields(result, req.Fields, rateLimitedValue)
				result["error_message"] = "Rate limit reached. Subsequent lookups for other domains will also be marked as rate-limited."
				zap.L().Warn("rate limit reached, short-circuiting remaining domains",
					zap.String("domain", domain))
			default:
				if ctx.Err() != nil {
					return
				}
				fillFields(result, req.Fields, lookupFailedValue)
				result["error_message"] = "Failed: " + err.Error()
				zap.L().Info("lookup failed", zap.String("domain", domain), zap.Error(err))
			}

			if !emit(Event{EventResult, result}) {
				return
			}
			// Pace between domains to avoid hammering remote services.
			if err := pace.Wait(ctx); err != nil {
				return
			}
		}
	}()
	return events
}

// ErrorStream returns the short-circuit stream used when validation
// leaves nothing to process: a zero total followed by an error event.
func ErrorStream(message string) <-chan Event {
	events := make(chan Event, 2)
	events <- Event{EventTotal, map[string]any{"total": 0}}
	events <- Event{EventError, map[string]any{"message": message}}
	close(events)
	return events
}

// fillFields sets every requested field except domain to a placeholder.
func fillFields(result map[string]any, fields []string, value string) {
	for _, field := range fields {
		if field != "domain" {
			result[field] = value
		}
	}
}
