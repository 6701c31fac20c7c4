package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
)

// fakeResolver scripts per-domain outcomes and counts calls.
type fakeResolver struct {
	records map[string]*models.DomainRecord
	errs    map[string]error
	calls   []string
}

func (f *fakeResolver) Lookup(ctx context.Context, domain string) (*models.DomainRecord, error) {
	f.calls = append(f.calls, domain)
	if err, ok := f.errs[domain]; ok {
		return nil, err
	}
	if rec, ok := f.records[domain]; ok {
		cp := *rec
		return &cp, nil
	}
	return models.NewDomainRecord(domain), nil
}

func testService(rdap, whois *fakeResolver) *Service {
	return NewService(
		WithRDAPResolver(rdap),
		WithWhoisResolver(whois),
		WithPacing(0),
	)
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func resultData(t *testing.T, ev Event) map[string]any {
	t.Helper()
	require.Equal(t, EventResult, ev.Name)
	data, ok := ev.Data.(map[string]any)
	require.True(t, ok)
	return data
}

func TestStreamEmitsTotalMessageAndResultsInOrder(t *testing.T) {
	rdap := &fakeResolver{records: map[string]*models.DomainRecord{
		"a.com": {Domain: "a.com", Registrar: "Reg A"},
		"b.com": {Domain: "b.com", Registrar: "Reg B"},
	}}
	svc := testService(rdap, &fakeResolver{})

	req := models.LookupRequest{
		Domains: []string{"a.com", "b.com"},
		Fields:  []string{"domain", "registrar"},
		UseRDAP: true,
	}
	events := collect(t, svc.Stream(context.Background(), req))

	require.Len(t, events, 4)
	assert.Equal(t, EventTotal, events[0].Name)
	assert.Equal(t, map[string]any{"total": 2}, events[0].Data)
	assert.Equal(t, EventMessage, events[1].Name)

	first := resultData(t, events[2])
	assert.Equal(t, "a.com", first["domain"])
	assert.Equal(t, "Reg A", first["registrar"])
	assert.Equal(t, MethodRDAP, first["_method"])

	second := resultData(t, events[3])
	assert.Equal(t, "b.com", second["domain"])
}

func TestStreamWhoisOnlyMode(t *testing.T) {
	rdap := &fakeResolver{}
	whois := &fakeResolver{records: map[string]*models.DomainRecord{
		"a.com": {Domain: "a.com", Registrar: "Reg W"},
	}}
	svc := testService(rdap, whois)

	req := models.LookupRequest{
		Domains: []string{"a.com"},
		Fields:  []string{"domain", "registrar"},
		UseRDAP: false,
	}
	events := collect(t, svc.Stream(context.Background(), req))

	require.Len(t, events, 3)
	data := resultData(t, events[2])
	assert.Equal(t, MethodWhois, data["_method"])
	assert.Empty(t, rdap.calls)
	assert.Equal(t, []string{"a.com"}, whois.calls)
}

func TestStreamFallsBackToWhoisOnRDAPFailure(t *testing.T) {
	rdap := &fakeResolver{errs: map[string]error{
		"a.com": &LookupError{Domain: "a.com", Proto: "RDAP", Err: ErrNotFound},
	}}
	whois := &fakeResolver{records: map[string]*models.DomainRecord{
		"a.com": {Domain: "a.com", Registrar: "Reg W"},
	}}
	svc := testService(rdap, whois)

	req := models.LookupRequest{
		Domains: []string{"a.com"},
		Fields:  []string{"domain", "registrar"},
		UseRDAP: true,
	}
	events := collect(t, svc.Stream(context.Background(), req))

	require.Len(t, events, 3)
	data := resultData(t, events[2])
	assert.Equal(t, "Reg W", data["registrar"])
	assert.Equal(t, MethodWhoisFallback, data["_method"])
}

func TestStreamRateLimitShortCircuitsRemainingDomains(t *testing.T) {
	rdap := &fakeResolver{
		records: map[string]*models.DomainRecord{
			"a.com": {Domain: "a.com", Registrar: "Reg A"},
		},
		errs: map[string]error{
			"b.com": &LookupError{Domain: "b.com", Proto: "RDAP", Err: ErrRateLimited},
		},
	}
	whois := &fakeResolver{}
	svc := testService(rdap, whois)

	req := models.LookupRequest{
		Domains: []string{"a.com", "b.com", "c.com", "d.com"},
		Fields:  []string{"domain", "registrar"},
		UseRDAP: true,
	}
	events := collect(t, svc.Stream(context.Background(), req))

	require.Len(t, events, 6)

	tripped := resultData(t, events[3])
	assert.Equal(t, "b.com", tripped["domain"])
	assert.Equal(t, "Rate limit reached", tripped["registrar"])
	assert.Equal(t,
		"Rate limit reached. Subsequent lookups for other domains will also be marked as rate-limited.",
		tripped["error_message"])

	for i, domain := range []string{"c.com", "d.com"} {
		data := resultData(t, events[4+i])
		assert.Equal(t, domain, data["domain"])
		assert.Equal(t, "Rate limit reached", data["registrar"])
		assert.Equal(t, "Rate limit reached, further lookups stopped.", data["error_message"])
	}

	// No resolver is consulted after the breaker trips, and a rate
	// limit never falls back to WHOIS.
	assert.Equal(t, []string{"a.com", "b.com"}, rdap.calls)
	assert.Empty(t, whois.calls)
}

func TestStreamLookupFailureYieldsPlaceholderResult(t *testing.T) {
	whois := &fakeResolver{errs: map[string]error{
		"a.com": &LookupError{Domain: "a.com", Proto: "WHOIS", Err: errors.New("connection refused")},
	}}
	svc := testService(&fakeResolver{}, whois)

	req := models.LookupRequest{
		Domains: []string{"a.com", "b.com"},
		Fields:  []string{"domain", "registrar", "statuses"},
		UseRDAP: false,
	}
	events := collect(t, svc.Stream(context.Background(), req))

	require.Len(t, events, 4)
	failed := resultData(t, events[2])
	assert.Equal(t, "a.com", failed["domain"])
	assert.Equal(t, "Lookup failed", failed["registrar"])
	assert.Equal(t, "Lookup failed", failed["statuses"])
	assert.Contains(t, failed["error_message"], "connection refused")
	assert.NotContains(t, failed, "_method")

	// The batch continues past an isolated failure.
	ok := resultData(t, events[3])
	assert.Equal(t, "b.com", ok["domain"])
	assert.Equal(t, MethodWhois, ok["_method"])
}

func TestStreamStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := testService(&fakeResolver{}, &fakeResolver{})

	req := models.LookupRequest{
		Domains: []string{"a.com", "b.com", "c.com"},
		Fields:  []string{"domain"},
		UseRDAP: true,
	}
	events := svc.Stream(ctx, req)

	ev, open := <-events
	require.True(t, open)
	assert.Equal(t, EventTotal, ev.Name)

	cancel()
	for range events {
	}
	// Channel closed without deadlock after cancellation.
}

func TestStreamPacingIsPerBatch(t *testing.T) {
	rdap := &fakeResolver{records: map[string]*models.DomainRecord{
		"a.com": {Domain: "a.com"},
	}}
	svc := NewService(
		WithRDAPResolver(rdap),
		WithWhoisResolver(&fakeResolver{}),
		WithPacing(500*time.Millisecond),
	)

	req := models.LookupRequest{
		Domains: []string{"a.com"},
		Fields:  []string{"domain"},
		UseRDAP: true,
	}

	// A fresh limiter starts with its token available, so a second
	// batch must not wait out the interval consumed by the first one.
	start := time.Now()
	collect(t, svc.Stream(context.Background(), req))
	collect(t, svc.Stream(context.Background(), req))
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestErrorStream(t *testing.T) {
	events := collect(t, ErrorStream("No valid domains provided."))

	require.Len(t, events, 2)
	assert.Equal(t, EventTotal, events[0].Name)
	assert.Equal(t, map[string]any{"total": 0}, events[0].Data)
	assert.Equal(t, EventError, events[1].Name)
	assert.Equal(t, map[string]any{"message": "No valid domains provided."}, events[1].Data)
}

func TestLookupDomainMethodTags(t *testing.T) {
	rdap := &fakeResolver{records: map[string]*models.DomainRecord{
		"a.com": {Domain: "a.com"},
	}}
	whois := &fakeResolver{records: map[string]*models.DomainRecord{
		"a.com": {Domain: "a.com"},
	}}
	svc := testService(rdap, whois)
	ctx := context.Background()

	rec, err := svc.lookupDomain(ctx, "a.com", true)
	require.NoError(t, err)
	assert.Equal(t, MethodRDAP, rec.Method)

	rec, err = svc.lookupDomain(ctx, "a.com", false)
	require.NoError(t, err)
	assert.Equal(t, MethodWhois, rec.Method)
}
