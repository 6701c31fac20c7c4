package lookup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
)

// Method tags recorded in the `_method` output field.
const (
	MethodRDAP          = "RDAP"
	MethodWhois         = "WHOIS"
	MethodWhoisFallback = "WHOIS (RDAP fallback)"
)

// domainResolver is the contract both protocol clients satisfy: resolve
// one domain into a normalized record.
type domainResolver interface {
	Lookup(ctx context.Context, domain string) (*models.DomainRecord, error)
}

// Service orchestrates per-domain lookups across the two protocols and
// produces the event stream for a batch request. Pacing is scoped to a
// single batch: each Stream call builds its own limiter, so concurrent
// batches never pace each other.
type Service struct {
	rdap         domainResolver
	whois        domainResolver
	paceInterval time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithRDAPResolver(r domainResolver) ServiceOption {
	return func(s *Service) { s.rdap = r }
}

func WithWhoisResolver(r domainResolver) ServiceOption {
	return func(s *Service) { s.whois = r }
}

// WithPacing overrides the delay between consecutive domains. Zero
// disables pacing.
func WithPacing(interval time.Duration) ServiceOption {
	return func(s *Service) { s.paceInterval = interval }
}

// NewService wires the default RDAP and WHOIS clients with the standard
// 50ms inter-domain pacing.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		rdap:         NewRDAPClient(),
		whois:        NewWhoisClient(),
		paceInterval: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lookupDomain resolves a single domain. With useRDAP set, RDAP is tried
// first: a rate-limit failure propagates untouched (no fallback, so the
// caller can raise the batch-wide circuit breaker), any other failure
// falls back to plain WHOIS. Without useRDAP it goes straight to WHOIS.
func (s *Service) lookupDomain(ctx context.Context, domain string, useRDAP bool) (*models.DomainRecord, error) {
	if !useRDAP {
		rec, err := s.whois.Lookup(ctx, domain)
		if err != nil {
			return nil, err
		}
		rec.Method = MethodWhois
		return rec, nil
	}

	rec, err := s.rdap.Lookup(ctx, domain)
	if err == nil {
		rec.Method = MethodRDAP
		return rec, nil
	}
	if IsRateLimited(err) {
		return nil, err
	}
	zap.L().Info("rdap failed, falling back to whois",
		zap.String("domain", domain), zap.Error(err))

	rec, werr := s.whois.Lookup(ctx, domain)
	if werr != nil {
		return nil, werr
	}
	rec.Method = MethodWhoisFallback
	return rec, nil
}
