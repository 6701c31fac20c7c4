package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
)

const (
	defaultBootstrapURL = "https://data.iana.org/rdap/dns.json"
	defaultProxyBase    = "https://rdap.org"

	defaultQueryTimeout = 10 * time.Second
	defaultBootstrapTTL = 6 * time.Hour

	rdapUserAgent = "bulk-whois-rdap-lookup/1.1"
)

// RDAPClient resolves domains over RDAP. The authoritative server for a
// TLD is discovered through the IANA bootstrap registry, which is cached
// in-process with a TTL; TLDs absent from the registry fall back to the
// rdap.org public proxy.
type RDAPClient struct {
	hc           *http.Client
	bootstrapURL string
	proxyBase    string
	queryTimeout time.Duration
	overrides    Overrides

	mu        sync.RWMutex
	services  map[string][]string // tld -> candidate base URLs
	fetchedAt time.Time
	ttl       time.Duration
}

// RDAPOption configures an RDAPClient.
type RDAPOption func(*RDAPClient)

func WithHTTPClient(hc *http.Client) RDAPOption {
	return func(c *RDAPClient) { c.hc = hc }
}

func WithBootstrapURL(u string) RDAPOption {
	return func(c *RDAPClient) { c.bootstrapURL = u }
}

func WithProxyBase(u string) RDAPOption {
	return func(c *RDAPClient) { c.proxyBase = strings.TrimRight(u, "/") }
}

func WithBootstrapTTL(d time.Duration) RDAPOption {
	return func(c *RDAPClient) { c.ttl = d }
}

func WithQueryTimeout(d time.Duration) RDAPOption {
	return func(c *RDAPClient) { c.queryTimeout = d }
}

// WithOverrides replaces the curated per-domain override table. Pass an
// empty Overrides to disable the feature.
func WithOverrides(o Overrides) RDAPOption {
	return func(c *RDAPClient) { c.overrides = o }
}

// NewRDAPClient returns a client with the default bootstrap source,
// proxy fallback and override table.
func NewRDAPClient(opts ...RDAPOption) *RDAPClient {
	c := &RDAPClient{
		hc:           &http.Client{Timeout: 15 * time.Second},
		bootstrapURL: defaultBootstrapURL,
		proxyBase:    defaultProxyBase,
		queryTimeout: defaultQueryTimeout,
		overrides:    DefaultOverrides(),
		services:     make(map[string][]string),
		ttl:          defaultBootstrapTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup resolves domain over RDAP and normalizes the response into the
// canonical record shape. Overridden domains short-circuit before any
// network activity.
func (c *RDAPClient) Lookup(ctx context.Context, domain string) (*models.DomainRecord, error) {
	if rec, ok := c.overrides.Get(domain); ok {
		zap.L().Info("serving RDAP override", zap.String("domain", domain))
		return rec, nil
	}

	raw, err := c.fetch(ctx, domain)
	if err != nil {
		return nil, err
	}
	return normalizeRDAP(domain, raw), nil
}

// fetch discovers the RDAP endpoint for domain and returns the decoded
// response object.
func (c *RDAPClient) fetch(ctx context.Context, domain string) (map[string]any, error) {
	queryURL, err := c.queryURL(ctx, domain)
	if err != nil {
		return nil, &LookupError{Domain: domain, Proto: "RDAP", Err: err}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, &LookupError{Domain: domain, Proto: "RDAP", Err: err}
	}
	req.Header.Set("Accept", "application/rdap+json, application/json;q=0.8")
	req.Header.Set("User-Agent", rdapUserAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &LookupError{Domain: domain, Proto: "RDAP", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, &LookupError{Domain: domain, Proto: "RDAP", Err: ErrNotFound}
	case http.StatusTooManyRequests:
		return nil, &LookupError{Domain: domain, Proto: "RDAP", Err: ErrRateLimited}
	default:
		return nil, &LookupError{Domain: domain, Proto: "RDAP",
			Err: fmt.Errorf("unexpected status %s from %s", resp.Status, queryURL)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &LookupError{Domain: domain, Proto: "RDAP", Err: err}
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &LookupError{Domain: domain, Proto: "RDAP", Err: fmt.Errorf("malformed RDAP response: %w", err)}
	}

	zap.L().Debug("rdap response",
		zap.String("domain", domain),
		zap.String("url", queryURL),
		zap.Int("keys", len(raw)))
	return raw, nil
}

// queryURL picks the base URL for the domain's TLD from the bootstrap
// registry, falling back to the public proxy, and joins it with the
// domain path ensuring exactly one slash between the two.
func (c *RDAPClient) queryURL(ctx context.Context, domain string) (string, error) {
	base := c.proxyBase
	if servers, err := c.serversForTLD(ctx, lastLabel(domain)); err != nil {
		return "", err
	} else if len(servers) > 0 {
		base = strings.TrimRight(servers[0], "/")
	}
	return base + "/domain/" + domain, nil
}

func (c *RDAPClient) serversForTLD(ctx context.Context, tld string) ([]string, error) {
	if tld == "" {
		return nil, fmt.Errorf("empty TLD")
	}

	c.mu.RLock()
	fresh := !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl
	servers := c.services[tld]
	c.mu.RUnlock()
	if fresh {
		return servers, nil
	}

	if err := c.loadBootstrap(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services[tld], nil
}

// loadBootstrap fetches and indexes the IANA bootstrap document. The
// bootstrap JSON shape is {"services": [[[tld...], [url...]], ...]}.
func (c *RDAPClient) loadBootstrap(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have refreshed while we waited on the lock.
	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.bootstrapURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", rdapUserAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("fetch RDAP bootstrap: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch RDAP bootstrap: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return err
	}
	var doc struct {
		Services [][][]string `json:"services"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("parse RDAP bootstrap: %w", err)
	}

	services := make(map[string][]string, len(doc.Services))
	for _, svc := range doc.Services {
		if len(svc) < 2 || len(svc[1]) == 0 {
			continue
		}
		for _, tld := range svc[0] {
			services[strings.ToLower(tld)] = svc[1]
		}
	}

	c.services = services
	c.fetchedAt = time.Now()
	zap.L().Debug("rdap bootstrap refreshed", zap.Int("tlds", len(services)))
	return nil
}

// lastLabel extracts the TLD: the lowercased label after the final dot.
func lastLabel(domain string) string {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), ".")
	i := strings.LastIndexByte(domain, '.')
	if i < 0 {
		return strings.ToLower(domain)
	}
	return strings.ToLower(domain[i+1:])
}
