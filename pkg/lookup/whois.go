package lookup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"go.uber.org/zap"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
)

const (
	defaultWhoisTimeout = 15 * time.Second

	// usWhoisServer answers raw port-43 queries for .us domains. The
	// structured parser misses the registrant and nexus fields for this
	// TLD, so the resolver scans the raw registry output directly.
	usWhoisServer = "whois.nic.us"
)

// rateLimitMarkers flag a throttled response in raw WHOIS text.
var rateLimitMarkers = []string{
	"rate limit",
	"limit exceeded",
	"quota exceeded",
	"try again later",
}

// usExtras carries the .us-specific fields recovered from a direct raw
// WHOIS query, plus the error if that query failed.
type usExtras struct {
	registrantName string
	appPurpose     string
	nexusCategory  string
	err            error
}

// rawQueryFunc issues a raw WHOIS query against server for domain.
// Swappable for tests.
type rawQueryFunc func(ctx context.Context, server, domain string) (string, error)

// WhoisClient resolves domains over legacy WHOIS using the likexian
// client/parser pair, with a raw TCP query for `.us` enrichment.
type WhoisClient struct {
	client   *whois.Client
	timeout  time.Duration
	usServer string
	rawQuery rawQueryFunc
	query    func(domain string) (string, error)
}

// WhoisOption configures a WhoisClient.
type WhoisOption func(*WhoisClient)

func WithWhoisTimeout(d time.Duration) WhoisOption {
	return func(c *WhoisClient) {
		c.timeout = d
		c.client.SetTimeout(d)
	}
}

func WithUSWhoisServer(server string) WhoisOption {
	return func(c *WhoisClient) { c.usServer = server }
}

func NewWhoisClient(opts ...WhoisOption) *WhoisClient {
	c := &WhoisClient{
		client:   whois.NewClient().SetTimeout(defaultWhoisTimeout),
		timeout:  defaultWhoisTimeout,
		usServer: usWhoisServer,
	}
	c.rawQuery = c.dialWhois
	c.query = func(domain string) (string, error) {
		return c.client.Whois(domain)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup queries WHOIS for domain and normalizes the result into the
// canonical record shape.
func (c *WhoisClient) Lookup(ctx context.Context, domain string) (*models.DomainRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LookupError{Domain: domain, Proto: "WHOIS", Err: err}
	}

	// The likexian client has no context hook, so the query runs in a
	// goroutine raced against ctx. An abandoned query finishes in the
	// background within the client timeout.
	type queryResult struct {
		raw string
		err error
	}
	done := make(chan queryResult, 1)
	go func() {
		raw, err := c.query(domain)
		done <- queryResult{raw, err}
	}()

	var raw string
	var err error
	select {
	case <-ctx.Done():
		return nil, &LookupError{Domain: domain, Proto: "WHOIS", Err: ctx.Err()}
	case res := <-done:
		raw, err = res.raw, res.err
	}
	if err != nil {
		if isRateLimitText(err.Error()) {
			return nil, &LookupError{Domain: domain, Proto: "WHOIS", Err: ErrRateLimited}
		}
		return nil, &LookupError{Domain: domain, Proto: "WHOIS", Err: err}
	}
	if isRateLimitText(raw) {
		return nil, &LookupError{Domain: domain, Proto: "WHOIS", Err: ErrRateLimited}
	}

	parsed, perr := whoisparser.Parse(raw)
	if perr != nil {
		switch {
		case errors.Is(perr, whoisparser.ErrNotFoundDomain):
			return nil, &LookupError{Domain: domain, Proto: "WHOIS", Err: ErrNotFound}
		case errors.Is(perr, whoisparser.ErrDomainLimitExceed):
			return nil, &LookupError{Domain: domain, Proto: "WHOIS", Err: ErrRateLimited}
		case strings.TrimSpace(raw) == "":
			return nil, &LookupError{Domain: domain, Proto: "WHOIS", Err: ErrNotFound}
		}
		// Keep going with whatever the raw text offers; the normalizer
		// falls back to line scanning.
		zap.L().Debug("whois parse degraded", zap.String("domain", domain), zap.Error(perr))
	}
	if isNotFoundText(raw) {
		return nil, &LookupError{Domain: domain, Proto: "WHOIS", Err: ErrNotFound}
	}
	if registrarOf(parsed) == "" && strings.TrimSpace(raw) == "" {
		return nil, &LookupError{Domain: domain, Proto: "WHOIS", Err: ErrNotFound}
	}

	var extras *usExtras
	if isUSDomain(domain) {
		extras = c.usLookup(ctx, domain)
	}

	return normalizeWhois(domain, parsed, raw, extras), nil
}

// usLookup runs the direct raw WHOIS query for a .us domain and scans
// its output for the registrant and nexus labels. The exact label
// strings are a documented heuristic of the .us registry output, not a
// guaranteed contract.
func (c *WhoisClient) usLookup(ctx context.Context, domain string) *usExtras {
	out, err := c.rawQuery(ctx, c.usServer, domain)
	if err != nil {
		zap.L().Warn("direct .us whois query failed", zap.String("domain", domain), zap.Error(err))
		return &usExtras{err: err}
	}

	extras := &usExtras{}
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "Registrant Name:"):
			extras.registrantName = valueAfterColon(line)
		case strings.Contains(line, "Registrant Application Purpose:"):
			extras.appPurpose = valueAfterColon(line)
		case strings.Contains(line, "Registrant Nexus Category:"):
			extras.nexusCategory = valueAfterColon(line)
		}
	}
	return extras
}

// dialWhois is a minimal raw WHOIS client: TCP port 43, send the domain,
// read until EOF.
func (c *WhoisClient) dialWhois(ctx context.Context, server, domain string) (string, error) {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(server, "43"))
	if err != nil {
		return "", fmt.Errorf("connect %s: %w", server, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetDeadline(deadline) //nolint:errcheck

	if _, err := fmt.Fprintf(conn, "%s\r\n", domain); err != nil {
		return "", fmt.Errorf("send query: %w", err)
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return sb.String(), nil
}

func isUSDomain(domain string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(domain)), ".us")
}

func isRateLimitText(s string) bool {
	ls := strings.ToLower(s)
	for _, marker := range rateLimitMarkers {
		if strings.Contains(ls, marker) {
			return true
		}
	}
	return false
}

func isNotFoundText(raw string) bool {
	upper := strings.ToUpper(raw)
	return strings.Contains(raw, "No match for domain") || strings.Contains(upper, "NOT FOUND")
}

func registrarOf(parsed whoisparser.WhoisInfo) string {
	if parsed.Registrar == nil {
		return ""
	}
	return parsed.Registrar.Name
}

func valueAfterColon(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}
