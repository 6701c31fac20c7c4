package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeDeduplicatesCaseInsensitively(t *testing.T) {
	req := LookupRequest{
		Domains: []string{"a.com", "A.COM", " a.com "},
		Fields:  []string{"domain"},
	}

	cleaned := req.Sanitize()
	require.Len(t, cleaned.Domains, 1)
	assert.Equal(t, "a.com", cleaned.Domains[0])
}

func TestSanitizePreservesOriginalCasing(t *testing.T) {
	req := LookupRequest{
		Domains: []string{" Example.COM ", "example.com"},
		Fields:  []string{"domain"},
	}

	cleaned := req.Sanitize()
	require.Len(t, cleaned.Domains, 1)
	assert.Equal(t, "Example.COM", cleaned.Domains[0])
}

func TestSanitizeDropsEmptyAndOverlongDomains(t *testing.T) {
	long := make([]byte, MaxDomainLength+1)
	for i := range long {
		long[i] = 'a'
	}
	req := LookupRequest{
		Domains: []string{"", "   ", string(long), "ok.com"},
		Fields:  []string{"domain"},
	}

	cleaned := req.Sanitize()
	assert.Equal(t, []string{"ok.com"}, cleaned.Domains)
}

func TestSanitizeCapsBatchSize(t *testing.T) {
	req := LookupRequest{Fields: []string{"domain"}}
	for i := 0; i < 600; i++ {
		req.Domains = append(req.Domains, fmt.Sprintf("domain%d.com", i))
	}

	cleaned := req.Sanitize()
	require.Len(t, cleaned.Domains, MaxDomains)
	assert.Equal(t, "domain0.com", cleaned.Domains[0])
	assert.Equal(t, fmt.Sprintf("domain%d.com", MaxDomains-1), cleaned.Domains[MaxDomains-1])
}

func TestSanitizeFiltersFieldsPreservingOrder(t *testing.T) {
	req := LookupRequest{
		Domains: []string{"a.com"},
		Fields:  []string{"registrar", "bogus", "domain", "nameservers"},
	}

	cleaned := req.Sanitize()
	assert.Equal(t, []string{"registrar", "domain", "nameservers"}, cleaned.Fields)
}

func TestSanitizeAllInvalidFieldsYieldsEmpty(t *testing.T) {
	req := LookupRequest{
		Domains: []string{"a.com"},
		Fields:  []string{"bogus", "also_bogus"},
	}

	assert.Empty(t, req.Sanitize().Fields)
}

func TestNewDomainRecordDefaults(t *testing.T) {
	rec := NewDomainRecord("example.com")

	assert.Equal(t, "example.com", rec.Domain)
	assert.Equal(t, NotFound, rec.Registrar)
	assert.Equal(t, NotFound, rec.RegistrantName)
	assert.Equal(t, []string{NotFound}, rec.Statuses)
	assert.Equal(t, NotFound, rec.CreationDate)
	assert.Equal(t, NotFound, rec.NexusCategories)
	assert.Equal(t, []string{NotFound}, rec.Nameservers)
}

func TestDomainRecordField(t *testing.T) {
	rec := NewDomainRecord("example.com")
	rec.Registrar = "Example Registrar"
	rec.Statuses = []string{"ok"}

	assert.Equal(t, "example.com", rec.Field("domain"))
	assert.Equal(t, "Example Registrar", rec.Field("registrar"))
	assert.Equal(t, []string{"ok"}, rec.Field("statuses"))
	assert.Equal(t, NotFound, rec.Field("bogus"))
}
