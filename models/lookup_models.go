package models

import "strings"

// Sentinel values used throughout the lookup engine. Field values default
// to these rather than empty strings so the frontend always has something
// to render.
const (
	NotFound           = "Not found"
	NotAvailableRDAP   = "Not available via RDAP"
	NexusNotApplicable = "N/A (not .US domain)"
)

// Limits applied to lookup requests before streaming begins.
const (
	MaxDomains      = 500
	MaxDomainLength = 255
)

// allowedFields is the set of output fields a caller may request.
var allowedFields = map[string]struct{}{
	"domain":           {},
	"registrar":        {},
	"registrant_name":  {},
	"statuses":         {},
	"creation_date":    {},
	"nexus_categories": {},
	"nameservers":      {},
}

// LookupRequest is the body of POST /api/whois-lookup.
type LookupRequest struct {
	Domains []string `json:"domains" binding:"required" example:"example.com"`
	Fields  []string `json:"fields" binding:"required" example:"registrar"`
	UseRDAP bool     `json:"use_rdap"`
}

// Sanitize returns a cleaned copy of the request: domains trimmed,
// case-insensitively deduplicated, length-capped and truncated to
// MaxDomains; fields filtered to the allowed set preserving the
// requested order. The original casing of each domain is kept.
func (r LookupRequest) Sanitize() LookupRequest {
	cleaned := LookupRequest{UseRDAP: r.UseRDAP}

	seen := make(map[string]struct{}, len(r.Domains))
	for _, d := range r.Domains {
		d = strings.TrimSpace(d)
		if d == "" || len(d) > MaxDomainLength {
			continue
		}
		key := strings.ToLower(d)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned.Domains = append(cleaned.Domains, d)
		if len(cleaned.Domains) == MaxDomains {
			break
		}
	}

	for _, f := range r.Fields {
		if _, ok := allowedFields[f]; ok {
			cleaned.Fields = append(cleaned.Fields, f)
		}
	}
	return cleaned
}

// DomainRecord is the canonical normalized result shape shared by the
// RDAP and WHOIS paths. Every field defaults to a sentinel so a partial
// normalization still serializes completely.
type DomainRecord struct {
	Domain          string   `json:"domain"`
	Registrar       string   `json:"registrar"`
	RegistrantName  string   `json:"registrant_name"`
	Statuses        []string `json:"statuses"`
	CreationDate    string   `json:"creation_date"`
	NexusCategories string   `json:"nexus_categories"`
	Nameservers     []string `json:"nameservers"`
	Method          string   `json:"_method,omitempty"`
}

// NewDomainRecord returns a record for domain with every other field set
// to its sentinel.
func NewDomainRecord(domain string) *DomainRecord {
	return &DomainRecord{
		Domain:          domain,
		Registrar:       NotFound,
		RegistrantName:  NotFound,
		Statuses:        []string{NotFound},
		CreationDate:    NotFound,
		NexusCategories: NotFound,
		Nameservers:     []string{NotFound},
	}
}

// Field returns the value of a single output field by its wire name.
// Unknown names yield the NotFound sentinel.
func (r *DomainRecord) Field(name string) any {
	switch name {
	case "domain":
		return r.Domain
	case "registrar":
		return r.Registrar
	case "registrant_name":
		return r.RegistrantName
	case "statuses":
		return r.Statuses
	case "creation_date":
		return r.CreationDate
	case "nexus_categories":
		return r.NexusCategories
	case "nameservers":
		return r.Nameservers
	default:
		return NotFound
	}
}
