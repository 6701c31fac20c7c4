package lookup

import (
	"strings"
	"time"

	whoisparser "github.com/likexian/whois-parser"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
)

// normalizeWhois maps a parsed WHOIS record (plus its raw text, plus the
// optional .us enrichment) onto the canonical record shape.
func normalizeWhois(domain string, parsed whoisparser.WhoisInfo, raw string, extras *usExtras) *models.DomainRecord {
	rec := models.NewDomainRecord(domain)

	if name := registrarOf(parsed); name != "" {
		rec.Registrar = name
	}

	if extras != nil {
		applyUSExtras(rec, extras)
	} else {
		rec.NexusCategories = models.NexusNotApplicable
		if name := scanRegistrantName(raw); name != "" {
			rec.RegistrantName = name
		}
	}

	if statuses := whoisStatuses(parsed); len(statuses) > 0 {
		rec.Statuses = statuses
	}
	if date := whoisCreationDate(parsed); date != "" {
		rec.CreationDate = date
	}
	if parsed.Domain != nil && len(parsed.Domain.NameServers) > 0 {
		rec.Nameservers = append([]string(nil), parsed.Domain.NameServers...)
	}
	return rec
}

// applyUSExtras fills the .us-only fields from the direct raw query.
func applyUSExtras(rec *models.DomainRecord, extras *usExtras) {
	if extras.err != nil {
		rec.NexusCategories = "Direct .US WHOIS query failed: " + extras.err.Error()
		return
	}
	if extras.registrantName != "" {
		rec.RegistrantName = extras.registrantName
	}

	var parts []string
	if extras.appPurpose != "" {
		parts = append(parts, "Application Purpose: "+extras.appPurpose)
	}
	if extras.nexusCategory != "" {
		parts = append(parts, "Nexus Category: "+extras.nexusCategory)
	}
	if len(parts) > 0 {
		rec.NexusCategories = strings.Join(parts, "; ")
	} else {
		rec.NexusCategories = "Not found in direct .US WHOIS output"
	}
}

// scanRegistrantName pulls a registrant name out of raw WHOIS text for
// non-.us domains, where registries label the line inconsistently.
func scanRegistrantName(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if strings.Contains(line, "Registrant Name:") || strings.Contains(line, "registrant:") {
			return valueAfterColon(line)
		}
	}
	return ""
}

// whoisStatuses reads the structured status list, stripping any EPP URL
// suffix and dropping duplicates and empties.
func whoisStatuses(parsed whoisparser.WhoisInfo) []string {
	if parsed.Domain == nil {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, status := range parsed.Domain.Status {
		for _, line := range strings.Split(status, "\n") {
			code, _, _ := strings.Cut(line, " https://")
			code = strings.TrimSpace(code)
			if code == "" || code == models.NotFound {
				continue
			}
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}
	return out
}

// whoisCreationDate prefers the parsed time rendered as RFC 3339 and
// falls back to the raw date string.
func whoisCreationDate(parsed whoisparser.WhoisInfo) string {
	if parsed.Domain == nil {
		return ""
	}
	if t := parsed.Domain.CreatedDateInTime; t != nil {
		return t.UTC().Format(time.RFC3339)
	}
	return strings.TrimSpace(parsed.Domain.CreatedDate)
}
