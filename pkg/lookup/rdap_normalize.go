package lookup

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
)

// normalizeRDAP maps a raw RDAP response object onto the canonical
// record. RDAP structurally cannot expose registrant details for most
// registries, so registrant_name and nexus_categories are fixed to a
// protocol-limitation sentinel.
func normalizeRDAP(domain string, raw map[string]any) *models.DomainRecord {
	rec := models.NewDomainRecord(domain)
	rec.RegistrantName = models.NotAvailableRDAP
	rec.NexusCategories = models.NotAvailableRDAP

	if name := registrarName(raw); name != "" {
		rec.Registrar = name
	}
	if statuses := extractStatuses(raw); len(statuses) > 0 {
		rec.Statuses = statuses
	}
	if date := registrationDate(raw); date != "" {
		rec.CreationDate = date
	}
	if ns := nameserverHosts(raw); len(ns) > 0 {
		rec.Nameservers = ns
	}
	return rec
}

// statusExtractors is the ordered list of known places registries put
// status values. Each extractor handles one shape; their outputs are
// concatenated and normalized once. Registries are wildly inconsistent
// here, which is why this is a list and not a single field read.
var statusExtractors = []func(map[string]any) []string{
	topLevelStatus,
	domainStatusField,
	handleObjectStatus,
	statusNamedKeys,
	nestedObjectStatus,
}

// extractStatuses runs every extractor, splits compound values, strips
// embedded URLs and trailing punctuation, and deduplicates preserving
// first-seen order.
func extractStatuses(raw map[string]any) []string {
	var collected []string
	for _, extract := range statusExtractors {
		collected = append(collected, extract(raw)...)
	}

	var out []string
	seen := make(map[string]struct{})
	for _, value := range collected {
		for _, token := range splitStatusTokens(value) {
			code := cleanStatusToken(token)
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

// topLevelStatus reads the standard top-level "status" member: either an
// array of strings or an array of objects carrying a "type" key.
func topLevelStatus(raw map[string]any) []string {
	return anyToStatusList(raw["status"])
}

// domainStatusField reads the nonstandard "domainStatus" member some
// registries use.
func domainStatusField(raw map[string]any) []string {
	return anyToStatusList(raw["domainStatus"])
}

// handleObjectStatus reads a "status" key nested inside a "handle"
// object (seen on .biz domains, where handle is an object rather than
// the usual string).
func handleObjectStatus(raw map[string]any) []string {
	handle, ok := raw["handle"].(map[string]any)
	if !ok {
		return nil
	}
	return anyToStatusList(handle["status"])
}

// statusNamedKeys reads any other top-level key whose name contains
// "status". Keys are visited in sorted order so the same payload always
// yields the same token sequence.
func statusNamedKeys(raw map[string]any) []string {
	var out []string
	for _, key := range sortedKeys(raw) {
		lk := strings.ToLower(key)
		if key == "status" || key == "domainStatus" || !strings.Contains(lk, "status") {
			continue
		}
		out = append(out, anyToStatusList(raw[key])...)
	}
	return out
}

// nestedObjectStatus reads a "status" key inside any other object at the
// top level, again in sorted key order.
func nestedObjectStatus(raw map[string]any) []string {
	var out []string
	for _, key := range sortedKeys(raw) {
		if key == "handle" {
			continue // handled by handleObjectStatus
		}
		obj, ok := raw[key].(map[string]any)
		if !ok {
			continue
		}
		if nested, present := obj["status"]; present {
			out = append(out, anyToStatusList(nested)...)
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// anyToStatusList renders a status member of unknown shape as strings.
func anyToStatusList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if obj, ok := item.(map[string]any); ok {
				if typ, ok := obj["type"].(string); ok {
					out = append(out, typ)
					continue
				}
			}
			out = append(out, anyToString(item))
		}
		return out
	default:
		return []string{anyToString(v)}
	}
}

func anyToString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

var statusSeparators = regexp.MustCompile(`[;,\n]+`)

// splitStatusTokens expands compound strings like
// "a https://..; b https://..; c" into individual tokens.
func splitStatusTokens(s string) []string {
	var out []string
	for _, piece := range statusSeparators.Split(s, -1) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// cleanStatusToken strips an embedded EPP status URL from a token. If
// text precedes the URL that text wins; a URL-only token falls back to
// its '#' fragment, then its final path segment. Trailing whitespace,
// semicolons and periods are removed.
func cleanStatusToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.Contains(s, "http://") || strings.Contains(s, "https://") {
		pre, _, found := strings.Cut(s, " http")
		if found && strings.TrimSpace(pre) != "" {
			s = strings.TrimSpace(pre)
		} else if i := strings.LastIndexByte(s, '#'); i >= 0 {
			s = s[i+1:]
		} else {
			trimmed := strings.TrimRight(s, "/")
			s = trimmed[strings.LastIndexByte(trimmed, '/')+1:]
		}
	}
	return strings.TrimRight(s, " ;.")
}

// registrarName finds the first entity carrying the "registrar" role and
// pulls its display name out of the vcard "fn" property.
// vcardArray shape: ["vcard", [[name, params, type, value], ...]].
func registrarName(raw map[string]any) string {
	entities, _ := raw["entities"].([]any)
	for _, e := range entities {
		entity, ok := e.(map[string]any)
		if !ok || !hasRole(entity, "registrar") {
			continue
		}
		vcard, ok := entity["vcardArray"].([]any)
		if !ok || len(vcard) < 2 {
			return ""
		}
		props, ok := vcard[1].([]any)
		if !ok {
			return ""
		}
		for _, p := range props {
			prop, ok := p.([]any)
			if !ok || len(prop) < 4 {
				continue
			}
			if name, _ := prop[0].(string); name != "fn" {
				continue
			}
			if val, ok := prop[3].(string); ok {
				return val
			}
		}
		return ""
	}
	return ""
}

func hasRole(entity map[string]any, role string) bool {
	roles, _ := entity["roles"].([]any)
	for _, r := range roles {
		if s, ok := r.(string); ok && s == role {
			return true
		}
	}
	return false
}

// registrationDate returns the eventDate of the first event whose action
// is "registration".
func registrationDate(raw map[string]any) string {
	events, _ := raw["events"].([]any)
	for _, e := range events {
		event, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if action, _ := event["eventAction"].(string); action != "registration" {
			continue
		}
		if date, ok := event["eventDate"].(string); ok {
			return date
		}
	}
	return ""
}

// nameserverHosts returns the ldhName of every nameserver entry carrying
// one.
func nameserverHosts(raw map[string]any) []string {
	entries, _ := raw["nameservers"].([]any)
	var out []string
	for _, e := range entries {
		ns, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if name, ok := ns["ldhName"].(string); ok && name != "" {
			out = append(out, name)
		}
	}
	return out
}
