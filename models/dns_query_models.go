package models

// DNSQueryRequest is the body of POST /api/dns-query.
type DNSQueryRequest struct {
	Domain      string   `json:"domain" binding:"required" example:"example.com"`
	RecordType  string   `json:"record_type" binding:"required" example:"A"`
	Nameservers []string `json:"nameservers" example:"8.8.8.8"`
}

// DNSQueryResult is the dig-style output for one nameserver.
type DNSQueryResult struct {
	NameServer      string `json:"name_server"`
	Text            string `json:"text"`
	IsAuthoritative bool   `json:"is_authoritative"`
}

// DNSQueryResponse wraps the per-nameserver results.
type DNSQueryResponse struct {
	Results []DNSQueryResult `json:"results"`
}
