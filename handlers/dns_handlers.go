package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
	"github.com/S-Pillow/bulk-whois-rdap-lookup/pkg/tools"
)

// Nameserver count cap per query, for performance.
const maxNameservers = 4

// Record types that may be queried against the system resolver when the
// caller supplies no nameservers.
var optionalNameserverTypes = map[string]struct{}{
	"NS": {}, "SOA": {}, "A": {}, "AAAA": {}, "MX": {}, "TXT": {}, "CNAME": {}, "PTR": {},
}

// DNSHandlers serves the dig-style DNS query tool.
type DNSHandlers struct{}

func NewDNSHandlers() *DNSHandlers {
	return &DNSHandlers{}
}

// DNSQueryHandler godoc
// @Summary      Dig-style DNS query
// @Description  Sends a single DNS query to each requested nameserver (max 4) and returns dig-formatted text output per server.
// @Tags         DNS
// @Accept       json
// @Produce      json
// @Param        dnsRequest body models.DNSQueryRequest true "Domain, record type and nameservers"
// @Success      200 {object} models.DNSQueryResponse
// @Failure      400 {object} map[string]string "Error: Invalid input"
// @Router       /dns-query [post]
func (h *DNSHandlers) DNSQueryHandler(c *gin.Context) {
	var req models.DNSQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	req.RecordType = strings.ToUpper(strings.TrimSpace(req.RecordType))
	if !tools.ValidRecordType(req.RecordType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record type: '" + req.RecordType + "'"})
		return
	}

	nameservers := req.Nameservers
	if len(nameservers) == 0 {
		if _, ok := optionalNameserverTypes[req.RecordType]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Request must include 'nameservers' for this record type",
			})
			return
		}
		nameservers = []string{tools.SystemNameserver()}
	}
	if len(nameservers) > maxNameservers {
		zap.L().Info("limiting nameserver list",
			zap.Int("requested", len(nameservers)), zap.Int("limit", maxNameservers))
		nameservers = nameservers[:maxNameservers]
	}

	results := make([]models.DNSQueryResult, 0, len(nameservers))
	for _, ns := range nameservers {
		results = append(results, tools.DigQuery(req.Domain, ns, req.RecordType))
	}

	zap.L().Info("dns query completed",
		zap.String("domain", req.Domain), zap.String("record_type", req.RecordType))
	c.JSON(http.StatusOK, models.DNSQueryResponse{Results: results})
}
