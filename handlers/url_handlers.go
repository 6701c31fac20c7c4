package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
	"github.com/S-Pillow/bulk-whois-rdap-lookup/pkg/tools"
)

// URLToolHandlers groups the URL defang/refang and domain extraction
// utilities.
type URLToolHandlers struct{}

func NewURLToolHandlers() *URLToolHandlers {
	return &URLToolHandlers{}
}

// SanitizeURLHandler godoc
// @Summary      Defang URLs
// @Description  Rewrites URLs into the analyst-safe hXXp / bracketed-dot convention.
// @Tags         URL Tools
// @Accept       json
// @Produce      json
// @Param        urlRequest body models.URLListRequest true "URLs to defang"
// @Success      200 {object} models.URLListResponse
// @Failure      400 {object} map[string]string "Error: Invalid request payload"
// @Router       /sanitize-url [post]
func (h *URLToolHandlers) SanitizeURLHandler(c *gin.Context) {
	urls, ok := bindURLList(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, urlListResponse(tools.SanitizeURLs(urls)))
}

// UnsanitizeURLHandler godoc
// @Summary      Refang URLs
// @Description  Reverses the hXXp / bracketed-dot defanging back into clickable URLs.
// @Tags         URL Tools
// @Accept       json
// @Produce      json
// @Param        urlRequest body models.URLListRequest true "URLs to refang"
// @Success      200 {object} models.URLListResponse
// @Failure      400 {object} map[string]string "Error: Invalid request payload"
// @Router       /unsanitize-url [post]
func (h *URLToolHandlers) UnsanitizeURLHandler(c *gin.Context) {
	urls, ok := bindURLList(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, urlListResponse(tools.UnsanitizeURLs(urls)))
}

// ExtractDomainsHandler godoc
// @Summary      Extract registrable domains from URLs
// @Description  Returns the deduplicated registrable domain of each URL's host.
// @Tags         URL Tools
// @Accept       json
// @Produce      json
// @Param        urlRequest body models.URLListRequest true "URLs to extract domains from"
// @Success      200 {object} models.URLListResponse
// @Failure      400 {object} map[string]string "Error: Invalid request payload"
// @Router       /extract-domains [post]
func (h *URLToolHandlers) ExtractDomainsHandler(c *gin.Context) {
	urls, ok := bindURLList(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, urlListResponse(tools.ExtractDomains(urls)))
}

func bindURLList(c *gin.Context) ([]string, bool) {
	var req models.URLListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return nil, false
	}
	if len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "urls field is required"})
		return nil, false
	}
	return req.URLs, true
}

func urlListResponse(results []string) models.URLListResponse {
	resp := models.URLListResponse{Results: make([]models.SafeURLString, len(results))}
	for i, r := range results {
		resp.Results[i] = models.SafeURLString(r)
	}
	return resp
}
