// file: internal/server/handlers.go
// version: 1.0.0
// guid: c3a7e1f5-2b84-4d96-8e0a-7f5d1c9b3e26

package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/apicache/internal/fetch"
	"github.com/jdfalk/apicache/internal/logging"
	"github.com/jdfalk/apicache/internal/marketplace"
	"github.com/jdfalk/apicache/internal/server/middleware"
)

// reserved proxy query parameters, never forwarded upstream
const (
	proxyTTLParam     = "ttl"
	proxyRefreshParam = "refresh"
)

type invalidateRequest struct {
	Pattern string `json:"pattern"`
}

func (s *Server) healthCheck(c *gin.Context) {
	resp := gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"version":   Version,
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	}
	if s.fetcher != nil {
		resp["base_url"] = s.fetcher.BaseURL()
		resp["default_ttl"] = s.fetcher.DefaultTTL().String()
		resp["cache_entries"] = s.fetcher.Stats().Count
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) cacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.fetcher.Stats())
}

func (s *Server) invalidateCache(c *gin.Context) {
	var req invalidateRequest
	if HandleBindError(c, c.ShouldBindJSON(&req)) {
		return
	}
	if err := ValidatePattern(req.Pattern); err != nil {
		RespondWithValidationError(c, err)
		return
	}

	removed := s.fetcher.Invalidate(req.Pattern)
	logging.Infof("cache: invalidated %d entries matching %q [request-id: %s]",
		removed, req.Pattern, middleware.GetRequestID(c))
	c.JSON(http.StatusOK, gin.H{
		"pattern": req.Pattern,
		"removed": removed,
	})
}

func (s *Server) clearCache(c *gin.Context) {
	s.fetcher.Clear()
	logging.Infof("cache: cleared [request-id: %s]", middleware.GetRequestID(c))
	RespondWithNoContent(c)
}

// proxy serves GET /api/v1/proxy/*path through the cache. Authorization is
// forwarded so entries stay partitioned per caller.
func (s *Server) proxy(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if err := ValidateProxyPath(path); err != nil {
		RespondWithValidationError(c, err)
		return
	}

	ttl, err := ParseQueryDuration(c, proxyTTLParam)
	if err != nil {
		RespondWithBadRequest(c, "invalid ttl: "+err.Error())
		return
	}
	if err := ValidateTTL(ttl); err != nil {
		RespondWithValidationError(c, err)
		return
	}

	query := c.Request.URL.Query()
	query.Del(proxyTTLParam)
	query.Del(proxyRefreshParam)

	opts := fetch.Options{
		Query:        query,
		ForceRefresh: ParseQueryBool(c, proxyRefreshParam, false),
	}
	if auth := c.GetHeader("Authorization"); auth != "" {
		opts.Header = http.Header{"Authorization": []string{auth}}
	}

	ol := logging.NewOperationLogger("proxy", c.Request.Method, c.Request.URL.Path, middleware.GetRequestID(c))
	ol.LogDebug(fmt.Sprintf("fetching %s ttl=%s refresh=%t authorized=%t",
		path, ttl, opts.ForceRefresh, opts.Header != nil))

	v, err := s.fetcher.Get(c.Request.Context(), path, opts, ttl)
	if err != nil {
		RespondWithUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) listModels(c *gin.Context) {
	page, err := s.marketplace.SearchModels(c.Request.Context(), marketplace.SearchParams{
		Query:        c.Query("q"),
		Category:     c.Query("category"),
		Page:         ParseQueryInt(c, "page", 0),
		ForceRefresh: ParseQueryBool(c, "refresh", false),
	})
	if err != nil {
		RespondWithUpstreamError(c, err)
		return
	}

	if term := c.Query("filter"); term != "" {
		filtered := *page
		filtered.Items = marketplace.FilterModels(page.Items, term)
		page = &filtered
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) getModel(c *gin.Context) {
	model, err := s.marketplace.GetModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, model)
}

func (s *Server) listDatasets(c *gin.Context) {
	page, err := s.marketplace.ListDatasets(c.Request.Context(), ParseQueryInt(c, "page", 0))
	if err != nil {
		RespondWithUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) getUsage(c *gin.Context) {
	usage, err := s.marketplace.GetUsage(c.Request.Context(), ParseQueryBool(c, "refresh", false))
	if err != nil {
		RespondWithUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"usage":          usage,
		"formatted_cost": marketplace.FormatPrice(usage.Cost, usage.Currency),
	})
}

// registerModel accepts the registration form as multipart and relays it.
func (s *Server) registerModel(c *gin.Context) {
	reg, closeArtifact, err := registrationFromForm(c)
	if err != nil {
		RespondWithBadRequest(c, err.Error())
		return
	}
	defer closeArtifact()

	model, err := s.marketplace.RegisterModel(c.Request.Context(), reg)
	if err != nil {
		RespondWithUpstreamError(c, err)
		return
	}
	if model == nil {
		c.JSON(http.StatusCreated, gin.H{"status": "registered", "name": reg.Name})
		return
	}
	c.JSON(http.StatusCreated, model)
}

func registrationFromForm(c *gin.Context) (marketplace.Registration, func(), error) {
	noop := func() {}
	reg := marketplace.Registration{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Currency:    c.DefaultPostForm("currency", "USD"),
	}

	if raw := strings.TrimSpace(c.PostForm("price_per_1k_tokens")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return reg, noop, errors.New("invalid price_per_1k_tokens")
		}
		reg.PricePer1KTokens = price
	}
	for _, tag := range c.PostFormArray("tags") {
		for _, t := range strings.Split(tag, ",") {
			if t = strings.TrimSpace(t); t != "" {
				reg.Tags = append(reg.Tags, t)
			}
		}
	}

	// artifact is optional; url-encoded forms cannot carry one
	header, err := c.FormFile("artifact")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return reg, noop, nil
	}
	if err != nil {
		return reg, noop, errors.New("invalid artifact upload")
	}
	file, err := header.Open()
	if err != nil {
		return reg, noop, errors.New("failed to read artifact")
	}
	reg.Artifact = file
	reg.ArtifactName = header.Filename
	return reg, closer(file), nil
}

func closer(f multipart.File) func() {
	return func() {
		if err := f.Close(); err != nil {
			logging.Debugf("server: closing artifact: %v", err)
		}
	}
}
