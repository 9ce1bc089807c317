package scrape

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TosaOdiase/allergenblock/internal/classify"
)

// Summarizer turns scraped menu fragments into a short allergen-aware
// summary.
type Summarizer interface {
	SummarizeMenu(ctx context.Context, items []string) (string, error)
}

type Handler struct {
	orchestrator *Orchestrator
	summarizer   Summarizer
	concurrency  int
}

func NewHandler(orchestrator *Orchestrator, summarizer Summarizer, concurrency int) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		summarizer:   summarizer,
		concurrency:  concurrency,
	}
}

// --------------------------------------------------
// Scrape one restaurant page
// --------------------------------------------------
func (h *Handler) Scrape(c *gin.Context) {
	var req struct {
		URL       string `json:"url"`
		Summarize bool   `json:"summarize"`
	}
	if err := c.BindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	items, tier := h.orchestrator.ExtractMenuText(c.Request.Context(), req.URL)

	// Absent menu content is an expected outcome, not an error.
	resp := gin.H{
		"url":   req.URL,
		"tier":  tier,
		"items": itemsOrEmpty(items),
	}

	if req.Summarize && len(items) > 0 && h.summarizer != nil {
		texts := make([]string, 0, len(items))
		for _, item := range items {
			texts = append(texts, item.Text)
		}
		if summary, err := h.summarizer.SummarizeMenu(c.Request.Context(), texts); err == nil {
			resp["summary"] = summary
		}
	}

	c.JSON(http.StatusOK, resp)
}

// --------------------------------------------------
// Classify a single text fragment
// --------------------------------------------------
func (h *Handler) Classify(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, classify.Classify(req.Text))
}

// --------------------------------------------------
// Scrape a batch of pages
// --------------------------------------------------
func (h *Handler) ScrapeBatch(c *gin.Context) {
	var req struct {
		URLs []string `json:"urls"`
	}
	if err := c.BindJSON(&req); err != nil || len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "urls are required"})
		return
	}

	results := h.orchestrator.ExtractBatch(c.Request.Context(), req.URLs, h.concurrency)
	for i := range results {
		results[i].Items = itemsOrEmpty(results[i].Items)
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func itemsOrEmpty(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}
