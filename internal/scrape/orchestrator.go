package scrape

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/TosaOdiase/allergenblock/internal/classify"
)

// Tier says which strategy produced a result set.
type Tier string

const (
	TierStatic  Tier = "static"
	TierDynamic Tier = "dynamic"
	TierNone    Tier = "none"
)

// Item is one text fragment that survived classification.
type Item struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Orchestrator runs the two-tier scrape: static parse first, rendered
// page only when the static tier finds nothing.
type Orchestrator struct {
	fetcher  Fetcher
	renderer Renderer
}

func NewOrchestrator(fetcher Fetcher, renderer Renderer) *Orchestrator {
	return &Orchestrator{fetcher: fetcher, renderer: renderer}
}

// --------------------------------------------------
// Single URL
// --------------------------------------------------

// ExtractMenuText returns the filtered menu fragments for a page and
// the tier that produced them. Tier failures degrade to empty results;
// the only way to get TierNone is both tiers coming up empty.
func (o *Orchestrator) ExtractMenuText(ctx context.Context, url string) ([]Item, Tier) {
	items := o.runTier(ctx, url, o.fetchStatic)
	if len(items) > 0 {
		return items, TierStatic
	}

	items = o.runTier(ctx, url, o.fetchDynamic)
	if len(items) > 0 {
		return items, TierDynamic
	}

	return nil, TierNone
}

func (o *Orchestrator) fetchStatic(ctx context.Context, url string) (string, error) {
	return o.fetcher.Fetch(ctx, url)
}

func (o *Orchestrator) fetchDynamic(ctx context.Context, url string) (string, error) {
	return o.renderer.Render(ctx, url)
}

func (o *Orchestrator) runTier(
	ctx context.Context,
	url string,
	fetch func(context.Context, string) (string, error),
) []Item {

	html, err := fetch(ctx, url)
	if err != nil {
		log.Printf("SCRAPE tier failed url=%s err=%v", url, err)
		return nil
	}

	candidates, err := extractCandidates(html)
	if err != nil {
		log.Printf("SCRAPE parse failed url=%s err=%v", url, err)
		return nil
	}

	return filterCandidates(candidates)
}

// filterCandidates keeps fragments classified as menu, plus confident
// maybes.
func filterCandidates(candidates []string) []Item {
	var items []Item
	for _, text := range candidates {
		result := classify.Classify(text)
		if result.Label == classify.LabelMenu ||
			(result.Label == classify.LabelMaybe && result.Confidence >= 0.75) {
			items = append(items, Item{Text: result.Text, Confidence: result.Confidence})
		}
	}
	return items
}

// --------------------------------------------------
// Batch
// --------------------------------------------------

// BatchResult is the outcome for one URL in a batch scrape.
type BatchResult struct {
	URL   string `json:"url"`
	Items []Item `json:"items"`
	Tier  Tier   `json:"tier"`
}

// ExtractBatch scrapes several URLs with bounded concurrency. Each URL
// gets its own browser session if it escalates; a failing URL never
// aborts its siblings.
func (o *Orchestrator) ExtractBatch(ctx context.Context, urls []string, concurrency int) []BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]BatchResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, url := range urls {
		g.Go(func() error {
			items, tier := o.ExtractMenuText(gctx, url)
			results[i] = BatchResult{URL: url, Items: items, Tier: tier}
			return nil
		})
	}

	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()

	return results
}
