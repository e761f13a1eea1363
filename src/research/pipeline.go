// Package research runs the fixed market-research pipeline whose
// aggregated findings become order deliverables.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/zenc-cp/clawwork-cloud-api/src/economics"
	"github.com/zenc-cp/clawwork-cloud-api/src/orders"
	"github.com/zenc-cp/clawwork-cloud-api/src/search"
)

// Fixed economics of one research run.
const (
	RunCost    = 0.50
	RunRevenue = 25.00
)

const maxFindings = 5

// sectionOrder fixes the query sequence.
var sectionOrder = []string{"market_overview", "competitors", "trends", "swot_signals", "pricing"}

var queryTemplates = map[string]string{
	"market_overview": "%[1]s market size %[2]s 2026",
	"competitors":     "top %[1]s companies %[2]s",
	"trends":          "%[1]s trends forecast 2026 2027",
	"swot_signals":    "%[1]s challenges opportunities %[2]s",
	"pricing":         "%[1]s pricing strategy %[2]s",
}

// Section is one labeled slice of the report.
type Section struct {
	Query       string   `json:"query"`
	Sources     int      `json:"sources"`
	KeyFindings []string `json:"key_findings"`
}

// Report is the structured research deliverable.
type Report struct {
	TaskID       string              `json:"task_id"`
	Industry     string              `json:"industry"`
	TargetMarket string              `json:"target_market"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Sections     map[string]Section  `json:"sections"`
	Economics    *economics.Snapshot `json:"economics,omitempty"`
}

// Pipeline orchestrates the five queries against the search provider.
type Pipeline struct {
	provider   search.Provider
	ledger     *economics.Ledger
	delay      time.Duration
	maxResults int
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithQueryDelay sets the pause between consecutive queries. The delay
// exists to stay under the provider's rate limits, not for correctness.
func WithQueryDelay(d time.Duration) Option {
	return func(p *Pipeline) { p.delay = d }
}

// WithMaxResults bounds results requested per query.
func WithMaxResults(n int) Option {
	return func(p *Pipeline) { p.maxResults = n }
}

// New builds a pipeline over the given provider and ledger.
func New(provider search.Provider, ledger *economics.Ledger, opts ...Option) *Pipeline {
	p := &Pipeline{
		provider:   provider,
		ledger:     ledger,
		delay:      2 * time.Second,
		maxResults: 8,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes a full research task: the fixed cost is debited up
// front and the fixed revenue credited at the end, no matter how many
// individual queries failed. The returned report carries the ledger
// snapshot taken after the credit.
func (p *Pipeline) Run(ctx context.Context, industry, targetMarket string) (*Report, error) {
	if err := p.ledger.TrackCost(RunCost); err != nil {
		return nil, fmt.Errorf("research: debit run cost: %w", err)
	}

	report := p.buildReport(ctx, industry, targetMarket)

	if err := p.ledger.TrackIncome(RunRevenue); err != nil {
		return nil, fmt.Errorf("research: credit run revenue: %w", err)
	}
	snap := p.ledger.Snapshot()
	report.Economics = &snap
	return report, nil
}

// Generate implements orders.Generator: it debits the processing cost
// and renders the report as the order's deliverable. Revenue is not
// credited here; that happens once, at delivery, with the gig price.
func (p *Pipeline) Generate(ctx context.Context, o orders.Order) (string, error) {
	if err := p.ledger.TrackCost(RunCost); err != nil {
		return "", fmt.Errorf("research: debit generation cost: %w", err)
	}

	report := p.buildReport(ctx, o.Industry, o.TargetMarket)

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("research: render report: %w", err)
	}
	return string(payload), nil
}

// buildReport runs the five queries sequentially. A failing query
// yields a section with zero sources and an error-flavored finding;
// it never aborts the rest of the report.
func (p *Pipeline) buildReport(ctx context.Context, industry, targetMarket string) *Report {
	report := &Report{
		TaskID:       "research_" + uuid.NewString()[:8],
		Industry:     industry,
		TargetMarket: targetMarket,
		GeneratedAt:  time.Now().UTC(),
		Sections:     make(map[string]Section, len(sectionOrder)),
	}

	for i, name := range sectionOrder {
		if i > 0 {
			sleepCtx(ctx, p.delay)
		}

		query := fmt.Sprintf(queryTemplates[name], industry, targetMarket)
		results, err := p.provider.Search(ctx, query, p.maxResults)
		if err != nil {
			log.Printf("research: section %s query failed: %v", name, err)
			report.Sections[name] = Section{
				Query:       query,
				Sources:     0,
				KeyFindings: []string{fmt.Sprintf("search failed: %v", err)},
			}
			continue
		}

		findings := make([]string, 0, maxFindings)
		for _, r := range results {
			if len(findings) == maxFindings {
				break
			}
			if r.Snippet != "" {
				findings = append(findings, r.Snippet)
			}
		}
		report.Sections[name] = Section{
			Query:       query,
			Sources:     len(results),
			KeyFindings: findings,
		}
	}
	return report
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
