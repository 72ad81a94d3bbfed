// Package qualityfilter narrows a chunk list to chunks likely to contain
// standalone, quotable speech.
//
// Rules are evaluated in a fixed order and the first matching rule rejects
// the chunk. Configuration changes thresholds and phrase lists, never the
// order.
package qualityfilter

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
)

// Ensure Filter implements the interface.
var _ driven.ChunkProcessor = (*Filter)(nil)

// Name is the processor name used in configuration.
const Name = "quality_filter"

// candidate is a chunk with its normalised text precomputed.
type candidate struct {
	chunk  *domain.Chunk
	text   string
	length int
}

// rule pairs a predicate with the name reported when it matches.
type rule struct {
	name  domain.RuleName
	match func(c *candidate) bool
}

// Filter applies the ordered rejection rules.
type Filter struct {
	cfg         domain.FilterConfig
	boilerplate []string
	glue        []string
	hosts       map[string]struct{}
	rules       []rule
}

// Option configures the filter.
type Option func(*domain.FilterConfig)

// WithMinChars sets the minimum character length.
func WithMinChars(n int) Option {
	return func(c *domain.FilterConfig) { c.MinChars = n }
}

// WithSentenceRange sets the inclusive sentence count range.
func WithSentenceRange(lo, hi int) Option {
	return func(c *domain.FilterConfig) {
		c.MinSentences = lo
		c.MaxSentences = hi
	}
}

// WithHosts sets the speakers treated as hosts.
func WithHosts(hosts ...string) Option {
	return func(c *domain.FilterConfig) { c.Hosts = hosts }
}

// WithShortHostChars sets the minimum length of a host chunk.
func WithShortHostChars(n int) Option {
	return func(c *domain.FilterConfig) { c.ShortHostChars = n }
}

// WithBoilerplate replaces the boilerplate phrase list.
func WithBoilerplate(phrases ...string) Option {
	return func(c *domain.FilterConfig) { c.BoilerplatePhrases = phrases }
}

// WithGlue replaces the glue phrase list.
func WithGlue(phrases ...string) Option {
	return func(c *domain.FilterConfig) { c.GluePhrases = phrases }
}

// WithMaxGlueHits sets the glue hit count that rejects a chunk.
func WithMaxGlueHits(n int) Option {
	return func(c *domain.FilterConfig) { c.MaxGlueHits = n }
}

// WithMaxQuestionMarks sets the question mark count that rejects a chunk.
func WithMaxQuestionMarks(n int) Option {
	return func(c *domain.FilterConfig) { c.MaxQuestionMarks = n }
}

// New creates a filter from the default configuration and options.
func New(opts ...Option) *Filter {
	cfg := domain.DefaultFilterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a filter from an explicit configuration.
func NewWithConfig(cfg domain.FilterConfig) *Filter {
	f := &Filter{
		cfg:         cfg,
		boilerplate: lowerPhrases(cfg.BoilerplatePhrases),
		glue:        lowerPhrases(cfg.GluePhrases),
		hosts:       make(map[string]struct{}, len(cfg.Hosts)),
	}

	for _, h := range cfg.Hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			f.hosts[h] = struct{}{}
		}
	}

	f.rules = []rule{
		{domain.RuleTooShort, f.tooShort},
		{domain.RuleSponsorOrIntro, f.sponsorOrIntro},
		{domain.RuleShortHostChunk, f.shortHostChunk},
		{domain.RuleQuestionHeavy, f.questionHeavy},
		{domain.RuleSentenceCount, f.sentenceCountOutOfRange},
		{domain.RuleTooMuchGlue, f.tooMuchGlue},
	}

	return f
}

// Name returns the processor name.
func (f *Filter) Name() string {
	return Name
}

// Config returns the configuration the filter was built with.
func (f *Filter) Config() domain.FilterConfig {
	return f.cfg
}

// Decide evaluates the rules against one chunk.
func (f *Filter) Decide(chunk domain.Chunk) domain.FilterDecision {
	text := strings.ToLower(chunk.Text)
	c := &candidate{
		chunk:  &chunk,
		text:   text,
		length: utf8.RuneCountInString(text),
	}

	for _, r := range f.rules {
		if r.match(c) {
			return domain.FilterDecision{Kept: false, Rule: r.name}
		}
	}
	return domain.FilterDecision{Kept: true}
}

// Apply filters chunks, preserving the order of the survivors.
func (f *Filter) Apply(chunks []domain.Chunk) ([]domain.Chunk, domain.FilterReport) {
	report := domain.NewFilterReport(len(chunks))
	kept := make([]domain.Chunk, 0, len(chunks))

	for _, chunk := range chunks {
		decision := f.Decide(chunk)
		if !decision.Kept {
			report.Rejections[decision.Rule]++
			continue
		}
		kept = append(kept, chunk)
	}

	report.Kept = len(kept)
	return kept, report
}

// Process implements driven.ChunkProcessor. It never fails.
func (f *Filter) Process(_ context.Context, chunks []domain.Chunk) ([]domain.Chunk, domain.FilterReport, error) {
	kept, report := f.Apply(chunks)
	return kept, report, nil
}

func (f *Filter) tooShort(c *candidate) bool {
	return c.length < f.cfg.MinChars
}

func (f *Filter) sponsorOrIntro(c *candidate) bool {
	for _, p := range f.boilerplate {
		if strings.Contains(c.text, p) {
			return true
		}
	}
	return false
}

func (f *Filter) shortHostChunk(c *candidate) bool {
	if _, ok := f.hosts[strings.ToLower(strings.TrimSpace(c.chunk.Speaker))]; !ok {
		return false
	}
	return c.length < f.cfg.ShortHostChars
}

func (f *Filter) questionHeavy(c *candidate) bool {
	if f.cfg.MaxQuestionMarks <= 0 {
		return false
	}
	return strings.Count(c.text, "?") >= f.cfg.MaxQuestionMarks
}

func (f *Filter) sentenceCountOutOfRange(c *candidate) bool {
	n := CountSentences(c.text)
	if f.cfg.MinSentences > 0 && n < f.cfg.MinSentences {
		return true
	}
	return f.cfg.MaxSentences > 0 && n > f.cfg.MaxSentences
}

func (f *Filter) tooMuchGlue(c *candidate) bool {
	if f.cfg.MaxGlueHits <= 0 {
		return false
	}
	return CountPhrases(c.text, f.glue) >= f.cfg.MaxGlueHits
}

// CountSentences counts non-blank '.'-delimited segments.
// Abbreviations and decimals are miscounted; downstream thresholds are
// tuned to this heuristic.
func CountSentences(text string) int {
	n := 0
	for _, s := range strings.Split(text, ".") {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

// CountPhrases sums non-overlapping occurrences of every phrase.
func CountPhrases(text string, phrases []string) int {
	hits := 0
	for _, p := range phrases {
		hits += strings.Count(text, p)
	}
	return hits
}

// lowerPhrases lower-cases phrases and drops empty ones, which would
// otherwise match every text.
func lowerPhrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(p)
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
