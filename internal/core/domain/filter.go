package domain

import "sort"

// RuleName identifies a quality filter rule.
type RuleName string

// Quality filter rules, in evaluation order.
const (
	// RuleTooShort rejects chunks below the minimum character length.
	RuleTooShort RuleName = "too_short"

	// RuleSponsorOrIntro rejects chunks containing boilerplate phrases.
	RuleSponsorOrIntro RuleName = "sponsor_or_intro"

	// RuleShortHostChunk rejects host chunks below the host length threshold.
	RuleShortHostChunk RuleName = "short_host_chunk"

	// RuleQuestionHeavy rejects chunks with too many question marks.
	RuleQuestionHeavy RuleName = "question_heavy"

	// RuleSentenceCount rejects chunks whose sentence count is out of range.
	RuleSentenceCount RuleName = "sentence_count_out_of_range"

	// RuleTooMuchGlue rejects chunks dense with filler phrases.
	RuleTooMuchGlue RuleName = "too_much_glue"
)

// Rules returns every rule name in evaluation order.
func Rules() []RuleName {
	return []RuleName{
		RuleTooShort,
		RuleSponsorOrIntro,
		RuleShortHostChunk,
		RuleQuestionHeavy,
		RuleSentenceCount,
		RuleTooMuchGlue,
	}
}

// String returns the string representation.
func (r RuleName) String() string {
	return string(r)
}

// Default quality filter tunables.
const (
	DefaultMinChars         = 200
	DefaultMinSentences     = 2
	DefaultMaxSentences     = 8
	DefaultShortHostChars   = 350
	DefaultMaxQuestionMarks = 2
	DefaultMaxGlueHits      = 3
	DefaultHost             = "lenny"
)

// DefaultBoilerplatePhrases are sponsor and intro formulas.
var DefaultBoilerplatePhrases = []string{
	"this episode is brought to you by",
	"thanks to our sponsor",
	"sponsored by",
	"subscribe to the podcast",
	"welcome to",
	"today's episode",
	"sign up at",
}

// DefaultGluePhrases are hesitation markers and vague qualifiers.
var DefaultGluePhrases = []string{
	"you know",
	"i think",
	"i guess",
	"kind of",
	"sort of",
	"yeah",
	"totally",
	"i mean",
	"right?",
}

// FilterConfig holds the quality filter tunables.
// A zero or negative threshold disables its rule, as does an empty phrase
// or host list. Rule order does not depend on configuration.
type FilterConfig struct {
	// MinChars is the minimum text length in characters.
	MinChars int

	// MinSentences and MaxSentences bound the '.'-delimited segment count.
	MinSentences int
	MaxSentences int

	// BoilerplatePhrases reject a chunk when any is contained in its text.
	BoilerplatePhrases []string

	// GluePhrases are counted; MaxGlueHits or more rejects the chunk.
	GluePhrases []string
	MaxGlueHits int

	// Hosts are speaker names treated as the show host (case-insensitive).
	Hosts []string

	// ShortHostChars is the minimum length of a host chunk.
	ShortHostChars int

	// MaxQuestionMarks or more '?' characters rejects the chunk.
	MaxQuestionMarks int
}

// DefaultFilterConfig returns the balanced default configuration.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinChars:           DefaultMinChars,
		MinSentences:       DefaultMinSentences,
		MaxSentences:       DefaultMaxSentences,
		BoilerplatePhrases: append([]string(nil), DefaultBoilerplatePhrases...),
		GluePhrases:        append([]string(nil), DefaultGluePhrases...),
		MaxGlueHits:        DefaultMaxGlueHits,
		Hosts:              []string{DefaultHost},
		ShortHostChars:     DefaultShortHostChars,
		MaxQuestionMarks:   DefaultMaxQuestionMarks,
	}
}

// FilterDecision is the verdict for a single chunk.
// Rule is empty when the chunk is kept.
type FilterDecision struct {
	Kept bool
	Rule RuleName
}

// FilterReport summarises a filtering pass.
type FilterReport struct {
	Original   int              `json:"original"`
	Kept       int              `json:"kept"`
	Rejections map[RuleName]int `json:"rejections"`
}

// RuleCount is one line of a report breakdown.
type RuleCount struct {
	Rule  RuleName
	Count int
}

// NewFilterReport creates an empty report for the given input size.
func NewFilterReport(original int) FilterReport {
	return FilterReport{
		Original:   original,
		Rejections: make(map[RuleName]int),
	}
}

// Rejected returns the number of chunks that did not survive.
func (r FilterReport) Rejected() int {
	return r.Original - r.Kept
}

// Reduction returns the rejected fraction of the input, 0 for empty input.
func (r FilterReport) Reduction() float64 {
	if r.Original == 0 {
		return 0
	}
	return float64(r.Rejected()) / float64(r.Original)
}

// Breakdown returns non-zero rule counts, largest first.
// Ties keep rule evaluation order.
func (r FilterReport) Breakdown() []RuleCount {
	rank := make(map[RuleName]int)
	for i, name := range Rules() {
		rank[name] = i
	}

	out := make([]RuleCount, 0, len(r.Rejections))
	for rule, count := range r.Rejections {
		if count > 0 {
			out = append(out, RuleCount{Rule: rule, Count: count})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		ri, iok := rank[out[i].Rule]
		rj, jok := rank[out[j].Rule]
		if iok != jok {
			return iok
		}
		if ri != rj {
			return ri < rj
		}
		return out[i].Rule < out[j].Rule
	})
	return out
}
