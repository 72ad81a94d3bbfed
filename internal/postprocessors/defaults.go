package postprocessors

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
	"github.com/custodia-labs/podchunk/internal/postprocessors/qualityfilter"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(qualityfilter.Name, buildQualityFilter)
}

// DefaultPipeline builds the standard chain through a registry holding the
// built-in processors: the quality filter configured from cfg.
func DefaultPipeline(cfg domain.FilterConfig) (*Pipeline, error) {
	registry := NewRegistry()
	RegisterDefaults(registry)

	pipeline, err := registry.BuildPipeline(
		[]string{qualityfilter.Name},
		map[string]map[string]any{qualityfilter.Name: FilterConfigMap(cfg)},
	)
	if err != nil {
		return nil, fmt.Errorf("build processors: %w", err)
	}
	return pipeline, nil
}

// FilterConfigMap renders cfg as the generic config accepted by the
// quality filter builder.
func FilterConfigMap(cfg domain.FilterConfig) map[string]any {
	return map[string]any{
		"min_chars":           cfg.MinChars,
		"min_sentences":       cfg.MinSentences,
		"max_sentences":       cfg.MaxSentences,
		"short_host_chars":    cfg.ShortHostChars,
		"max_question_marks":  cfg.MaxQuestionMarks,
		"max_glue_hits":       cfg.MaxGlueHits,
		"hosts":               append([]string{}, cfg.Hosts...),
		"boilerplate_phrases": append([]string{}, cfg.BoilerplatePhrases...),
		"glue_phrases":        append([]string{}, cfg.GluePhrases...),
	}
}

// buildQualityFilter creates a quality filter from generic config.
// Missing keys keep their defaults. Supported config keys:
//   - min_chars (int)
//   - min_sentences, max_sentences (int)
//   - short_host_chars (int)
//   - max_question_marks (int)
//   - max_glue_hits (int)
//   - hosts ([]string or comma-separated string)
//   - boilerplate_phrases, glue_phrases ([]string or comma-separated string)
func buildQualityFilter(cfg map[string]any) (driven.ChunkProcessor, error) {
	fc := domain.DefaultFilterConfig()

	if cfg != nil {
		setInt(cfg, "min_chars", &fc.MinChars)
		setInt(cfg, "min_sentences", &fc.MinSentences)
		setInt(cfg, "max_sentences", &fc.MaxSentences)
		setInt(cfg, "short_host_chars", &fc.ShortHostChars)
		setInt(cfg, "max_question_marks", &fc.MaxQuestionMarks)
		setInt(cfg, "max_glue_hits", &fc.MaxGlueHits)
		setStrings(cfg, "hosts", &fc.Hosts)
		setStrings(cfg, "boilerplate_phrases", &fc.BoilerplatePhrases)
		setStrings(cfg, "glue_phrases", &fc.GluePhrases)
	}

	return qualityfilter.NewWithConfig(fc), nil
}

func setInt(cfg map[string]any, key string, dst *int) {
	if _, ok := cfg[key]; ok {
		*dst = getIntFromConfig(cfg, key)
	}
}

func setStrings(cfg map[string]any, key string, dst *[]string) {
	if _, ok := cfg[key]; ok {
		*dst = getStringsFromConfig(cfg, key)
	}
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getStringsFromConfig extracts a string list from generic config map.
// Accepts []string, []any of strings, or a comma-separated string.
func getStringsFromConfig(cfg map[string]any, key string) []string {
	val, ok := cfg[key]
	if !ok {
		return nil
	}

	var out []string
	switch v := val.(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
