package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
	"github.com/custodia-labs/podchunk/internal/core/ports/driving"
	"github.com/custodia-labs/podchunk/internal/logger"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService measures raw transcripts.
type StatsService struct {
	source   driven.TranscriptSource
	exporter driven.Exporter
}

// NewStatsService creates a new stats service. The exporter is optional.
func NewStatsService(source driven.TranscriptSource, exporter driven.Exporter) *StatsService {
	return &StatsService{
		source:   source,
		exporter: exporter,
	}
}

// Collect returns word and line counts for every raw transcript in slug
// order. Unreadable transcripts are skipped.
func (s *StatsService) Collect(ctx context.Context) ([]domain.EpisodeStats, error) {
	slugs, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	stats := make([]domain.EpisodeStats, 0, len(slugs))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := s.source.Read(ctx, slug)
		if err != nil {
			logger.Warn("Skipping %s: %v", slug, err)
			continue
		}

		text := strings.ToValidUTF8(string(raw.Content), "")
		stats = append(stats, domain.NewEpisodeStats(slug, text))
	}

	if s.exporter != nil {
		if err := s.exporter.WriteStats(ctx, stats); err != nil {
			return nil, fmt.Errorf("export stats: %w", err)
		}
	}
	return stats, nil
}
