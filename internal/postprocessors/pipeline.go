// Package postprocessors provides chunk list processing implementations.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.ChunkPipeline = (*Pipeline)(nil)

// Pipeline chains multiple ChunkProcessors and runs them in order.
// It implements the ChunkPipeline interface.
type Pipeline struct {
	processors []driven.ChunkProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.ChunkProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the chunks through all processors in order.
// Each processor receives the survivors of the previous one. The returned
// report counts the pipeline input as Original, the final survivors as
// Kept, and sums rejections across processors.
func (p *Pipeline) Process(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, domain.FilterReport, error) {
	report := domain.NewFilterReport(len(chunks))

	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, domain.FilterReport{}, err
		}

		var (
			stage domain.FilterReport
			err   error
		)
		chunks, stage, err = processor.Process(ctx, chunks)
		if err != nil {
			return nil, domain.FilterReport{}, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}

		for rule, n := range stage.Rejections {
			report.Rejections[rule] += n
		}
	}

	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	report.Kept = len(chunks)

	return chunks, report, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.ChunkProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns the processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, processor := range p.processors {
		names[i] = processor.Name()
	}
	return names
}
