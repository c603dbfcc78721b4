package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
	"github.com/custodia-labs/noteqa/internal/logger"
)

// Ensure IndexingPipeline implements the interface.
var _ driving.Indexer = (*IndexingPipeline)(nil)

// IndexingPipeline drives the source adapters, skips unchanged documents
// and upserts the rest into the index.
type IndexingPipeline struct {
	adapters []driven.SourceAdapter
	index    driven.Index
	tracker  *ChangeTracker
}

// NewIndexingPipeline creates a pipeline over the given adapters.
// Adapters run in the order given.
func NewIndexingPipeline(
	adapters []driven.SourceAdapter,
	index driven.Index,
	fingerprints driven.FingerprintStore,
) *IndexingPipeline {
	return &IndexingPipeline{
		adapters: adapters,
		index:    index,
		tracker:  NewChangeTracker(fingerprints),
	}
}

// Index runs one incremental pass over the selected sources.
//
// Per-document upsert failures and per-source access problems are reported
// in the IndexReport and never abort the run. The tracker is saved even when
// ctx is cancelled, so work already done is not repeated.
func (p *IndexingPipeline) Index(ctx context.Context, opts driving.IndexOptions) (domain.IndexReport, error) {
	var report domain.IndexReport

	adapters, err := p.selectAdapters(opts.Sources)
	if err != nil {
		return report, err
	}

	logger.Section("Indexing")
	if err := p.tracker.Load(ctx); err != nil {
		return report, err
	}

	usable := 0
	for _, adapter := range adapters {
		if ctx.Err() != nil {
			break
		}

		extraction, err := adapter.Extract(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			reportSourceError(adapter.Name(), err)
			report.SourceErrors = append(report.SourceErrors, err)
			continue
		}
		usable++

		logger.Info("%s: %d notes found", adapter.Name(), len(extraction.Documents))
		for _, skipped := range extraction.Skipped {
			logger.Warn("Skipped %s (%s): %v", skipped.Item, skipped.Kind, skipped.Err)
		}
		report.Skipped = append(report.Skipped, extraction.Skipped...)

		seen := make(map[string]bool, len(extraction.Documents))
		for i := range extraction.Documents {
			if ctx.Err() != nil {
				break
			}
			doc := extraction.Documents[i]
			if seen[doc.ID] {
				logger.Warn("Duplicate document id %s, keeping the first occurrence", doc.ID)
				continue
			}
			seen[doc.ID] = true
			p.indexOne(ctx, doc, &report)
		}

		if opts.Prune && ctx.Err() == nil {
			p.prune(ctx, adapter.Name(), seen, &report)
		}
	}

	// Persist progress even if the run was interrupted.
	saveErr := p.tracker.Save(context.WithoutCancel(ctx))

	if err := ctx.Err(); err != nil {
		return report, errors.Join(err, saveErr)
	}
	if saveErr != nil {
		return report, saveErr
	}
	if usable == 0 {
		return report, fmt.Errorf("%w: %w", domain.ErrNoUsableSource, errors.Join(report.SourceErrors...))
	}

	logger.Info("Indexing complete: %d new, %d updated, %d unchanged, %d failed",
		report.Added, report.Updated, report.Unchanged, len(report.Failed))
	return report, nil
}

// Status reports the size of the index and the tracker.
func (p *IndexingPipeline) Status(ctx context.Context) (*driving.IndexStatus, error) {
	count, err := p.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if err := p.tracker.Load(ctx); err != nil {
		return nil, err
	}

	status := &driving.IndexStatus{
		Documents: count,
		Tracked:   p.tracker.Len(),
		PerSource: make(map[string]int),
	}
	for _, id := range p.tracker.IDs("") {
		source, _, _ := strings.Cut(id, ":")
		status.PerSource[source]++
	}
	return status, nil
}

// indexOne upserts a single document if its fingerprint changed.
func (p *IndexingPipeline) indexOne(ctx context.Context, doc domain.Document, report *domain.IndexReport) {
	fingerprint := doc.Fingerprint()
	if !p.tracker.NeedsReindex(doc.ID, fingerprint) {
		report.Unchanged++
		return
	}

	known := p.tracker.Known(doc.ID)
	if err := p.index.Upsert(ctx, []domain.Document{doc}); err != nil {
		failure := domain.NewSourceError(doc.SourceName, domain.FailureExternalService, err)
		report.Failed = append(report.Failed, domain.DocumentFailure{ID: doc.ID, Err: failure})
		logger.Warn("Failed to index %s: %v", doc.ID, err)
		return
	}
	p.tracker.Record(doc.ID, fingerprint)

	if known {
		report.Updated++
		logger.Info("Updated: %s", doc.ID)
	} else {
		report.Added++
		logger.Info("New: %s", doc.ID)
	}
}

// prune removes tracked documents of a source that the source no longer produced.
func (p *IndexingPipeline) prune(ctx context.Context, source string, seen map[string]bool, report *domain.IndexReport) {
	var stale []string
	for _, id := range p.tracker.IDs(source) {
		if !seen[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return
	}

	if err := p.index.Delete(ctx, stale); err != nil {
		logger.Warn("Failed to prune %d documents from %s: %v", len(stale), source, err)
		for _, id := range stale {
			failure := domain.NewSourceError(source, domain.FailureExternalService, err)
			report.Failed = append(report.Failed, domain.DocumentFailure{ID: id, Err: failure})
		}
		return
	}

	for _, id := range stale {
		p.tracker.Forget(id)
		logger.Info("Pruned: %s", id)
	}
	report.Pruned += len(stale)
}

// selectAdapters filters the adapters by name, preserving their order.
func (p *IndexingPipeline) selectAdapters(names []string) ([]driven.SourceAdapter, error) {
	if len(names) == 0 {
		return p.adapters, nil
	}

	byName := make(map[string]driven.SourceAdapter, len(p.adapters))
	for _, a := range p.adapters {
		byName[a.Name()] = a
	}

	selected := make([]driven.SourceAdapter, 0, len(names))
	for _, name := range names {
		a, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: source %q is not enabled", domain.ErrUnsupportedType, name)
		}
		selected = append(selected, a)
	}
	return selected, nil
}

// reportSourceError logs a source that produced nothing, with its fix hint.
func reportSourceError(source string, err error) {
	var se *domain.SourceError
	if errors.As(err, &se) && se.Hint != "" {
		logger.Warn("%s unavailable: %v\n%s", source, err, se.Hint)
		return
	}
	logger.Warn("%s unavailable: %v", source, err)
}
