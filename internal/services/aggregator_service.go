package services

import (
	"context"
	"log/slog"
	"sync"

	"valuation-service/internal/models"
)

// RecordSource is one of the three form-family stores consumed by the
// aggregator. Implementations must return an empty slice, not an error, when
// the actor simply has nothing visible.
type RecordSource interface {
	Family() models.FormFamily
	FetchRecords(ctx context.Context, fctx models.FetchContext) ([]models.ValuationRecord, error)
}

// AggregatorService fans out to every configured source and unions the
// results into one working set. It performs no filtering or deduplication.
type AggregatorService struct {
	sources []RecordSource
}

func NewAggregatorService(sources ...RecordSource) *AggregatorService {
	return &AggregatorService{sources: sources}
}

// Aggregate fetches from all sources concurrently and waits for every fetch
// to settle. A failing source contributes an empty set; the merged fetch
// never fails because one source is unavailable. Every record is stamped
// with the form family of the source that produced it, never inferred from
// record content. Output preserves configured source order.
func (s *AggregatorService) Aggregate(ctx context.Context, fctx models.FetchContext) []models.ValuationRecord {
	results := make([][]models.ValuationRecord, len(s.sources))

	var wg sync.WaitGroup
	for i, source := range s.sources {
		wg.Add(1)
		go func(i int, source RecordSource) {
			defer wg.Done()
			records, err := source.FetchRecords(ctx, fctx)
			if err != nil {
				slog.Warn("record source unavailable, degrading to empty contribution",
					"form_family", source.Family(),
					"client_id", fctx.ClientID,
					"error", err)
				return
			}
			for j := range records {
				records[j].FormFamily = source.Family()
			}
			results[i] = records
		}(i, source)
	}
	wg.Wait()

	total := 0
	for _, records := range results {
		total += len(records)
	}
	merged := make([]models.ValuationRecord, 0, total)
	for _, records := range results {
		merged = append(merged, records...)
	}
	return merged
}
