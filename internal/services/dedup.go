package services

import (
	"strings"

	"valuation-service/internal/models"
)

// Deduplicate collapses records sharing the same non-empty uniqueId into the
// single freshest version, judged by effective timestamp (lastUpdatedAt →
// updatedAt → createdAt). The survivor keeps the first-seen position in the
// output; ties keep the earlier-seen record. Records with an empty or
// whitespace uniqueId are never deduplicated and pass through unconditionally.
func Deduplicate(records []models.ValuationRecord) []models.ValuationRecord {
	out := make([]models.ValuationRecord, 0, len(records))
	seenAt := make(map[string]int, len(records))

	for _, record := range records {
		id := strings.TrimSpace(record.UniqueID)
		if id == "" {
			out = append(out, record)
			continue
		}

		pos, seen := seenAt[id]
		if !seen {
			seenAt[id] = len(out)
			out = append(out, record)
			continue
		}

		if record.EffectiveTimestamp().After(out[pos].EffectiveTimestamp()) {
			out[pos] = record
		}
	}

	return out
}
