package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"valuation-service/internal/cache"
	"valuation-service/internal/models"
)

// DashboardService owns the merged, deduplicated view of all three form
// families and derives the filtered, sorted, paginated presentation of it.
// Snapshots are held per actor scope and replaced wholesale on every refresh;
// readers never observe a partially-updated set.
type DashboardService struct {
	aggregator    *AggregatorService
	snapshotCache *cache.SnapshotCache
	pageSize      int

	mu          sync.RWMutex
	snapshots   map[string][]models.ValuationRecord
	lastQueries map[string]models.DashboardQuery
}

func NewDashboardService(aggregator *AggregatorService, snapshotCache *cache.SnapshotCache, pageSize int) *DashboardService {
	return &DashboardService{
		aggregator:    aggregator,
		snapshotCache: snapshotCache,
		pageSize:      pageSize,
		snapshots:     make(map[string][]models.ValuationRecord),
		lastQueries:   make(map[string]models.DashboardQuery),
	}
}

// scopeKey identifies one actor-visible record set. Source fetches for a
// submitter return only their own rows, so a submitter snapshot must never be
// shared with the tenant-wide manager/admin view, in memory or in Redis.
func scopeKey(fctx models.FetchContext) string {
	if fctx.Role == models.RoleUser {
		return fctx.ClientID + "|user|" + fctx.Username
	}
	return fctx.ClientID
}

// Refresh pulls every source, deduplicates, and swaps in the new snapshot
// for the actor's scope. Cache write failure is logged, never surfaced; the
// cache is an optimization, not a source of truth.
func (s *DashboardService) Refresh(ctx context.Context, fctx models.FetchContext) int {
	merged := Deduplicate(s.aggregator.Aggregate(ctx, fctx))
	key := scopeKey(fctx)

	s.mu.Lock()
	s.snapshots[key] = merged
	s.mu.Unlock()

	if s.snapshotCache != nil {
		if err := s.snapshotCache.Store(ctx, key, merged); err != nil {
			slog.Warn("failed to cache merged snapshot", "scope", key, "error", err)
		}
	}

	return len(merged)
}

// RestoreFromCache seeds an empty scope snapshot from Redis, if one is
// cached. Used to serve a recent view before the first refresh completes.
func (s *DashboardService) RestoreFromCache(ctx context.Context, fctx models.FetchContext) bool {
	if s.snapshotCache == nil {
		return false
	}
	key := scopeKey(fctx)

	s.mu.RLock()
	_, loaded := s.snapshots[key]
	s.mu.RUnlock()
	if loaded {
		return false
	}

	records, err := s.snapshotCache.Load(ctx, key)
	if err != nil {
		slog.Warn("failed to restore snapshot from cache", "scope", key, "error", err)
		return false
	}
	if records == nil {
		return false
	}

	s.mu.Lock()
	if _, loaded := s.snapshots[key]; !loaded {
		s.snapshots[key] = records
	}
	s.mu.Unlock()
	return true
}

// ScopedSnapshot returns the current merged set visible to the actor.
func (s *DashboardService) ScopedSnapshot(fctx models.FetchContext) []models.ValuationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[scopeKey(fctx)]
}

// AllRecords flattens every scope snapshot; the duration tracker recomputes
// over this on each tick. A record visible in both a submitter scope and the
// tenant scope appears twice here, but durations key on uniqueId, so the
// duplicate collapses to the same entry.
func (s *DashboardService) AllRecords() []models.ValuationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, records := range s.snapshots {
		total += len(records)
	}
	all := make([]models.ValuationRecord, 0, total)
	for _, records := range s.snapshots {
		all = append(all, records...)
	}
	return all
}

// GetPage derives one page of the merged view. Status counts are computed
// over the full unfiltered scope snapshot. The previous query for the same
// scope drives the stateful transitions: a sort toggle flips the order of the
// active field or resets a new field to ascending, and any filter change
// snaps back to page 1.
func (s *DashboardService) GetPage(fctx models.FetchContext, query models.DashboardQuery, durations map[string]models.DurationBreakdown) models.DashboardPage {
	key := scopeKey(fctx)

	s.mu.Lock()
	previous, seen := s.lastQueries[key]
	if query.ToggleSort != "" {
		query.SortField, query.SortOrder = NextSortState(previous.SortField, previous.SortOrder, query.ToggleSort)
		query.ToggleSort = ""
	}
	if seen {
		query = ResetPageOnFilterChange(previous, query)
	}
	s.lastQueries[key] = query
	s.mu.Unlock()

	snapshot := s.ScopedSnapshot(fctx)

	filtered := ApplyFilters(snapshot, query.Filters)
	sorted := SortRecords(filtered, query.SortField, query.SortOrder, durations)
	pageRecords, page, totalPages := Paginate(sorted, query.Page, s.pageSize)

	pageDurations := make(map[string]models.DurationBreakdown, len(snapshot))
	for i := range snapshot {
		if d, ok := durations[snapshot[i].UniqueID]; ok {
			pageDurations[snapshot[i].UniqueID] = d
		}
	}

	return models.DashboardPage{
		Records:       pageRecords,
		Durations:     pageDurations,
		StatusCounts:  StatusCounts(snapshot),
		Page:          page,
		PageSize:      s.pageSize,
		TotalPages:    totalPages,
		TotalRecords:  len(snapshot),
		FilteredTotal: len(sorted),
	}
}

// ApplyFilters applies the conjunctive equality filters. A record whose raw
// status does not normalize never matches a concrete status filter, but is
// kept whenever no status filter is set.
func ApplyFilters(records []models.ValuationRecord, filters models.DashboardFilters) []models.ValuationRecord {
	out := make([]models.ValuationRecord, 0, len(records))
	for _, record := range records {
		if filters.Status != nil {
			status, ok := record.Status()
			if !ok || status != *filters.Status {
				continue
			}
		}
		if filters.City != nil && !strings.EqualFold(record.City, *filters.City) {
			continue
		}
		if filters.BankName != nil && !strings.EqualFold(record.BankName, *filters.BankName) {
			continue
		}
		if filters.EngineerName != nil && !strings.EqualFold(record.EngineerName, *filters.EngineerName) {
			continue
		}
		out = append(out, record)
	}
	return out
}

// StatusCounts buckets the full merged set by normalized status. Records
// whose status does not normalize are excluded from every bucket.
func StatusCounts(records []models.ValuationRecord) map[models.Status]int {
	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		counts[status] = 0
	}
	for i := range records {
		if status, ok := records[i].Status(); ok {
			counts[status]++
		}
	}
	return counts
}

// SortRecords stably sorts a copy of records by the single active sort field.
// Duration sorts by total seconds with missing entries as zero. Date fields
// compare as parsed instants; unparsable values order after parsable ones in
// both directions. String fields compare case-insensitively.
func SortRecords(records []models.ValuationRecord, field models.SortField, order models.SortOrder, durations map[string]models.DurationBreakdown) []models.ValuationRecord {
	sorted := append([]models.ValuationRecord(nil), records...)
	if field == "" {
		return sorted
	}
	desc := order == models.SortDesc

	less := func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		switch field {
		case models.SortByDuration:
			da := durations[a.UniqueID].TotalSeconds
			db := durations[b.UniqueID].TotalSeconds
			if da == db {
				return false
			}
			if desc {
				return da > db
			}
			return da < db
		case models.SortByCreatedAt:
			if a.CreatedAt.Equal(b.CreatedAt) {
				return false
			}
			if desc {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		case models.SortByDateTime:
			ta, okA := parseInstant(a.DateTime)
			tb, okB := parseInstant(b.DateTime)
			if okA != okB {
				return okA
			}
			if !okA || ta.Equal(tb) {
				return false
			}
			if desc {
				return ta.After(tb)
			}
			return ta.Before(tb)
		default:
			va := strings.ToLower(stringSortValue(a, field))
			vb := strings.ToLower(stringSortValue(b, field))
			if va == vb {
				return false
			}
			if desc {
				return va > vb
			}
			return va < vb
		}
	}

	sort.SliceStable(sorted, less)
	return sorted
}

func stringSortValue(record *models.ValuationRecord, field models.SortField) string {
	switch field {
	case models.SortByClientName:
		return record.ClientName
	case models.SortByCity:
		return record.City
	case models.SortByBankName:
		return record.BankName
	case models.SortByEngineerName:
		return record.EngineerName
	case models.SortByStatus:
		return record.RawStatus
	}
	return ""
}

var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseInstant(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Paginate clamps page into [1, ceil(total/pageSize)] and slices that page.
func Paginate(records []models.ValuationRecord, page, pageSize int) ([]models.ValuationRecord, int, int) {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := (len(records) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], page, totalPages
}

// NextSortState toggles the sort: selecting the active field flips the
// order, selecting a new field resets to ascending.
func NextSortState(current models.SortField, currentOrder models.SortOrder, selected models.SortField) (models.SortField, models.SortOrder) {
	if selected == current {
		if currentOrder == models.SortAsc {
			return selected, models.SortDesc
		}
		return selected, models.SortAsc
	}
	return selected, models.SortAsc
}

// ResetPageOnFilterChange returns the query with page reset to 1 whenever
// any filter differs from the previous query.
func ResetPageOnFilterChange(previous, next models.DashboardQuery) models.DashboardQuery {
	if !equalFilters(previous.Filters, next.Filters) {
		next.Page = 1
	}
	return next
}

func equalFilters(a, b models.DashboardFilters) bool {
	return equalStatusPtr(a.Status, b.Status) &&
		equalStringPtr(a.City, b.City) &&
		equalStringPtr(a.BankName, b.BankName) &&
		equalStringPtr(a.EngineerName, b.EngineerName)
}

func equalStatusPtr(a, b *models.Status) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
