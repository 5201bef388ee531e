package models

// DurationBreakdown is the elapsed time a record has spent since creation,
// decomposed for display. TotalSeconds is the undecomposed value used for
// sorting. Negative values indicate a createdAt in the future and are passed
// through as-is for upstream diagnosis.
type DurationBreakdown struct {
	Days         int   `json:"days"`
	Hours        int   `json:"hours"`
	Minutes      int   `json:"minutes"`
	Seconds      int   `json:"seconds"`
	TotalSeconds int64 `json:"total_seconds"`
}

// DashboardFilters are the conjunctive equality filters of the merged view.
// A nil field means no constraint.
type DashboardFilters struct {
	Status       *Status `json:"status,omitempty"`
	City         *string `json:"city,omitempty"`
	BankName     *string `json:"bank_name,omitempty"`
	EngineerName *string `json:"engineer_name,omitempty"`
}

// DashboardQuery is one request against the merged view. ToggleSort, when
// set, selects the sort field statefully: re-selecting the active field flips
// the order, a new field starts ascending.
type DashboardQuery struct {
	Filters    DashboardFilters `json:"filters"`
	SortField  SortField        `json:"sort_field"`
	SortOrder  SortOrder        `json:"sort_order"`
	ToggleSort SortField        `json:"toggle_sort,omitempty"`
	Page       int              `json:"page"`
}

// DashboardPage is the presentation-facing slice of the merged view, along
// with the per-status counts over the full unfiltered set.
type DashboardPage struct {
	Records       []ValuationRecord            `json:"records"`
	Durations     map[string]DurationBreakdown `json:"durations"`
	StatusCounts  map[Status]int               `json:"status_counts"`
	Page          int                          `json:"page"`
	PageSize      int                          `json:"page_size"`
	TotalPages    int                          `json:"total_pages"`
	TotalRecords  int                          `json:"total_records"`
	FilteredTotal int                          `json:"filtered_total"`
}

// RecordPermissions reports what the acting role may do to one inspected
// record in its current state.
type RecordPermissions struct {
	CanEdit          bool     `json:"can_edit"`
	CanApprove       bool     `json:"can_approve"`
	CanRequestRework bool     `json:"can_request_rework"`
	RestrictedFields []string `json:"restricted_fields"`
}
