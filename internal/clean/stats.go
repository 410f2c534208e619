package clean

import "sort"

// Median returns the median of vals (mean of the two middle values for even
// counts). ok is false when vals is empty.
func Median(vals []float64) (m float64, ok bool) {
	if len(vals) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// Mode returns the most frequent value in vals. Frequency ties resolve to
// the first-encountered value in original order, so results are identical
// across runs for the same batch. ok is false when vals is empty.
func Mode[K comparable](vals []K) (mode K, ok bool) {
	if len(vals) == 0 {
		return mode, false
	}
	counts := make(map[K]int, len(vals))
	best := 0
	for _, v := range vals {
		counts[v]++
		// strict > keeps the first-seen winner on ties
		if counts[v] > best {
			best = counts[v]
			mode = v
		}
	}
	return mode, true
}

// NumericColumn binds a named optional numeric column to its accessor pair
// on rows of T. Per-table cleaners declare their imputable columns as a
// slice of these, which keeps the rule set a data table rather than code.
type NumericColumn[T any] struct {
	Name string
	Get  func(*T) *float64
	Set  func(*T, *float64)
}

// ImputeMedian fills every missing value of each declared column with that
// column's batch median. Columns with no present values are left missing
// entirely; there is no silent zero default. Re-running on a batch with no
// missing values changes nothing. The returned map counts imputed cells per
// column name.
func ImputeMedian[T any](rows []T, cols []NumericColumn[T]) map[string]int {
	imputed := make(map[string]int, len(cols))
	for _, col := range cols {
		present := make([]float64, 0, len(rows))
		for i := range rows {
			if v := col.Get(&rows[i]); v != nil {
				present = append(present, *v)
			}
		}
		m, ok := Median(present)
		if !ok {
			continue
		}
		for i := range rows {
			if col.Get(&rows[i]) == nil {
				v := m
				col.Set(&rows[i], &v)
				imputed[col.Name]++
			}
		}
	}
	return imputed
}

// Stats summarizes one table's cleaning pass for logs and metrics.
type Stats struct {
	Table   string         `json:"table"`
	RowsIn  int            `json:"rows_in"`
	RowsOut int            `json:"rows_out"`
	Imputed map[string]int `json:"imputed,omitempty"`
}
