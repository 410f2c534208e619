package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// PartialFailure aggregates per-table failures from one pipeline run. It is
// only raised after every concurrent branch has resolved, so it always
// names the complete set of failed and succeeded tables; callers never see
// just the first error.
type PartialFailure struct {
	// Failed maps table name to the error that stopped its branch.
	Failed map[string]error
	// Succeeded lists tables whose branches completed.
	Succeeded []string
}

func (e *PartialFailure) Error() string {
	tables := make([]string, 0, len(e.Failed))
	for t := range e.Failed {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	parts := make([]string, 0, len(tables))
	for _, t := range tables {
		parts = append(parts, fmt.Sprintf("%s: %v", t, e.Failed[t]))
	}
	total := len(e.Failed) + len(e.Succeeded)
	return fmt.Sprintf("%d of %d tables failed: %s", len(e.Failed), total, strings.Join(parts, "; "))
}

// FailedTables returns the failed table names, sorted.
func (e *PartialFailure) FailedTables() []string {
	tables := make([]string, 0, len(e.Failed))
	for t := range e.Failed {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}
