package model

import (
	"fmt"
	"strings"

	"cleanse/internal/record"
)

// ValidationError reports record-level structural failures in one incoming
// batch. It is produced at the ingress boundary before any cleaning runs and
// is never retried.
type ValidationError struct {
	Table  string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d invalid record(s): %s",
		e.Table, len(e.Issues), strings.Join(e.Issues, "; "))
}

// ConfigurationError reports a column structurally absent from a whole batch.
// It is fatal for that table's cleaning but must not abort sibling tables.
type ConfigurationError struct {
	Table  string
	Column string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: expected column %q absent from batch", e.Table, e.Column)
}

// CheckColumns verifies that every raw column of table appears in at least
// one record of a non-empty batch. Empty batches are structurally fine.
func CheckColumns(table string, recs []record.Record) error {
	if len(recs) == 0 {
		return nil
	}
	for _, col := range RawColumns(table) {
		found := false
		for _, r := range recs {
			if _, ok := r[col]; ok {
				found = true
				break
			}
		}
		if !found {
			return &ConfigurationError{Table: table, Column: col}
		}
	}
	return nil
}

// ValidateSellers enforces the sellers batch invariant: seller_id present
// and unique within the snapshot.
func ValidateSellers(in []Seller) error {
	var issues []string
	seen := make(map[string]struct{}, len(in))
	for i, s := range in {
		switch {
		case strings.TrimSpace(s.SellerID) == "":
			issues = append(issues, fmt.Sprintf("row %d: seller_id missing", i))
		default:
			if _, dup := seen[s.SellerID]; dup {
				issues = append(issues, fmt.Sprintf("row %d: duplicate seller_id %q", i, s.SellerID))
			}
			seen[s.SellerID] = struct{}{}
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Table: TableSellers, Issues: issues}
	}
	return nil
}

// ValidateProducts enforces product_id presence and uniqueness.
func ValidateProducts(in []Product) error {
	var issues []string
	seen := make(map[string]struct{}, len(in))
	for i, p := range in {
		switch {
		case strings.TrimSpace(p.ProductID) == "":
			issues = append(issues, fmt.Sprintf("row %d: product_id missing", i))
		default:
			if _, dup := seen[p.ProductID]; dup {
				issues = append(issues, fmt.Sprintf("row %d: duplicate product_id %q", i, p.ProductID))
			}
			seen[p.ProductID] = struct{}{}
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Table: TableProducts, Issues: issues}
	}
	return nil
}

// ValidateOrders enforces order_id presence and uniqueness. Timestamps and
// status are not validated here: unparseable values become missing and the
// status table maps unknown values to an explicit sentinel.
func ValidateOrders(in []Order) error {
	var issues []string
	seen := make(map[string]struct{}, len(in))
	for i, o := range in {
		switch {
		case strings.TrimSpace(o.OrderID) == "":
			issues = append(issues, fmt.Sprintf("row %d: order_id missing", i))
		default:
			if _, dup := seen[o.OrderID]; dup {
				issues = append(issues, fmt.Sprintf("row %d: duplicate order_id %q", i, o.OrderID))
			}
			seen[o.OrderID] = struct{}{}
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Table: TableOrders, Issues: issues}
	}
	return nil
}

// ValidateOrderItems enforces only structural sanity on items: a
// non-positive sequence number is malformed. Missing or unknown foreign
// references are not validation failures; the integrity resolver handles
// them by policy.
func ValidateOrderItems(in []OrderItem) error {
	var issues []string
	for i, it := range in {
		if it.OrderItemID < 0 {
			issues = append(issues, fmt.Sprintf("row %d: negative order_item_id %d", i, it.OrderItemID))
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Table: TableOrderItems, Issues: issues}
	}
	return nil
}
