// Package integrity resolves the foreign references of cleaned order items
// against the cleaned reference snapshots of orders, products, and sellers.
//
// Two policies exist because the source system shipped both behaviors: drop
// excludes orphaned rows, repair substitutes the offending field with the
// mode of valid identifiers. Exactly one policy runs per invocation; they
// are never mixed. Violations are always reported in the summary and never
// surface as errors.
package integrity

import (
	"fmt"

	"cleanse/internal/clean"
	"cleanse/internal/model"
)

// Policy selects how orphaned items are handled.
type Policy string

const (
	// PolicyDrop removes orphaned rows; remaining rows keep their order.
	PolicyDrop Policy = "drop"
	// PolicyRepair overwrites invalid references with the reference table's
	// mode; no rows are removed.
	PolicyRepair Policy = "repair"
)

// Valid reports whether p names a supported policy.
func (p Policy) Valid() bool { return p == PolicyDrop || p == PolicyRepair }

// Snapshot is the cleaned, read-only identifier set of one reference table,
// plus the mode used by the repair policy. Reference identifiers are unique
// within a snapshot, so the mode degenerates to the first identifier in
// table order; it is still derived through the shared first-seen mode rule
// so repair stays deterministic.
type Snapshot struct {
	ids  map[string]struct{}
	mode string
}

// NewSnapshot builds a snapshot from a reference table's identifiers in row
// order.
func NewSnapshot(ids []string) Snapshot {
	s := Snapshot{ids: make(map[string]struct{}, len(ids))}
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s.ids[id] = struct{}{}
		valid = append(valid, id)
	}
	if mode, ok := clean.Mode(valid); ok {
		s.mode = mode
	}
	return s
}

// Contains reports whether id resolves in the snapshot.
func (s Snapshot) Contains(id string) bool {
	if id == "" {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of identifiers in the snapshot.
func (s Snapshot) Len() int { return len(s.ids) }

// Summary reports one resolver run. Per-field counts track violations; a
// row violating two references counts once per violated field but is
// dropped only once.
type Summary struct {
	Policy            Policy            `json:"policy"`
	RowsIn            int               `json:"rows_in"`
	RowsOut           int               `json:"rows_out"`
	OrderViolations   int               `json:"order_id_violations"`
	ProductViolations int               `json:"product_id_violations"`
	SellerViolations  int               `json:"seller_id_violations"`
	Repaired          map[string]int    `json:"repaired,omitempty"`
	RepairValues      map[string]string `json:"repair_values,omitempty"`
}

// RowsAffected returns the number of rows removed (drop) or touched
// (repair).
func (s Summary) RowsAffected() int {
	if s.Policy == PolicyDrop {
		return s.RowsIn - s.RowsOut
	}
	n := 0
	for _, c := range s.Repaired {
		n += c
	}
	return n
}

func (s Summary) String() string {
	return fmt.Sprintf("policy=%s in=%d out=%d violations(order=%d product=%d seller=%d)",
		s.Policy, s.RowsIn, s.RowsOut,
		s.OrderViolations, s.ProductViolations, s.SellerViolations)
}

// Resolve checks every item's three references against the snapshots and
// applies the policy. The input slice is never mutated.
func Resolve(items []model.CleanOrderItem, orders, products, sellers Snapshot, policy Policy) ([]model.CleanOrderItem, Summary) {
	sum := Summary{Policy: policy, RowsIn: len(items)}
	if policy == PolicyRepair {
		sum.Repaired = make(map[string]int)
		sum.RepairValues = make(map[string]string)
		if orders.mode != "" {
			sum.RepairValues["order_id"] = orders.mode
		}
		if products.mode != "" {
			sum.RepairValues["product_id"] = products.mode
		}
		if sellers.mode != "" {
			sum.RepairValues["seller_id"] = sellers.mode
		}
	}

	out := make([]model.CleanOrderItem, 0, len(items))
	for _, it := range items {
		badOrder := !orders.Contains(it.OrderID)
		badProduct := !products.Contains(it.ProductID)
		badSeller := !sellers.Contains(it.SellerID)
		if badOrder {
			sum.OrderViolations++
		}
		if badProduct {
			sum.ProductViolations++
		}
		if badSeller {
			sum.SellerViolations++
		}

		switch policy {
		case PolicyRepair:
			// Repair only the offending field. An empty reference table has
			// no mode; the violation stays counted and the row is kept
			// unrepaired.
			if badOrder && orders.mode != "" {
				it.OrderID = orders.mode
				sum.Repaired["order_id"]++
			}
			if badProduct && products.mode != "" {
				it.ProductID = products.mode
				sum.Repaired["product_id"]++
			}
			if badSeller && sellers.mode != "" {
				it.SellerID = sellers.mode
				sum.Repaired["seller_id"]++
			}
			out = append(out, it)
		default: // PolicyDrop
			if badOrder || badProduct || badSeller {
				continue
			}
			out = append(out, it)
		}
	}
	sum.RowsOut = len(out)
	return out, sum
}
