package clean

import (
	"strconv"

	"github.com/zeebo/xxh3"

	"cleanse/internal/model"
)

// DedupOrderItems collapses duplicate items sharing the same
// (order_id, order_item_id) business key, keeping the first occurrence so
// that relative row order is preserved and results are deterministic. Keys
// are tracked as xxh3 fingerprints of the joined key fields.
//
// Duplicates are removed before the integrity resolver runs so its summary
// counts each logical item once.
func DedupOrderItems(in []model.CleanOrderItem) ([]model.CleanOrderItem, int) {
	if len(in) == 0 {
		return in, 0
	}
	seen := make(map[uint64]struct{}, len(in))
	out := make([]model.CleanOrderItem, 0, len(in))
	for _, it := range in {
		key := xxh3.HashString(it.OrderID + "\x1f" + strconv.Itoa(it.OrderItemID))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out, len(in) - len(out)
}
