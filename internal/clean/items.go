package clean

import (
	"time"

	"cleanse/internal/model"
)

var itemNumericColumns = []NumericColumn[model.CleanOrderItem]{
	{
		Name: "price",
		Get:  func(i *model.CleanOrderItem) *float64 { return i.Price },
		Set:  func(i *model.CleanOrderItem, v *float64) { i.Price = v },
	},
	{
		Name: "freight_value",
		Get:  func(i *model.CleanOrderItem) *float64 { return i.FreightValue },
		Set:  func(i *model.CleanOrderItem, v *float64) { i.FreightValue = v },
	},
}

// OrderItems parses shipping deadlines, median-fills price and freight, and
// as a last resort imputes missing deadlines with the mode of the batch's
// valid dates. Foreign references are untouched here; the integrity
// resolver owns them.
func OrderItems(in []model.OrderItem) ([]model.CleanOrderItem, Stats) {
	out := make([]model.CleanOrderItem, 0, len(in))
	validDates := make([]time.Time, 0, len(in))
	for _, it := range in {
		ci := model.CleanOrderItem{
			OrderID:           it.OrderID,
			OrderItemID:       it.OrderItemID,
			ProductID:         it.ProductID,
			SellerID:          it.SellerID,
			ShippingLimitDate: ParseTimestamp(it.ShippingLimitDate),
			Price:             it.Price,
			FreightValue:      it.FreightValue,
		}
		if ci.ShippingLimitDate != nil {
			validDates = append(validDates, *ci.ShippingLimitDate)
		}
		out = append(out, ci)
	}

	imputed := ImputeMedian(out, itemNumericColumns)
	if mode, ok := Mode(validDates); ok {
		for i := range out {
			if out[i].ShippingLimitDate == nil {
				v := mode
				out[i].ShippingLimitDate = &v
				imputed["shipping_limit_date"]++
			}
		}
	}
	return out, Stats{
		Table:   model.TableOrderItems,
		RowsIn:  len(in),
		RowsOut: len(out),
		Imputed: imputed,
	}
}
