package clean

import "cleanse/internal/model"

var sellerNumericColumns = []NumericColumn[model.Seller]{
	{
		Name: "seller_zip_code_prefix",
		Get:  func(s *model.Seller) *float64 { return s.ZipCodePrefix },
		Set:  func(s *model.Seller, v *float64) { s.ZipCodePrefix = v },
	},
}

// Sellers normalizes city (accent-strip + uppercase) and state (uppercase)
// and imputes the zip prefix with the batch median.
func Sellers(in []model.Seller) ([]model.Seller, Stats) {
	out := make([]model.Seller, len(in))
	copy(out, in)
	for i := range out {
		out[i].City = NormalizeCity(out[i].City)
		out[i].State = UpperTrim(out[i].State)
	}
	imputed := ImputeMedian(out, sellerNumericColumns)
	return out, Stats{
		Table:   model.TableSellers,
		RowsIn:  len(in),
		RowsOut: len(out),
		Imputed: imputed,
	}
}
