package clean

import "cleanse/internal/model"

// CategoryFallback is assigned when a category is missing and the batch has
// no mode to impute from.
const CategoryFallback = "indefinido"

var productNumericColumns = []NumericColumn[model.Product]{
	{
		Name: "product_name_lenght",
		Get:  func(p *model.Product) *float64 { return p.NameLength },
		Set:  func(p *model.Product, v *float64) { p.NameLength = v },
	},
	{
		Name: "product_description_lenght",
		Get:  func(p *model.Product) *float64 { return p.DescriptionLength },
		Set:  func(p *model.Product, v *float64) { p.DescriptionLength = v },
	},
	{
		Name: "product_photos_qty",
		Get:  func(p *model.Product) *float64 { return p.PhotosQty },
		Set:  func(p *model.Product, v *float64) { p.PhotosQty = v },
	},
	{
		Name: "product_weight_g",
		Get:  func(p *model.Product) *float64 { return p.WeightG },
		Set:  func(p *model.Product, v *float64) { p.WeightG = v },
	},
	{
		Name: "product_length_cm",
		Get:  func(p *model.Product) *float64 { return p.LengthCm },
		Set:  func(p *model.Product, v *float64) { p.LengthCm = v },
	},
	{
		Name: "product_height_cm",
		Get:  func(p *model.Product) *float64 { return p.HeightCm },
		Set:  func(p *model.Product, v *float64) { p.HeightCm = v },
	},
	{
		Name: "product_width_cm",
		Get:  func(p *model.Product) *float64 { return p.WidthCm },
		Set:  func(p *model.Product, v *float64) { p.WidthCm = v },
	},
}

// Products slugs category names, imputes missing categories with the batch
// mode (fallback "indefinido"), and median-fills the numeric dimension
// columns.
func Products(in []model.Product) ([]model.Product, Stats) {
	out := make([]model.Product, len(in))
	copy(out, in)

	// Slug present categories first so the mode is computed on canonical
	// values. Empty strings count as missing, same as nil.
	present := make([]string, 0, len(out))
	for i := range out {
		if out[i].CategoryName == nil {
			continue
		}
		slug := CategorySlug(*out[i].CategoryName)
		if slug == "" {
			out[i].CategoryName = nil
			continue
		}
		out[i].CategoryName = &slug
		present = append(present, slug)
	}

	fill := CategoryFallback
	if mode, ok := Mode(present); ok {
		fill = mode
	}
	imputed := make(map[string]int)
	for i := range out {
		if out[i].CategoryName == nil {
			v := fill
			out[i].CategoryName = &v
			imputed["product_category_name"]++
		}
	}

	for col, n := range ImputeMedian(out, productNumericColumns) {
		imputed[col] = n
	}
	return out, Stats{
		Table:   model.TableProducts,
		RowsIn:  len(in),
		RowsOut: len(out),
		Imputed: imputed,
	}
}
