package clean

import (
	"testing"

	"cleanse/internal/model"
)

func TestSellers(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	in := []model.Seller{
		{SellerID: "s1", City: "são paulo", State: " sp ", ZipCodePrefix: f(1000)},
		{SellerID: "s2", City: "ribeirão preto", State: "sp"},
		{SellerID: "s3", City: "CURITIBA", State: "PR", ZipCodePrefix: f(3000)},
	}
	out, stats := Sellers(in)

	if out[0].City != "SAO PAULO" || out[0].State != "SP" {
		t.Errorf("row 0 = %q/%q, want SAO PAULO/SP", out[0].City, out[0].State)
	}
	if out[1].City != "RIBEIRAO PRETO" {
		t.Errorf("row 1 city = %q, want RIBEIRAO PRETO", out[1].City)
	}
	if out[1].ZipCodePrefix == nil || *out[1].ZipCodePrefix != 2000 {
		t.Errorf("row 1 zip = %v, want median 2000", out[1].ZipCodePrefix)
	}
	if stats.Table != model.TableSellers || stats.RowsIn != 3 || stats.RowsOut != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Imputed["seller_zip_code_prefix"] != 1 {
		t.Errorf("imputed = %v, want one zip", stats.Imputed)
	}

	// Input batch stays untouched.
	if in[0].City != "são paulo" || in[1].ZipCodePrefix != nil {
		t.Error("input batch was mutated")
	}
}

func TestSellersIdempotent(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	in := []model.Seller{
		{SellerID: "s1", City: "são paulo", State: "sp"},
		{SellerID: "s2", City: "campinas", State: "sp", ZipCodePrefix: f(13000)},
	}
	once, _ := Sellers(in)
	twice, stats := Sellers(once)
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("row %d changed on second pass: %+v vs %+v", i, once[i], twice[i])
		}
	}
	if len(stats.Imputed) != 0 {
		t.Errorf("second pass imputed %v, want nothing", stats.Imputed)
	}
}

func TestProducts(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	s := func(v string) *string { return &v }
	in := []model.Product{
		{ProductID: "p1", CategoryName: s("Cama Mesa Banho"), WeightG: f(100)},
		{ProductID: "p2", CategoryName: s("cama_mesa_banho"), WeightG: f(300)},
		{ProductID: "p3", CategoryName: s("esporte lazer")},
		{ProductID: "p4"},
		{ProductID: "p5", CategoryName: s("  ")},
	}
	out, stats := Products(in)

	if *out[0].CategoryName != "cama_mesa_banho" {
		t.Errorf("row 0 category = %q", *out[0].CategoryName)
	}
	if *out[2].CategoryName != "esporte_lazer" {
		t.Errorf("row 2 category = %q", *out[2].CategoryName)
	}
	// Missing and blank categories take the batch mode.
	if *out[3].CategoryName != "cama_mesa_banho" || *out[4].CategoryName != "cama_mesa_banho" {
		t.Errorf("imputed categories = %q, %q, want mode", *out[3].CategoryName, *out[4].CategoryName)
	}
	if stats.Imputed["product_category_name"] != 2 {
		t.Errorf("category imputed = %d, want 2", stats.Imputed["product_category_name"])
	}
	// Weight median of {100, 300} fills the missing rows.
	if out[2].WeightG == nil || *out[2].WeightG != 200 {
		t.Errorf("row 2 weight = %v, want 200", out[2].WeightG)
	}
}

func TestProductsCategoryFallback(t *testing.T) {
	in := []model.Product{{ProductID: "p1"}, {ProductID: "p2"}}
	out, _ := Products(in)
	for i, p := range out {
		if p.CategoryName == nil || *p.CategoryName != CategoryFallback {
			t.Errorf("row %d category = %v, want %q", i, p.CategoryName, CategoryFallback)
		}
	}
}

func TestOrderItems(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	in := []model.OrderItem{
		{OrderID: "o1", OrderItemID: 1, ProductID: "p1", SellerID: "s1", ShippingLimitDate: "2024-05-01 12:00:00", Price: f(10), FreightValue: f(2)},
		{OrderID: "o2", OrderItemID: 1, ProductID: "p2", SellerID: "s2", ShippingLimitDate: "2024-05-01 12:00:00", Price: f(30)},
		{OrderID: "o3", OrderItemID: 1, ProductID: "p3", SellerID: "s3", ShippingLimitDate: "bogus", FreightValue: f(4)},
	}
	out, stats := OrderItems(in)

	if out[0].ShippingLimitDate == nil {
		t.Fatal("row 0 shipping date not parsed")
	}
	// The unparseable date takes the batch mode.
	if out[2].ShippingLimitDate == nil || !out[2].ShippingLimitDate.Equal(*out[0].ShippingLimitDate) {
		t.Errorf("row 2 shipping date = %v, want batch mode", out[2].ShippingLimitDate)
	}
	if stats.Imputed["shipping_limit_date"] != 1 {
		t.Errorf("shipping imputed = %d, want 1", stats.Imputed["shipping_limit_date"])
	}
	// Price median of {10, 30} = 20; freight median of {2, 4} = 3.
	if out[2].Price == nil || *out[2].Price != 20 {
		t.Errorf("row 2 price = %v, want 20", out[2].Price)
	}
	if out[1].FreightValue == nil || *out[1].FreightValue != 3 {
		t.Errorf("row 1 freight = %v, want 3", out[1].FreightValue)
	}
}

func TestDedupOrderItems(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	in := []model.CleanOrderItem{
		{OrderID: "o1", OrderItemID: 1, Price: f(10)},
		{OrderID: "o1", OrderItemID: 2},
		{OrderID: "o1", OrderItemID: 1, Price: f(99)},
		{OrderID: "o2", OrderItemID: 1},
	}
	out, removed := DedupOrderItems(in)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	// First occurrence wins.
	if *out[0].Price != 10 {
		t.Errorf("kept price = %v, want 10 (first occurrence)", *out[0].Price)
	}
	if out[1].OrderItemID != 2 || out[2].OrderID != "o2" {
		t.Error("relative order not preserved")
	}
}

func TestDedupOrderItemsEmpty(t *testing.T) {
	out, removed := DedupOrderItems(nil)
	if len(out) != 0 || removed != 0 {
		t.Errorf("got %d rows, %d removed from empty input", len(out), removed)
	}
}
