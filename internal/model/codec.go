package model

import "cleanse/internal/record"

// Codecs between typed entities and storage records. Decoding is lenient the
// same way the cleaning rules are: a malformed numeric or date cell becomes a
// missing value and is left for imputation, never an error. Structural
// problems (a column absent from the whole batch) are caught separately by
// CheckColumns.

// SellerFromRecord decodes one sellers row.
func SellerFromRecord(r record.Record) Seller {
	return Seller{
		SellerID:      r.String("seller_id"),
		ZipCodePrefix: r.FloatPtr("seller_zip_code_prefix"),
		City:          r.String("seller_city"),
		State:         r.String("seller_state"),
	}
}

// Record encodes the seller for persistence.
func (s Seller) Record() record.Record {
	return record.Record{
		"seller_id":              s.SellerID,
		"seller_zip_code_prefix": s.ZipCodePrefix,
		"seller_city":            s.City,
		"seller_state":           s.State,
	}
}

// ProductFromRecord decodes one products row.
func ProductFromRecord(r record.Record) Product {
	p := Product{
		ProductID:         r.String("product_id"),
		NameLength:        r.FloatPtr("product_name_lenght"),
		DescriptionLength: r.FloatPtr("product_description_lenght"),
		PhotosQty:         r.FloatPtr("product_photos_qty"),
		WeightG:           r.FloatPtr("product_weight_g"),
		LengthCm:          r.FloatPtr("product_length_cm"),
		HeightCm:          r.FloatPtr("product_height_cm"),
		WidthCm:           r.FloatPtr("product_width_cm"),
	}
	if r.Has("product_category_name") {
		cat := r.String("product_category_name")
		p.CategoryName = &cat
	}
	return p
}

// Record encodes the product for persistence.
func (p Product) Record() record.Record {
	return record.Record{
		"product_id":                 p.ProductID,
		"product_category_name":      p.CategoryName,
		"product_name_lenght":        p.NameLength,
		"product_description_lenght": p.DescriptionLength,
		"product_photos_qty":         p.PhotosQty,
		"product_weight_g":           p.WeightG,
		"product_length_cm":          p.LengthCm,
		"product_height_cm":          p.HeightCm,
		"product_width_cm":           p.WidthCm,
	}
}

// OrderFromRecord decodes one orders row into the raw shape. Timestamp cells
// stay textual; parsing happens in the cleaning stage.
func OrderFromRecord(r record.Record) Order {
	return Order{
		OrderID:               r.String("order_id"),
		CustomerID:            r.String("customer_id"),
		Status:                r.String("order_status"),
		PurchaseTimestamp:     r.String("order_purchase_timestamp"),
		ApprovedAt:            r.String("order_approved_at"),
		DeliveredCarrierDate:  r.String("order_delivered_carrier_date"),
		DeliveredCustomerDate: r.String("order_delivered_customer_date"),
		EstimatedDeliveryDate: r.String("order_estimated_delivery_date"),
	}
}

// Record encodes the cleaned order, derived metrics included.
func (o CleanOrder) Record() record.Record {
	return record.Record{
		"order_id":                      o.OrderID,
		"customer_id":                   o.CustomerID,
		"order_status":                  o.Status,
		"order_purchase_timestamp":      o.PurchaseTimestamp,
		"order_approved_at":             o.ApprovedAt,
		"order_delivered_carrier_date":  o.DeliveredCarrierDate,
		"order_delivered_customer_date": o.DeliveredCustomerDate,
		"order_estimated_delivery_date": o.EstimatedDeliveryDate,
		"delivery_days":                 o.DeliveryDays,
		"estimated_delivery_days":       o.EstimatedDeliveryDays,
		"delivery_variance_days":        o.DeliveryVarianceDays,
		"on_time":                       o.OnTime,
	}
}

// OrderItemFromRecord decodes one order_items row.
func OrderItemFromRecord(r record.Record) OrderItem {
	return OrderItem{
		OrderID:           r.String("order_id"),
		OrderItemID:       r.Int("order_item_id"),
		ProductID:         r.String("product_id"),
		SellerID:          r.String("seller_id"),
		ShippingLimitDate: r.String("shipping_limit_date"),
		Price:             r.FloatPtr("price"),
		FreightValue:      r.FloatPtr("freight_value"),
	}
}

// Record encodes the cleaned item for persistence.
func (i CleanOrderItem) Record() record.Record {
	return record.Record{
		"order_id":            i.OrderID,
		"order_item_id":       i.OrderItemID,
		"product_id":          i.ProductID,
		"seller_id":           i.SellerID,
		"shipping_limit_date": i.ShippingLimitDate,
		"price":               i.Price,
		"freight_value":       i.FreightValue,
	}
}

// SellersFromRecords decodes a whole sellers batch.
func SellersFromRecords(recs []record.Record) []Seller {
	out := make([]Seller, 0, len(recs))
	for _, r := range recs {
		out = append(out, SellerFromRecord(r))
	}
	return out
}

// ProductsFromRecords decodes a whole products batch.
func ProductsFromRecords(recs []record.Record) []Product {
	out := make([]Product, 0, len(recs))
	for _, r := range recs {
		out = append(out, ProductFromRecord(r))
	}
	return out
}

// OrdersFromRecords decodes a whole orders batch.
func OrdersFromRecords(recs []record.Record) []Order {
	out := make([]Order, 0, len(recs))
	for _, r := range recs {
		out = append(out, OrderFromRecord(r))
	}
	return out
}

// OrderItemsFromRecords decodes a whole order_items batch.
func OrderItemsFromRecords(recs []record.Record) []OrderItem {
	out := make([]OrderItem, 0, len(recs))
	for _, r := range recs {
		out = append(out, OrderItemFromRecord(r))
	}
	return out
}
