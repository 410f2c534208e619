package model

// columnSpec holds the per-table column layout used for name-keyed dispatch.
// stored is the full persisted layout (cleaned shape, derived fields
// included); raw is the subset every incoming batch must carry. A raw column
// missing from an entire non-empty batch is a configuration fault, not a
// per-record one.
type columnSpec struct {
	stored []string
	raw    []string
}

var tableColumns = map[string]columnSpec{
	TableSellers: {
		stored: []string{"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state"},
		raw:    []string{"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state"},
	},
	TableProducts: {
		stored: []string{
			"product_id", "product_category_name",
			"product_name_lenght", "product_description_lenght", "product_photos_qty",
			"product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm",
		},
		raw: []string{
			"product_id", "product_category_name",
			"product_name_lenght", "product_description_lenght", "product_photos_qty",
			"product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm",
		},
	},
	TableOrders: {
		stored: []string{
			"order_id", "customer_id", "order_status",
			"order_purchase_timestamp", "order_approved_at", "order_delivered_carrier_date",
			"order_delivered_customer_date", "order_estimated_delivery_date",
			"delivery_days", "estimated_delivery_days", "delivery_variance_days", "on_time",
		},
		raw: []string{
			"order_id", "customer_id", "order_status",
			"order_purchase_timestamp", "order_approved_at", "order_delivered_carrier_date",
			"order_delivered_customer_date", "order_estimated_delivery_date",
		},
	},
	TableOrderItems: {
		stored: []string{
			"order_id", "order_item_id", "product_id", "seller_id",
			"shipping_limit_date", "price", "freight_value",
		},
		raw: []string{
			"order_id", "order_item_id", "product_id", "seller_id",
			"shipping_limit_date", "price", "freight_value",
		},
	},
}

// Columns returns the persisted column layout for table, in canonical order.
// Unknown tables return nil.
func Columns(table string) []string {
	return tableColumns[table].stored
}

// RawColumns returns the columns an incoming batch of table must carry.
func RawColumns(table string) []string {
	return tableColumns[table].raw
}

// KnownTable reports whether table is one of the four handled tables.
func KnownTable(table string) bool {
	_, ok := tableColumns[table]
	return ok
}
