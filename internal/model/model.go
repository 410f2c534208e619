// Package model defines the four entity shapes handled by the cleaning
// pipeline, the table registry used for name-keyed dispatch, and the codecs
// that move entities across the storage boundary.
//
// Raw and cleaned shapes are distinct where cleaning adds fields (Order vs
// CleanOrder); they are related only by the cleaning functions in
// internal/clean, never by embedding.
package model

import "time"

// Table names. All name-keyed dispatch (columns, codecs, persistence) uses
// these constants.
const (
	TableSellers    = "sellers"
	TableProducts   = "products"
	TableOrders     = "orders"
	TableOrderItems = "order_items"
)

// Tables lists every known table in processing order.
func Tables() []string {
	return []string{TableSellers, TableProducts, TableOrders, TableOrderItems}
}

// Seller is one row of the sellers table. The cleaned shape is identical;
// cleaning only rewrites city/state and imputes the zip prefix.
type Seller struct {
	SellerID      string   `json:"seller_id"`
	ZipCodePrefix *float64 `json:"seller_zip_code_prefix"`
	City          string   `json:"seller_city"`
	State         string   `json:"seller_state"`
}

// Product is one row of the products table.
type Product struct {
	ProductID         string   `json:"product_id"`
	CategoryName      *string  `json:"product_category_name"`
	NameLength        *float64 `json:"product_name_lenght"`
	DescriptionLength *float64 `json:"product_description_lenght"`
	PhotosQty         *float64 `json:"product_photos_qty"`
	WeightG           *float64 `json:"product_weight_g"`
	LengthCm          *float64 `json:"product_length_cm"`
	HeightCm          *float64 `json:"product_height_cm"`
	WidthCm           *float64 `json:"product_width_cm"`
}

// Order is one raw row of the orders table. Timestamps arrive as text and
// are parsed during cleaning; unparseable values become missing, never
// errors.
type Order struct {
	OrderID               string `json:"order_id"`
	CustomerID            string `json:"customer_id"`
	Status                string `json:"order_status"`
	PurchaseTimestamp     string `json:"order_purchase_timestamp"`
	ApprovedAt            string `json:"order_approved_at"`
	DeliveredCarrierDate  string `json:"order_delivered_carrier_date"`
	DeliveredCustomerDate string `json:"order_delivered_customer_date"`
	EstimatedDeliveryDate string `json:"order_estimated_delivery_date"`
}

// CleanOrder is the cleaned orders shape: canonical status, parsed and
// backfilled timestamps, and the derived delivery metrics. Derived fields
// are nil when their inputs are missing.
type CleanOrder struct {
	OrderID               string     `json:"order_id"`
	CustomerID            string     `json:"customer_id"`
	Status                string     `json:"order_status"`
	PurchaseTimestamp     *time.Time `json:"order_purchase_timestamp"`
	ApprovedAt            *time.Time `json:"order_approved_at"`
	DeliveredCarrierDate  *time.Time `json:"order_delivered_carrier_date"`
	DeliveredCustomerDate *time.Time `json:"order_delivered_customer_date"`
	EstimatedDeliveryDate *time.Time `json:"order_estimated_delivery_date"`
	DeliveryDays          *int       `json:"delivery_days"`
	EstimatedDeliveryDays *int       `json:"estimated_delivery_days"`
	DeliveryVarianceDays  *int       `json:"delivery_variance_days"`
	OnTime                string     `json:"on_time"`
}

// OrderItem is one raw row of the order_items table.
type OrderItem struct {
	OrderID           string   `json:"order_id"`
	OrderItemID       int      `json:"order_item_id"`
	ProductID         string   `json:"product_id"`
	SellerID          string   `json:"seller_id"`
	ShippingLimitDate string   `json:"shipping_limit_date"`
	Price             *float64 `json:"price"`
	FreightValue      *float64 `json:"freight_value"`
}

// CleanOrderItem is the cleaned order_items shape: parsed shipping deadline
// and imputed monetary values. Foreign keys are only trustworthy after the
// integrity resolver has run.
type CleanOrderItem struct {
	OrderID           string     `json:"order_id"`
	OrderItemID       int        `json:"order_item_id"`
	ProductID         string     `json:"product_id"`
	SellerID          string     `json:"seller_id"`
	ShippingLimitDate *time.Time `json:"shipping_limit_date"`
	Price             *float64   `json:"price"`
	FreightValue      *float64   `json:"freight_value"`
}

// Datasets is one raw cleaning invocation: all four batches. Any batch may
// be empty.
type Datasets struct {
	Sellers    []Seller    `json:"sellers"`
	Products   []Product   `json:"products"`
	Orders     []Order     `json:"orders"`
	OrderItems []OrderItem `json:"order_items"`
}

// CleanDatasets is the cleaned counterpart of Datasets.
type CleanDatasets struct {
	Sellers    []Seller         `json:"sellers"`
	Products   []Product        `json:"products"`
	Orders     []CleanOrder     `json:"orders"`
	OrderItems []CleanOrderItem `json:"order_items"`
}
