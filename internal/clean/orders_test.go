package clean

import (
	"testing"
	"time"

	"cleanse/internal/model"
)

func TestCanonicalStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"delivered", "entregue"},
		{"DELIVERED", "entregue"},
		{"  shipped ", "enviado"},
		{"invoiced", "faturado"},
		{"processing", "em processamento"},
		{"unavailable", "indisponível"},
		{"canceled", "cancelado"},
		{"created", "criado"},
		{"approved", "aprovado"},
		{"bogus", StatusUnknown},
		{"", StatusUnknown},
		// Already-canonical values survive a second pass.
		{"entregue", "entregue"},
		{"em processamento", "em processamento"},
		{StatusUnknown, StatusUnknown},
	}
	for _, tt := range tests {
		if got := CanonicalStatus(tt.in); got != tt.want {
			t.Errorf("CanonicalStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOrdersDeliveryMetrics(t *testing.T) {
	in := []model.Order{{
		OrderID:               "o1",
		Status:                "delivered",
		PurchaseTimestamp:     "2024-01-01 00:00:00",
		ApprovedAt:            "2024-01-01 02:00:00",
		DeliveredCarrierDate:  "2024-01-03 00:00:00",
		DeliveredCustomerDate: "2024-01-08 00:00:00",
		EstimatedDeliveryDate: "2024-01-10 00:00:00",
	}}
	out, stats := Orders(in)
	if len(out) != 1 {
		t.Fatalf("got %d orders, want 1", len(out))
	}
	o := out[0]
	if o.Status != "entregue" {
		t.Errorf("status = %q, want entregue", o.Status)
	}
	if o.DeliveryDays == nil || *o.DeliveryDays != 7 {
		t.Errorf("delivery_days = %v, want 7", o.DeliveryDays)
	}
	if o.EstimatedDeliveryDays == nil || *o.EstimatedDeliveryDays != 9 {
		t.Errorf("estimated_delivery_days = %v, want 9", o.EstimatedDeliveryDays)
	}
	if o.DeliveryVarianceDays == nil || *o.DeliveryVarianceDays != -2 {
		t.Errorf("delivery_variance_days = %v, want -2", o.DeliveryVarianceDays)
	}
	if o.OnTime != OnTimeYes {
		t.Errorf("on_time = %q, want %q", o.OnTime, OnTimeYes)
	}
	if stats.RowsIn != 1 || stats.RowsOut != 1 {
		t.Errorf("stats in/out = %d/%d, want 1/1", stats.RowsIn, stats.RowsOut)
	}
}

func TestOrdersLateDelivery(t *testing.T) {
	in := []model.Order{{
		OrderID:               "o1",
		Status:                "delivered",
		PurchaseTimestamp:     "2024-01-01 00:00:00",
		DeliveredCustomerDate: "2024-01-15 00:00:00",
		EstimatedDeliveryDate: "2024-01-10 00:00:00",
	}}
	out, _ := Orders(in)
	if out[0].OnTime != OnTimeNo {
		t.Errorf("on_time = %q, want %q", out[0].OnTime, OnTimeNo)
	}
	if *out[0].DeliveryVarianceDays != 5 {
		t.Errorf("variance = %d, want 5", *out[0].DeliveryVarianceDays)
	}
}

func TestOrdersNotDelivered(t *testing.T) {
	in := []model.Order{{
		OrderID:               "o1",
		Status:                "shipped",
		PurchaseTimestamp:     "2024-01-01 00:00:00",
		EstimatedDeliveryDate: "2024-01-10 00:00:00",
	}}
	out, _ := Orders(in)
	o := out[0]
	if o.OnTime != OnTimeNotDelivered {
		t.Errorf("on_time = %q, want %q", o.OnTime, OnTimeNotDelivered)
	}
	if o.DeliveryDays != nil {
		t.Errorf("delivery_days = %v, want nil", o.DeliveryDays)
	}
	if o.DeliveryVarianceDays != nil {
		t.Errorf("variance = %v, want nil", o.DeliveryVarianceDays)
	}
}

func TestOrdersDeliveredWithoutEstimate(t *testing.T) {
	in := []model.Order{{
		OrderID:               "o1",
		Status:                "delivered",
		PurchaseTimestamp:     "2024-01-01 00:00:00",
		DeliveredCustomerDate: "2024-01-05 00:00:00",
	}}
	out, _ := Orders(in)
	if out[0].OnTime != OnTimeUndetermined {
		t.Errorf("on_time = %q, want %q", out[0].OnTime, OnTimeUndetermined)
	}
}

func TestOrdersPartialDayFloorsDown(t *testing.T) {
	// 7 days and 12 hours floors to 7; a negative half day floors to -1.
	in := []model.Order{{
		OrderID:               "o1",
		Status:                "delivered",
		PurchaseTimestamp:     "2024-01-01 00:00:00",
		DeliveredCustomerDate: "2024-01-08 12:00:00",
		EstimatedDeliveryDate: "2023-12-31 12:00:00",
	}}
	out, _ := Orders(in)
	if *out[0].DeliveryDays != 7 {
		t.Errorf("delivery_days = %d, want 7", *out[0].DeliveryDays)
	}
	if *out[0].EstimatedDeliveryDays != -1 {
		t.Errorf("estimated_delivery_days = %d, want -1", *out[0].EstimatedDeliveryDays)
	}
}

func TestOrdersBackfillPurchaseFromApproval(t *testing.T) {
	in := []model.Order{{
		OrderID:    "o1",
		Status:     "approved",
		ApprovedAt: "2024-02-01 09:00:00",
	}}
	out, stats := Orders(in)
	o := out[0]
	if o.PurchaseTimestamp == nil || !o.PurchaseTimestamp.Equal(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("purchase = %v, want approval time", o.PurchaseTimestamp)
	}
	if stats.Imputed["order_purchase_timestamp"] != 1 {
		t.Errorf("imputed counts = %v", stats.Imputed)
	}
}

func TestOrdersBackfillApprovalGuard(t *testing.T) {
	in := []model.Order{
		{OrderID: "o1", Status: "created", PurchaseTimestamp: "2024-02-01 00:00:00"},
		{OrderID: "o2", Status: "canceled", PurchaseTimestamp: "2024-02-01 00:00:00"},
		{OrderID: "o3", Status: "shipped", PurchaseTimestamp: "2024-02-01 00:00:00"},
	}
	out, _ := Orders(in)
	if out[0].ApprovedAt != nil {
		t.Error("created order must not gain an approval date")
	}
	if out[1].ApprovedAt != nil {
		t.Error("canceled order must not gain an approval date")
	}
	if out[2].ApprovedAt == nil {
		t.Error("shipped order should inherit approval from purchase")
	}
}

func TestOrdersBackfillCarrierDate(t *testing.T) {
	in := []model.Order{
		{OrderID: "o1", Status: "shipped", PurchaseTimestamp: "2024-02-01 00:00:00", ApprovedAt: "2024-02-02 00:00:00"},
		{OrderID: "o2", Status: "processing", PurchaseTimestamp: "2024-02-01 00:00:00"},
	}
	out, _ := Orders(in)
	if out[0].DeliveredCarrierDate == nil || !out[0].DeliveredCarrierDate.Equal(*out[0].ApprovedAt) {
		t.Errorf("shipped order carrier date = %v, want approval time", out[0].DeliveredCarrierDate)
	}
	if out[1].DeliveredCarrierDate != nil {
		t.Error("processing order must not gain a carrier date")
	}
}

func TestOrdersBackfillDeliveryFromMedian(t *testing.T) {
	// Two complete orders establish a 10-day median; the third is delivered
	// but missing its delivery date.
	in := []model.Order{
		{OrderID: "o1", Status: "delivered", PurchaseTimestamp: "2024-01-01 00:00:00", DeliveredCustomerDate: "2024-01-11 00:00:00"},
		{OrderID: "o2", Status: "delivered", PurchaseTimestamp: "2024-02-01 00:00:00", DeliveredCustomerDate: "2024-02-11 00:00:00"},
		{OrderID: "o3", Status: "delivered", PurchaseTimestamp: "2024-03-01 00:00:00"},
	}
	out, stats := Orders(in)
	o := out[2]
	if o.DeliveredCustomerDate == nil {
		t.Fatal("delivery date not backfilled")
	}
	want := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	if !o.DeliveredCustomerDate.Equal(want) {
		t.Errorf("backfilled delivery = %v, want %v", o.DeliveredCustomerDate, want)
	}
	if stats.Imputed["order_delivered_customer_date"] != 1 {
		t.Errorf("imputed counts = %v", stats.Imputed)
	}
	if o.DeliveryDays == nil || *o.DeliveryDays != 10 {
		t.Errorf("delivery_days = %v, want 10", o.DeliveryDays)
	}
}

func TestOrdersNoMedianLeavesDeliveryMissing(t *testing.T) {
	in := []model.Order{
		{OrderID: "o1", Status: "delivered", PurchaseTimestamp: "2024-03-01 00:00:00"},
	}
	out, _ := Orders(in)
	if out[0].DeliveredCustomerDate != nil {
		t.Errorf("delivery date = %v, want nil without a batch median", out[0].DeliveredCustomerDate)
	}
	if out[0].OnTime != OnTimeNotDelivered {
		t.Errorf("on_time = %q, want %q", out[0].OnTime, OnTimeNotDelivered)
	}
}

func TestOrdersUnknownStatusKept(t *testing.T) {
	in := []model.Order{{OrderID: "o1", Status: "weird_state"}}
	out, stats := Orders(in)
	if len(out) != 1 {
		t.Fatalf("row dropped; unknown statuses must be kept")
	}
	if out[0].Status != StatusUnknown {
		t.Errorf("status = %q, want %q", out[0].Status, StatusUnknown)
	}
	if stats.RowsOut != 1 {
		t.Errorf("rows_out = %d, want 1", stats.RowsOut)
	}
}

func TestOrdersEmptyBatch(t *testing.T) {
	out, stats := Orders(nil)
	if len(out) != 0 {
		t.Errorf("got %d rows from empty batch", len(out))
	}
	if stats.RowsIn != 0 || stats.RowsOut != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}
}
