package clean

import (
	"math"
	"strings"
	"time"

	"cleanse/internal/model"
)

// statusTable maps raw order statuses to their canonical localized form.
var statusTable = map[string]string{
	"delivered":   "entregue",
	"invoiced":    "faturado",
	"shipped":     "enviado",
	"processing":  "em processamento",
	"unavailable": "indisponível",
	"canceled":    "cancelado",
	"created":     "criado",
	"approved":    "aprovado",
}

// StatusUnknown is assigned to statuses outside the lookup table. Unknown
// rows are kept, never dropped.
const StatusUnknown = "status desconhecido"

// canonicalStatuses accepts already-canonical values so that re-cleaning
// stored data is a no-op.
var canonicalStatuses = func() map[string]struct{} {
	set := make(map[string]struct{}, len(statusTable)+1)
	for _, v := range statusTable {
		set[v] = struct{}{}
	}
	set[StatusUnknown] = struct{}{}
	return set
}()

// On-time flag values.
const (
	OnTimeYes          = "yes"
	OnTimeNo           = "no"
	OnTimeNotDelivered = "not delivered"
	// OnTimeUndetermined covers the delivered-but-no-estimate edge where no
	// variance can be computed.
	OnTimeUndetermined = "undetermined"
)

// CanonicalStatus maps a raw status onto its canonical localized value.
func CanonicalStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StatusUnknown
	}
	if canonical, ok := statusTable[s]; ok {
		return canonical
	}
	if _, ok := canonicalStatuses[s]; ok {
		return s
	}
	return StatusUnknown
}

// Orders cleans an orders batch: status canonicalization, rule-based
// timestamp backfill, and delivery metric derivation.
//
// The backfill for missing customer-delivery dates needs the batch median
// delivery duration, so the cleaner runs in two passes: the first parses
// timestamps and collects durations from rows where purchase and delivery
// are both present, the second applies per-row rules.
func Orders(in []model.Order) ([]model.CleanOrder, Stats) {
	parsed := make([]model.CleanOrder, 0, len(in))
	durations := make([]float64, 0, len(in))
	for _, o := range in {
		co := model.CleanOrder{
			OrderID:               o.OrderID,
			CustomerID:            o.CustomerID,
			Status:                CanonicalStatus(o.Status),
			PurchaseTimestamp:     ParseTimestamp(o.PurchaseTimestamp),
			ApprovedAt:            ParseTimestamp(o.ApprovedAt),
			DeliveredCarrierDate:  ParseTimestamp(o.DeliveredCarrierDate),
			DeliveredCustomerDate: ParseTimestamp(o.DeliveredCustomerDate),
			EstimatedDeliveryDate: ParseTimestamp(o.EstimatedDeliveryDate),
		}
		if co.PurchaseTimestamp != nil && co.DeliveredCustomerDate != nil {
			durations = append(durations, co.DeliveredCustomerDate.Sub(*co.PurchaseTimestamp).Hours()/24)
		}
		parsed = append(parsed, co)
	}
	medianDuration, haveMedian := Median(durations)

	imputed := make(map[string]int)
	for i := range parsed {
		backfillOrder(&parsed[i], medianDuration, haveMedian, imputed)
		deriveMetrics(&parsed[i])
	}
	return parsed, Stats{
		Table:   model.TableOrders,
		RowsIn:  len(in),
		RowsOut: len(parsed),
		Imputed: imputed,
	}
}

// backfillOrder applies the contextual backfill rules in their required
// order; each step sees the results of the previous ones.
func backfillOrder(o *model.CleanOrder, medianDays float64, haveMedian bool, imputed map[string]int) {
	// 1. Purchase from the first available later event.
	if o.PurchaseTimestamp == nil {
		switch {
		case o.ApprovedAt != nil:
			o.PurchaseTimestamp = copyTime(o.ApprovedAt)
		case o.DeliveredCarrierDate != nil:
			o.PurchaseTimestamp = copyTime(o.DeliveredCarrierDate)
		case o.DeliveredCustomerDate != nil:
			o.PurchaseTimestamp = copyTime(o.DeliveredCustomerDate)
		}
		if o.PurchaseTimestamp != nil {
			imputed["order_purchase_timestamp"]++
		}
	}

	// 2. A progressed order was necessarily approved; assume at purchase.
	if o.ApprovedAt == nil && o.PurchaseTimestamp != nil {
		switch o.Status {
		case "criado", "cancelado", "indisponível":
		default:
			o.ApprovedAt = copyTime(o.PurchaseTimestamp)
			imputed["order_approved_at"]++
		}
	}

	// 3. Shipped/delivered orders were handed to the carrier; assume at
	// approval, else purchase.
	if o.DeliveredCarrierDate == nil && (o.Status == "enviado" || o.Status == "entregue") {
		switch {
		case o.ApprovedAt != nil:
			o.DeliveredCarrierDate = copyTime(o.ApprovedAt)
		case o.PurchaseTimestamp != nil:
			o.DeliveredCarrierDate = copyTime(o.PurchaseTimestamp)
		}
		if o.DeliveredCarrierDate != nil {
			imputed["order_delivered_carrier_date"]++
		}
	}

	// 4. Delivered orders missing the delivery date get purchase plus the
	// batch median duration. Without a computable median the date stays
	// absent.
	if o.DeliveredCustomerDate == nil && o.Status == "entregue" &&
		o.PurchaseTimestamp != nil && haveMedian {
		t := o.PurchaseTimestamp.Add(time.Duration(medianDays * 24 * float64(time.Hour)))
		o.DeliveredCustomerDate = &t
		imputed["order_delivered_customer_date"]++
	}
}

// deriveMetrics computes the delivery KPIs from the (possibly backfilled)
// timestamps. Fields whose inputs are missing stay nil.
func deriveMetrics(o *model.CleanOrder) {
	if o.PurchaseTimestamp != nil {
		if o.DeliveredCustomerDate != nil {
			d := daysBetween(*o.PurchaseTimestamp, *o.DeliveredCustomerDate)
			o.DeliveryDays = &d
		}
		if o.EstimatedDeliveryDate != nil {
			d := daysBetween(*o.PurchaseTimestamp, *o.EstimatedDeliveryDate)
			o.EstimatedDeliveryDays = &d
		}
	}
	if o.DeliveryDays != nil && o.EstimatedDeliveryDays != nil {
		v := *o.DeliveryDays - *o.EstimatedDeliveryDays
		o.DeliveryVarianceDays = &v
	}

	switch {
	case o.DeliveredCustomerDate == nil:
		o.OnTime = OnTimeNotDelivered
	case o.DeliveryVarianceDays == nil:
		o.OnTime = OnTimeUndetermined
	case *o.DeliveryVarianceDays <= 0:
		o.OnTime = OnTimeYes
	default:
		o.OnTime = OnTimeNo
	}
}

// daysBetween counts whole 24-hour periods from a to b, floored toward
// negative infinity (7.9 days → 7, -0.5 days → -1).
func daysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

func copyTime(t *time.Time) *time.Time {
	v := *t
	return &v
}
