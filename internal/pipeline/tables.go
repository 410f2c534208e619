package pipeline

import (
	"context"
	"fmt"
	"time"

	"cleanse/internal/clean"
	"cleanse/internal/integrity"
	"cleanse/internal/metrics"
	"cleanse/internal/model"
	"cleanse/internal/record"
)

// Single-table operations. Each validates, cleans, persists, and reports
// one table. Order items additionally resolve references against the
// stored copies of the other three tables.

// ProcessSellers cleans and persists a sellers batch.
func (p *Pipeline) ProcessSellers(ctx context.Context, in []model.Seller) ([]model.Seller, clean.Stats, error) {
	out, stats, err := p.cleanSellers(in)
	if err != nil {
		return nil, clean.Stats{}, err
	}
	if err := p.saveRecords(ctx, model.TableSellers, sellerRecords(out)); err != nil {
		return nil, clean.Stats{}, err
	}
	return out, stats, nil
}

// ProcessProducts cleans and persists a products batch.
func (p *Pipeline) ProcessProducts(ctx context.Context, in []model.Product) ([]model.Product, clean.Stats, error) {
	out, stats, err := p.cleanProducts(in)
	if err != nil {
		return nil, clean.Stats{}, err
	}
	if err := p.saveRecords(ctx, model.TableProducts, productRecords(out)); err != nil {
		return nil, clean.Stats{}, err
	}
	return out, stats, nil
}

// ProcessOrders cleans and persists an orders batch.
func (p *Pipeline) ProcessOrders(ctx context.Context, in []model.Order) ([]model.CleanOrder, clean.Stats, error) {
	out, stats, err := p.cleanOrders(in)
	if err != nil {
		return nil, clean.Stats{}, err
	}
	if err := p.saveRecords(ctx, model.TableOrders, orderRecords(out)); err != nil {
		return nil, clean.Stats{}, err
	}
	return out, stats, nil
}

// ItemsResult is the outcome of a single order-items run.
type ItemsResult struct {
	Items             []model.CleanOrderItem `json:"items"`
	Stats             clean.Stats            `json:"stats"`
	Integrity         integrity.Summary      `json:"integrity"`
	DuplicatesRemoved int                    `json:"duplicates_removed"`
}

// ProcessOrderItems cleans an order-items batch, resolves its references
// against the stored sellers, products, and orders tables, and persists
// the result.
func (p *Pipeline) ProcessOrderItems(ctx context.Context, in []model.OrderItem) (*ItemsResult, error) {
	orders, err := p.loadSnapshot(ctx, model.TableOrders, "order_id")
	if err != nil {
		return nil, err
	}
	products, err := p.loadSnapshot(ctx, model.TableProducts, "product_id")
	if err != nil {
		return nil, err
	}
	sellers, err := p.loadSnapshot(ctx, model.TableSellers, "seller_id")
	if err != nil {
		return nil, err
	}

	out, stats, sum, dupes, err := p.cleanItems(in, orders, products, sellers)
	if err != nil {
		return nil, err
	}
	if err := p.saveRecords(ctx, model.TableOrderItems, itemRecords(out)); err != nil {
		return nil, err
	}
	return &ItemsResult{Items: out, Stats: stats, Integrity: sum, DuplicatesRemoved: dupes}, nil
}

// loadSnapshot reads one stored table and collects the named key column
// into an identifier snapshot. An absent table yields an empty snapshot;
// every reference then counts as a violation, which is the honest answer
// when nothing has been stored yet.
func (p *Pipeline) loadSnapshot(ctx context.Context, table, key string) (integrity.Snapshot, error) {
	recs, err := p.repo.Load(ctx, table)
	if err != nil {
		return integrity.Snapshot{}, fmt.Errorf("load %s: %w", table, err)
	}
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.String(key))
	}
	return integrity.NewSnapshot(ids), nil
}

func (p *Pipeline) saveRecords(ctx context.Context, table string, recs []record.Record) error {
	start := time.Now()
	err := p.repo.Save(ctx, table, recs)
	metrics.RecordStep(p.job, table, err, time.Since(start))
	if err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}
	return nil
}
