// Package pipeline orchestrates the cleaning of the four tables and their
// cross-table dependency.
//
// Sellers, products, and orders clean concurrently; each branch owns its
// input copy and produces a cleaned batch plus an identifier snapshot.
// Order items block on all three snapshots before the integrity resolver
// runs. Branch failures are collected, never propagated eagerly, so one
// broken table cannot abort siblings already in flight; callers receive
// either the full cleaned dataset or a single PartialFailure naming every
// failed table.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cleanse/internal/clean"
	"cleanse/internal/integrity"
	"cleanse/internal/metrics"
	"cleanse/internal/model"
	"cleanse/internal/record"
	"cleanse/internal/storage"
)

// Pipeline wires the per-table cleaners, the integrity resolver, and the
// persistence collaborator.
type Pipeline struct {
	repo   storage.Repository
	policy integrity.Policy
	job    string
	log    *zap.SugaredLogger
}

// New constructs a Pipeline. A nil logger disables logging.
func New(repo storage.Repository, policy integrity.Policy, job string, log *zap.SugaredLogger) *Pipeline {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if !policy.Valid() {
		policy = integrity.PolicyDrop
	}
	return &Pipeline{repo: repo, policy: policy, job: job, log: log}
}

// Result summarizes one full pipeline run.
type Result struct {
	RunID             string                 `json:"run_id"`
	Datasets          model.CleanDatasets    `json:"datasets"`
	TableStats        map[string]clean.Stats `json:"table_stats"`
	Integrity         integrity.Summary      `json:"integrity"`
	DuplicatesRemoved int                    `json:"duplicates_removed"`
}

// Run cleans all four batches and persists the results. It returns the
// cleaned datasets, or a *PartialFailure naming every failed table.
func (p *Pipeline) Run(ctx context.Context, in model.Datasets) (*Result, error) {
	return p.run(ctx, in, nil)
}

// run executes the pipeline. preFailed marks tables that already failed
// before cleaning (structural column faults found at load time); their
// branches are skipped and their errors aggregated with the rest.
func (p *Pipeline) run(ctx context.Context, in model.Datasets, preFailed map[string]error) (*Result, error) {
	failures := make(map[string]error)
	for t, err := range preFailed {
		failures[t] = err
	}

	var (
		wg sync.WaitGroup

		sellersClean []model.Seller
		sellersStats clean.Stats
		sellersErr   error

		productsClean []model.Product
		productsStats clean.Stats
		productsErr   error

		ordersClean []model.CleanOrder
		ordersStats clean.Stats
		ordersErr   error
	)

	// Fan out the three independent tables. Each branch works on its own
	// copy; nothing is shared until the join point below.
	if _, skip := failures[model.TableSellers]; !skip {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sellersClean, sellersStats, sellersErr = p.cleanSellers(in.Sellers)
		}()
	} else {
		sellersErr = failures[model.TableSellers]
	}
	if _, skip := failures[model.TableProducts]; !skip {
		wg.Add(1)
		go func() {
			defer wg.Done()
			productsClean, productsStats, productsErr = p.cleanProducts(in.Products)
		}()
	} else {
		productsErr = failures[model.TableProducts]
	}
	if _, skip := failures[model.TableOrders]; !skip {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ordersClean, ordersStats, ordersErr = p.cleanOrders(in.Orders)
		}()
	} else {
		ordersErr = failures[model.TableOrders]
	}
	wg.Wait()

	if sellersErr != nil {
		failures[model.TableSellers] = sellersErr
	}
	if productsErr != nil {
		failures[model.TableProducts] = productsErr
	}
	if ordersErr != nil {
		failures[model.TableOrders] = ordersErr
	}

	// Items join point: the integrity check needs all three snapshots.
	var (
		itemsClean []model.CleanOrderItem
		itemsStats clean.Stats
		itemsSum   integrity.Summary
		dupes      int
	)
	if _, skipped := failures[model.TableOrderItems]; skipped {
		// pre-failed at load time; the error is already recorded
	} else if sellersErr != nil || productsErr != nil || ordersErr != nil {
		failures[model.TableOrderItems] = fmt.Errorf(
			"reference snapshots unavailable: upstream table cleaning failed")
	} else {
		var err error
		itemsClean, itemsStats, itemsSum, dupes, err = p.cleanItems(
			in.OrderItems,
			integrity.NewSnapshot(orderIDs(ordersClean)),
			integrity.NewSnapshot(productIDs(productsClean)),
			integrity.NewSnapshot(sellerIDs(sellersClean)),
		)
		if err != nil {
			failures[model.TableOrderItems] = err
		}
	}

	if len(failures) > 0 {
		pf := &PartialFailure{Failed: failures, Succeeded: succeededOf(failures)}
		p.log.Errorw("cleaning run failed", "failed_tables", pf.FailedTables())
		return nil, pf
	}

	// Persist each cleaned table. Writes to distinct tables are
	// independent; failures are collected the same fail-soft way.
	saves := map[string][]record.Record{
		model.TableSellers:    sellerRecords(sellersClean),
		model.TableProducts:   productRecords(productsClean),
		model.TableOrders:     orderRecords(ordersClean),
		model.TableOrderItems: itemRecords(itemsClean),
	}
	var mu sync.Mutex
	var saveWg sync.WaitGroup
	for table, recs := range saves {
		saveWg.Add(1)
		go func(table string, recs []record.Record) {
			defer saveWg.Done()
			if err := p.repo.Save(ctx, table, recs); err != nil {
				mu.Lock()
				failures[table] = fmt.Errorf("save: %w", err)
				mu.Unlock()
			}
		}(table, recs)
	}
	saveWg.Wait()
	if len(failures) > 0 {
		return nil, &PartialFailure{Failed: failures, Succeeded: succeededOf(failures)}
	}

	res := &Result{
		RunID: uuid.NewString(),
		Datasets: model.CleanDatasets{
			Sellers:    sellersClean,
			Products:   productsClean,
			Orders:     ordersClean,
			OrderItems: itemsClean,
		},
		TableStats: map[string]clean.Stats{
			model.TableSellers:    sellersStats,
			model.TableProducts:   productsStats,
			model.TableOrders:     ordersStats,
			model.TableOrderItems: itemsStats,
		},
		Integrity:         itemsSum,
		DuplicatesRemoved: dupes,
	}
	p.log.Infow("cleaning run complete",
		"run_id", res.RunID,
		"sellers", sellersStats.RowsOut,
		"products", productsStats.RowsOut,
		"orders", ordersStats.RowsOut,
		"order_items", itemsStats.RowsOut,
		"integrity", itemsSum.String(),
	)
	return res, nil
}

// RunFull loads all four tables from storage, cleans them, and saves the
// results back: the one-shot maintenance mode.
func (p *Pipeline) RunFull(ctx context.Context) (*Result, error) {
	loaded := make(map[string][]record.Record, 4)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, table := range model.Tables() {
		table := table
		g.Go(func() error {
			recs, err := p.repo.Load(gctx, table)
			if err != nil {
				return fmt.Errorf("load %s: %w", table, err)
			}
			mu.Lock()
			loaded[table] = recs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A column missing from a whole stored batch fails that table only.
	preFailed := make(map[string]error)
	for _, table := range model.Tables() {
		if err := model.CheckColumns(table, loaded[table]); err != nil {
			preFailed[table] = err
		}
	}

	in := model.Datasets{
		Sellers:    model.SellersFromRecords(loaded[model.TableSellers]),
		Products:   model.ProductsFromRecords(loaded[model.TableProducts]),
		Orders:     model.OrdersFromRecords(loaded[model.TableOrders]),
		OrderItems: model.OrderItemsFromRecords(loaded[model.TableOrderItems]),
	}
	return p.run(ctx, in, preFailed)
}

// cleanSellers is the sellers branch: validate, clean, record metrics.
func (p *Pipeline) cleanSellers(in []model.Seller) ([]model.Seller, clean.Stats, error) {
	start := time.Now()
	if err := model.ValidateSellers(in); err != nil {
		metrics.RecordStep(p.job, model.TableSellers, err, time.Since(start))
		return nil, clean.Stats{}, err
	}
	out, stats := clean.Sellers(in)
	p.recordStats(stats, start)
	return out, stats, nil
}

func (p *Pipeline) cleanProducts(in []model.Product) ([]model.Product, clean.Stats, error) {
	start := time.Now()
	if err := model.ValidateProducts(in); err != nil {
		metrics.RecordStep(p.job, model.TableProducts, err, time.Since(start))
		return nil, clean.Stats{}, err
	}
	out, stats := clean.Products(in)
	p.recordStats(stats, start)
	return out, stats, nil
}

func (p *Pipeline) cleanOrders(in []model.Order) ([]model.CleanOrder, clean.Stats, error) {
	start := time.Now()
	if err := model.ValidateOrders(in); err != nil {
		metrics.RecordStep(p.job, model.TableOrders, err, time.Since(start))
		return nil, clean.Stats{}, err
	}
	out, stats := clean.Orders(in)
	p.recordStats(stats, start)
	return out, stats, nil
}

// cleanItems is the items branch: validate, clean, de-duplicate, then
// resolve foreign references against the three snapshots.
func (p *Pipeline) cleanItems(
	in []model.OrderItem,
	orders, products, sellers integrity.Snapshot,
) ([]model.CleanOrderItem, clean.Stats, integrity.Summary, int, error) {
	start := time.Now()
	if err := model.ValidateOrderItems(in); err != nil {
		metrics.RecordStep(p.job, model.TableOrderItems, err, time.Since(start))
		return nil, clean.Stats{}, integrity.Summary{}, 0, err
	}
	cleaned, stats := clean.OrderItems(in)
	deduped, dupes := clean.DedupOrderItems(cleaned)
	resolved, sum := integrity.Resolve(deduped, orders, products, sellers, p.policy)
	stats.RowsOut = len(resolved)

	p.recordStats(stats, start)
	metrics.RecordRows(p.job, model.TableOrderItems, "duplicates_removed", int64(dupes))
	violations := sum.OrderViolations + sum.ProductViolations + sum.SellerViolations
	metrics.RecordRows(p.job, model.TableOrderItems, "integrity_violations", int64(violations))
	p.log.Infow("integrity resolved",
		"policy", sum.Policy,
		"rows_in", sum.RowsIn,
		"rows_out", sum.RowsOut,
		"order_id_violations", sum.OrderViolations,
		"product_id_violations", sum.ProductViolations,
		"seller_id_violations", sum.SellerViolations,
	)
	return resolved, stats, sum, dupes, nil
}

func (p *Pipeline) recordStats(stats clean.Stats, start time.Time) {
	metrics.RecordStep(p.job, stats.Table, nil, time.Since(start))
	metrics.RecordRows(p.job, stats.Table, "rows_in", int64(stats.RowsIn))
	metrics.RecordRows(p.job, stats.Table, "rows_out", int64(stats.RowsOut))
	imputed := 0
	for _, n := range stats.Imputed {
		imputed += n
	}
	metrics.RecordRows(p.job, stats.Table, "imputed", int64(imputed))
}

func succeededOf(failures map[string]error) []string {
	var ok []string
	for _, t := range model.Tables() {
		if _, failed := failures[t]; !failed {
			ok = append(ok, t)
		}
	}
	sort.Strings(ok)
	return ok
}

func orderIDs(orders []model.CleanOrder) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.OrderID)
	}
	return ids
}

func productIDs(products []model.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ProductID)
	}
	return ids
}

func sellerIDs(sellers []model.Seller) []string {
	ids := make([]string, 0, len(sellers))
	for _, s := range sellers {
		ids = append(ids, s.SellerID)
	}
	return ids
}

func sellerRecords(in []model.Seller) []record.Record {
	out := make([]record.Record, 0, len(in))
	for _, s := range in {
		out = append(out, s.Record())
	}
	return out
}

func productRecords(in []model.Product) []record.Record {
	out := make([]record.Record, 0, len(in))
	for _, p := range in {
		out = append(out, p.Record())
	}
	return out
}

func orderRecords(in []model.CleanOrder) []record.Record {
	out := make([]record.Record, 0, len(in))
	for _, o := range in {
		out = append(out, o.Record())
	}
	return out
}

func itemRecords(in []model.CleanOrderItem) []record.Record {
	out := make([]record.Record, 0, len(in))
	for _, i := range in {
		out = append(out, i.Record())
	}
	return out
}
