package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"inventory-service/internal/core/domain"
	output "inventory-service/internal/core/ports/output"
)

const (
	DefaultReorderDays     = 14
	DefaultReorderCoverage = 7
	MaxReorderDays         = 36500
)

// ReorderService suggests purchase quantities from recent outbound demand.
type ReorderService struct {
	repo     output.ReorderRepository
	products output.ProductRepository
	cache    output.SuggestionCache
	now      func() time.Time
}

// NewReorderService creates a reorder service. cache may be nil.
func NewReorderService(repo output.ReorderRepository, products output.ProductRepository, cache output.SuggestionCache) *ReorderService {
	return &ReorderService{repo: repo, products: products, cache: cache, now: time.Now}
}

// Suggest averages OUTBOUND demand per product over the last params.Days
// and proposes the quantity needed to cover params.CoverageDays. Results
// are sorted by suggested quantity, highest first.
//
// The window starts params.Days before now, so zero or negative days see no
// demand; the divisor and reported window are at least one day.
func (s *ReorderService) Suggest(ctx context.Context, params domain.ReorderParams) ([]*domain.ReorderSuggestion, error) {
	if params.Days > MaxReorderDays {
		params.Days = MaxReorderDays
	}
	if params.Days < -MaxReorderDays {
		params.Days = -MaxReorderDays
	}

	var cacheKey string
	if s.cache != nil {
		key, err := s.cache.Key(ctx, params)
		if err != nil {
			log.WithError(err).Warn("resolve reorder suggestion cache key failed")
		} else {
			cacheKey = key
			rows, ok, err := s.cache.Get(ctx, key)
			if err != nil {
				log.WithError(err).Warn("read reorder suggestion cache failed")
			} else if ok {
				return rows, nil
			}
		}
	}

	since := s.now().AddDate(0, 0, -params.Days)
	windowDays := params.Days
	if windowDays < 1 {
		windowDays = 1
	}

	demand, err := s.repo.OutboundSince(ctx, since)
	if err != nil {
		return nil, err
	}
	onHand, err := s.repo.OnHandTotals(ctx)
	if err != nil {
		return nil, err
	}

	days := decimal.NewFromInt(int64(windowDays))
	coverage := decimal.NewFromInt(int64(params.CoverageDays))

	type pending struct {
		productID uuid.UUID
		avg       decimal.Decimal
		onHand    decimal.Decimal
		suggested decimal.Decimal
	}
	var candidates []pending
	var ids []uuid.UUID
	for pid, total := range demand {
		avg := total.Div(days).RoundBank(2)
		target := avg.Mul(coverage).RoundBank(2)
		have := onHand[pid]
		suggested := target.Sub(have)
		if suggested.LessThan(params.MinQty) || !suggested.IsPositive() {
			continue
		}
		candidates = append(candidates, pending{productID: pid, avg: avg, onHand: have, suggested: suggested})
		ids = append(ids, pid)
	}

	products := map[uuid.UUID]*domain.Product{}
	if len(ids) > 0 {
		products, err = s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	rows := make([]*domain.ReorderSuggestion, 0, len(candidates))
	for _, c := range candidates {
		row := &domain.ReorderSuggestion{
			ProductID:      c.productID,
			AvgDailyDemand: c.avg,
			OnHandTotal:    c.onHand.RoundBank(2),
			SuggestedQty:   c.suggested.RoundBank(2),
			WindowDays:     windowDays,
			CoverageDays:   params.CoverageDays,
		}
		if p, ok := products[c.productID]; ok {
			row.SKU = p.SKU
			row.Name = p.Name
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].SuggestedQty.Cmp(rows[j].SuggestedQty); c != 0 {
			return c > 0
		}
		return rows[i].SKU < rows[j].SKU
	})

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, rows); err != nil {
			log.WithError(err).Warn("write reorder suggestion cache failed")
		}
	}

	return rows, nil
}
