package grid

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/selector"
)

// Result is a generated grid plus the bookkeeping the caller needs to commit it.
type Result struct {
	Grid domain.PrizeGrid
	// UsedCodes lists selected codes in first-selection order.
	UsedCodes []string
	Gaps      []domain.PrizeCell
}

// TotalCost is the pre-correction grid cost.
func (r Result) TotalCost() decimal.Decimal {
	return r.Grid.TotalCost
}

// Generate fills every template cell by calling the selector with a derived
// cell seed. Traversal is rank-major and round-minor. Cells with no eligible
// entry become gap sentinels and the run continues.
//
// The snapshot is never mutated. Remaining quantity is tracked on a private
// copy so an entry is never chosen more times than it has stock, even when
// duplicates are allowed.
func Generate(tpl Template, evt domain.EventContext, params domain.EconomicParameters, snapshot []domain.CatalogEntry) Result {
	remaining := make([]domain.CatalogEntry, len(snapshot))
	copy(remaining, snapshot)
	index := make(map[string]int, len(remaining))
	for i, e := range remaining {
		index[e.Code] = i
	}

	used := make(map[string]struct{})
	seen := make(map[string]struct{})
	res := Result{
		Grid: domain.PrizeGrid{
			Cells:     make([][]domain.PrizeCell, len(tpl)),
			TotalCost: decimal.Zero,
		},
	}

	for r, row := range tpl {
		cells := make([]domain.PrizeCell, len(row))
		for c, tier := range row {
			rank, round := r+1, c+1
			cell := domain.PrizeCell{Rank: rank, Round: round, Tier: tier}

			picked, ok := selector.SelectOne(tier, CellSeed(evt.Seed, rank, round), used, remaining, params)
			if !ok {
				cell.Gap = true
				cell.Code = domain.GapCode
				cell.UnitCost = decimal.Zero
				res.Gaps = append(res.Gaps, cell)
				cells[c] = cell
				continue
			}

			cell.Code = picked.Code
			cell.Name = picked.Name
			cell.UnitCost = picked.UnitCost
			res.Grid.TotalCost = res.Grid.TotalCost.Add(picked.UnitCost)
			remaining[index[picked.Code]].Quantity--

			if _, ok := seen[picked.Code]; !ok {
				seen[picked.Code] = struct{}{}
				res.UsedCodes = append(res.UsedCodes, picked.Code)
			}
			if !params.AllowDuplicates {
				used[picked.Code] = struct{}{}
			}
			cells[c] = cell
		}
		res.Grid.Cells[r] = cells
	}

	return res
}
