package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// ReplayResult resultado de reconstruir el stock desde el historial.
type ReplayResult struct {
	Stock   decimal.Decimal
	Entries int
	// BrokenAt primer registro cuya foto no encadena con el anterior; nil si todo cuadra.
	BrokenAt *entity.LedgerEntry
	Reason   string
}

// Replay recorre entries (orden cronológico) desde stock 0 y verifica que cada registro
// cumpla StockBefore == stock acumulado y StockAfter == StockBefore ± Quantity.
func Replay(entries []*entity.LedgerEntry) ReplayResult {
	res := ReplayResult{Stock: decimal.Zero}
	for _, e := range entries {
		res.Entries++
		if res.BrokenAt == nil {
			if !e.StockBefore.Equal(res.Stock) {
				res.BrokenAt = e
				res.Reason = fmt.Sprintf("stock anterior %s, esperado %s", e.StockBefore, res.Stock)
			} else if want := e.StockBefore.Add(e.SignedQuantity()); !e.StockAfter.Equal(want) {
				res.BrokenAt = e
				res.Reason = fmt.Sprintf("stock resultante %s, esperado %s", e.StockAfter, want)
			}
		}
		res.Stock = res.Stock.Add(e.SignedQuantity())
	}
	return res
}
