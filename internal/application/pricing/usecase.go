package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	domainpricing "github.com/jhoicas/produccion-api/internal/domain/pricing"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

// PricingUseCase propuesta de precios por referencia y libro de precios diarios.
type PricingUseCase struct {
	txRunner      inventory.TxRunner
	products      repository.ProductRepository
	prices        repository.DailyPriceRepository
	reports       repository.ReportRepository
	defaultMargin decimal.Decimal
	log           *logger.Logger
}

// NewPricingUseCase construye el caso de uso. defaultMargin en porcentaje (ej. 30).
func NewPricingUseCase(
	txRunner inventory.TxRunner,
	products repository.ProductRepository,
	prices repository.DailyPriceRepository,
	reports repository.ReportRepository,
	defaultMargin decimal.Decimal,
	log *logger.Logger,
) *PricingUseCase {
	return &PricingUseCase{
		txRunner:      txRunner,
		products:      products,
		prices:        prices,
		reports:       reports,
		defaultMargin: defaultMargin,
		log:           log.Component("pricing"),
	}
}

// ResolveMargin devuelve el margen por defecto si margin es nil y valida el rango 0..500.
func (uc *PricingUseCase) ResolveMargin(margin *decimal.Decimal) (decimal.Decimal, error) {
	m := uc.defaultMargin
	if margin != nil {
		m = *margin
	}
	if m.LessThan(domainpricing.MinMargin) || m.GreaterThan(domainpricing.MaxMargin) {
		return decimal.Zero, domain.NewValidationError("margin", "debe estar entre 0 y 500")
	}
	return m, nil
}

// PriceSheet arma la propuesta del día: costo/kg histórico, precio sugerido y precio guardado.
// Las referencias sin historial de costo aparecen con costo y sugerido en 0.
func (uc *PricingUseCase) PriceSheet(ctx context.Context, date time.Time, margin *decimal.Decimal) (*dto.PriceSheetResponse, error) {
	m, err := uc.ResolveMargin(margin)
	if err != nil {
		return nil, err
	}
	date = entity.DateOnly(date)

	products, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	costs, err := uc.reports.BatchCosts(ctx)
	if err != nil {
		return nil, err
	}
	saved, err := uc.prices.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	avg := domainpricing.AverageCostPerKg(costs)
	salePrice := make(map[int64]decimal.Decimal, len(saved))
	for _, p := range saved {
		salePrice[p.ProductID] = p.SalePrice
	}

	resp := &dto.PriceSheetResponse{
		Date:   date.Format(entity.DateLayout),
		Margin: m,
		Rows:   make([]dto.PriceSheetRow, 0, len(products)),
	}
	for _, p := range products {
		cost := avg[p.ID]
		resp.Rows = append(resp.Rows, dto.PriceSheetRow{
			ProductID:      p.ID,
			ProductName:    p.Name,
			CostPerKg:      cost,
			Margin:         m,
			SuggestedPrice: domainpricing.SuggestedPrice(cost, m),
			SalePrice:      salePrice[p.ID],
		})
	}
	return resp, nil
}

// SetDailyPrices reemplaza los precios de venta del día en una sola transacción.
func (uc *PricingUseCase) SetDailyPrices(ctx context.Context, date time.Time, items []dto.DailyPriceItem, user string) error {
	if date.IsZero() {
		return domain.NewValidationError("date", "requerida")
	}
	date = entity.DateOnly(date)
	prices := make([]*entity.DailyPrice, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		if it.SalePrice.IsNegative() {
			return domain.NewValidationError("sale_price", "no puede ser negativo")
		}
		if seen[it.ProductID] {
			return domain.NewValidationError("product_id", fmt.Sprintf("producto %d repetido", it.ProductID))
		}
		seen[it.ProductID] = true
		prices = append(prices, &entity.DailyPrice{Date: date, ProductID: it.ProductID, SalePrice: it.SalePrice})
	}

	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		for _, p := range prices {
			product, err := repos.Products.GetByID(ctx, p.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("producto %d: %w", p.ProductID, domain.ErrNotFound)
			}
		}
		return repos.Prices.ReplaceDay(ctx, date, prices)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("date", date.Format(entity.DateLayout)).Int("prices", len(prices)).Str("user", user).Msg("precios del día guardados")
	return nil
}
