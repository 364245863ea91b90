// Package reports agrega consumos, producción e historial de movimientos para consulta.
package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

const timeLayout = "15:04:05"

// ReportsUseCase consultas de solo lectura. El historial se guarda en UTC; los días de
// los filtros y la fecha/hora mostradas se interpretan en loc.
type ReportsUseCase struct {
	reports repository.ReportRepository
	ledger  repository.LedgerRepository
	loc     *time.Location
}

// NewReportsUseCase construye el caso de uso. loc nil = hora local del servidor.
func NewReportsUseCase(reports repository.ReportRepository, ledger repository.LedgerRepository, loc *time.Location) *ReportsUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &ReportsUseCase{reports: reports, ledger: ledger, loc: loc}
}

// DailyConsumption materias primas consumidas por las tandas del día.
func (uc *ReportsUseCase) DailyConsumption(ctx context.Context, date time.Time) (*dto.DailyConsumptionResponse, error) {
	date = entity.DateOnly(date)
	rows, err := uc.reports.DailyConsumption(ctx, date)
	if err != nil {
		return nil, err
	}
	resp := &dto.DailyConsumptionResponse{
		Date:      date.Format(entity.DateLayout),
		Items:     make([]dto.ConsumptionRow, 0, len(rows)),
		TotalCost: decimal.Zero,
	}
	for _, r := range rows {
		resp.Items = append(resp.Items, dto.ConsumptionRow{
			MaterialID:   r.MaterialID,
			MaterialName: r.MaterialName,
			Unit:         r.Unit,
			Quantity:     r.Quantity,
			Total:        r.Total,
		})
		resp.TotalCost = resp.TotalCost.Add(r.Total)
	}
	return resp, nil
}

// DailyProduction producción por referencia del día.
func (uc *ReportsUseCase) DailyProduction(ctx context.Context, date time.Time) (*dto.ProductionResponse, error) {
	from := entity.DateOnly(date)
	return uc.production(ctx, from, from.AddDate(0, 0, 1))
}

// MonthlyProduction producción por referencia del mes.
func (uc *ReportsUseCase) MonthlyProduction(ctx context.Context, year, month int) (*dto.ProductionResponse, error) {
	if month < 1 || month > 12 {
		return nil, domain.NewValidationError("month", "debe estar entre 1 y 12")
	}
	if year < 1 {
		return nil, domain.NewValidationError("year", "inválido")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return uc.production(ctx, from, from.AddDate(0, 1, 0))
}

func (uc *ReportsUseCase) production(ctx context.Context, from, to time.Time) (*dto.ProductionResponse, error) {
	rows, err := uc.reports.ProductionSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductionResponse{
		From:       from.Format(entity.DateLayout),
		To:         to.Format(entity.DateLayout),
		Items:      make([]dto.ProductionRow, 0, len(rows)),
		TotalKilos: decimal.Zero,
	}
	for _, r := range rows {
		resp.Items = append(resp.Items, dto.ProductionRow{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Batches:     r.Batches,
			Kilos:       r.Kilos,
			Units:       r.Units,
		})
		resp.TotalBatches += r.Batches
		resp.TotalKilos = resp.TotalKilos.Add(r.Kilos)
		resp.TotalUnits += r.Units
	}
	return resp, nil
}

// LedgerQuery filtros del historial. From y To son fechas inclusivas.
type LedgerQuery struct {
	MaterialID *int64
	Type       string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// LedgerHistory historial filtrado, del más reciente al más antiguo. Los totales por tipo
// cubren todo el rango filtrado aunque Limit recorte los registros devueltos.
func (uc *ReportsUseCase) LedgerHistory(ctx context.Context, q LedgerQuery) (*dto.LedgerHistoryResponse, error) {
	f := repository.LedgerFilter{MaterialID: q.MaterialID}
	if q.Type != "" {
		t := entity.MovementType(q.Type)
		if !t.Valid() {
			return nil, domain.NewValidationError("type", "debe ser ENTRADA o SALIDA")
		}
		f.Type = t
	}
	if q.From != nil {
		from := entity.DayStart(*q.From, uc.loc)
		f.From = &from
	}
	if q.To != nil {
		to := entity.DayStart(entity.DateOnly(*q.To).AddDate(0, 0, 1), uc.loc)
		f.To = &to
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, domain.NewValidationError("from", "debe ser anterior o igual a to")
	}
	if q.Limit < 0 {
		return nil, domain.NewValidationError("limit", "no puede ser negativo")
	}

	entries, err := uc.ledger.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	page := entries
	if q.Limit > 0 && len(page) > q.Limit {
		page = page[:q.Limit]
	}
	resp := &dto.LedgerHistoryResponse{
		Items:         make([]dto.LedgerRow, 0, len(page)),
		TotalEntradas: decimal.Zero,
		TotalSalidas:  decimal.Zero,
	}
	for _, e := range page {
		resp.Items = append(resp.Items, ToLedgerRow(e, uc.loc))
	}
	for _, e := range entries {
		if e.Type == entity.MovementEntrada {
			resp.TotalEntradas = resp.TotalEntradas.Add(e.Quantity)
		} else {
			resp.TotalSalidas = resp.TotalSalidas.Add(e.Quantity)
		}
	}
	resp.Balance = resp.TotalEntradas.Sub(resp.TotalSalidas)
	return resp, nil
}

// ToLedgerRow separa fecha y hora del registro expresadas en loc.
func ToLedgerRow(e *entity.LedgerEntry, loc *time.Location) dto.LedgerRow {
	at := e.OccurredAt.In(loc)
	return dto.LedgerRow{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		Date:          at.Format(entity.DateLayout),
		Time:          at.Format(timeLayout),
		MaterialID:    e.MaterialID,
		MaterialName:  e.MaterialName,
		MovementType:  string(e.Type),
		Quantity:      e.Quantity,
		UnitCost:      e.UnitCost,
		Total:         e.Total,
		StockBefore:   e.StockBefore,
		StockAfter:    e.StockAfter,
		Reference:     e.Reference,
		BatchID:       e.BatchID,
		User:          e.User,
		Note:          e.Note,
	}
}
