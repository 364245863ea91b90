package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produccion-api/internal/application/reports"
	"github.com/jhoicas/produccion-api/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler agregados de producción, consumo e historial, y exportación a Excel.
type ReportHandler struct {
	reports *reports.ReportsUseCase
	export  *reports.ExportUseCase
	loc     *time.Location
}

// NewReportHandler construye el handler. export puede ser nil.
func NewReportHandler(r *reports.ReportsUseCase, export *reports.ExportUseCase, loc *time.Location) *ReportHandler {
	return &ReportHandler{reports: r, export: export, loc: loc}
}

// DailyConsumption godoc
// @Summary      Consumo de materias primas del día
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Fecha YYYY-MM-DD (por defecto hoy)"
// @Success      200   {object}  dto.DailyConsumptionResponse
// @Router       /api/reports/daily-consumption [get]
func (h *ReportHandler) DailyConsumption(c *fiber.Ctx) error {
	date, err := queryDate(c, "date", today(h.loc))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.DailyConsumption(c.UserContext(), date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DailyProduction godoc
// @Summary      Producción del día por referencia
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Fecha YYYY-MM-DD (por defecto hoy)"
// @Success      200   {object}  dto.ProductionResponse
// @Router       /api/reports/daily-production [get]
func (h *ReportHandler) DailyProduction(c *fiber.Ctx) error {
	date, err := queryDate(c, "date", today(h.loc))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.DailyProduction(c.UserContext(), date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MonthlyProduction godoc
// @Summary      Producción del mes por referencia
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        year   query  int  false  "Año (por defecto el actual)"
// @Param        month  query  int  false  "Mes 1..12 (por defecto el actual)"
// @Success      200    {object}  dto.ProductionResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reports/monthly-production [get]
func (h *ReportHandler) MonthlyProduction(c *fiber.Ctx) error {
	now := today(h.loc)
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	out, err := h.reports.MonthlyProduction(c.UserContext(), year, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Ledger godoc
// @Summary      Historial de movimientos filtrado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  int     false  "ID de la materia prima"
// @Param        type         query  string  false  "ENTRADA | SALIDA"
// @Param        from         query  string  false  "Desde YYYY-MM-DD (inclusive)"
// @Param        to           query  string  false  "Hasta YYYY-MM-DD (inclusive)"
// @Param        limit        query  int     false  "Máximo de registros (0 = sin límite)"
// @Success      200          {object}  dto.LedgerHistoryResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/reports/ledger [get]
func (h *ReportHandler) Ledger(c *fiber.Ctx) error {
	var q reports.LedgerQuery
	if s := c.Query("material_id"); s != "" {
		id := int64(c.QueryInt("material_id", 0))
		if id <= 0 {
			return writeError(c, domain.NewValidationError("material_id", "debe ser un entero positivo"))
		}
		q.MaterialID = &id
	}
	q.Type = c.Query("type")
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &q.From}, {"to", &q.To}} {
		s := c.Query(p.name)
		if s == "" {
			continue
		}
		t, err := parseDate(p.name, s)
		if err != nil {
			return writeError(c, err)
		}
		*p.dst = &t
	}
	q.Limit = c.QueryInt("limit", 0)
	out, err := h.reports.LedgerHistory(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar inventario, producción, precios e historial a Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/reports/export.xlsx [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	if h.export == nil {
		return fiber.ErrNotFound
	}
	now := time.Now().In(h.loc)
	var buf bytes.Buffer
	if err := h.export.Export(c.UserContext(), now, &buf); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "produccion_"+now.Format("20060102_150405")+".xlsx"))
	return c.Send(buf.Bytes())
}
