package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/pricing"
	"github.com/jhoicas/produccion-api/internal/domain"
)

// PriceHandler propuesta de precios y precios de venta diarios.
type PriceHandler struct {
	uc  *pricing.PricingUseCase
	loc *time.Location
}

// NewPriceHandler construye el handler.
func NewPriceHandler(uc *pricing.PricingUseCase, loc *time.Location) *PriceHandler {
	return &PriceHandler{uc: uc, loc: loc}
}

// Sheet godoc
// @Summary      Propuesta de precios por referencia
// @Tags         prices
// @Security     Bearer
// @Produce      json
// @Param        date    query  string  false  "Fecha YYYY-MM-DD (por defecto hoy)"
// @Param        margin  query  number  false  "Margen en porcentaje (0..500)"
// @Success      200     {object}  dto.PriceSheetResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/prices [get]
func (h *PriceHandler) Sheet(c *fiber.Ctx) error {
	date, err := queryDate(c, "date", today(h.loc))
	if err != nil {
		return writeError(c, err)
	}
	var margin *decimal.Decimal
	if s := c.Query("margin"); s != "" {
		m, err := decimal.NewFromString(s)
		if err != nil {
			return writeError(c, domain.NewValidationError("margin", "debe ser numérico"))
		}
		margin = &m
	}
	out, err := h.uc.PriceSheet(c.UserContext(), date, margin)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetDay godoc
// @Summary      Guardar precios de venta del día (reemplaza los existentes)
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        date  path  string                      true  "Fecha YYYY-MM-DD"
// @Param        body  body  dto.SetDailyPricesRequest   true  "Precios por referencia"
// @Success      200   {object}  dto.PriceSheetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/prices/{date} [put]
func (h *PriceHandler) SetDay(c *fiber.Ctx) error {
	date, err := parseDate("date", c.Params("date"))
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SetDailyPricesRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.SetDailyPrices(c.UserContext(), date, in.Prices, GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.PriceSheet(c.UserContext(), date, nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
