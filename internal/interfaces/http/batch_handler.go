package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/production"
)

// BatchHandler maneja tandas de producción y sus consumos de materia prima.
type BatchHandler struct {
	batches     *production.BatchUseCase
	consumption *production.ConsumptionUseCase
	costSheets  *production.CostSheetUseCase
	loc         *time.Location
}

// NewBatchHandler construye el handler. costSheets puede ser nil (sin exportación PDF).
func NewBatchHandler(
	batches *production.BatchUseCase,
	consumption *production.ConsumptionUseCase,
	costSheets *production.CostSheetUseCase,
	loc *time.Location,
) *BatchHandler {
	return &BatchHandler{batches: batches, consumption: consumption, costSheets: costSheets, loc: loc}
}

// List godoc
// @Summary      Listar tandas de un día
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Fecha YYYY-MM-DD (por defecto hoy)"
// @Success      200   {array}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	date, err := queryDate(c, "date", today(h.loc))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.batches.ListByDate(c.UserContext(), date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar tanda
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "Datos de la tanda"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.batches.SaveBatch(c.UserContext(), production.SaveBatchInput{
		Date:             date,
		SequenceNumber:   in.SequenceNumber,
		ProductID:        in.ProductID,
		QuantityProduced: in.QuantityProduced,
		UnitCount:        in.UnitCount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener tanda por ID
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la tanda"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.batches.GetBatch(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar tanda (la fecha y los consumos no cambian)
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID de la tanda"
// @Param        body  body  dto.UpdateBatchRequest   true  "Datos a actualizar"
// @Success      200   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [put]
func (h *BatchHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateBatchRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.batches.SaveBatch(c.UserContext(), production.SaveBatchInput{
		ID:               id,
		SequenceNumber:   in.SequenceNumber,
		ProductID:        in.ProductID,
		QuantityProduced: in.QuantityProduced,
		UnitCount:        in.UnitCount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar tanda y revertir sus consumos al inventario
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la tanda"
// @Success      200  {object}  dto.DeleteBatchResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [delete]
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.batches.DeleteBatch(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListUsage godoc
// @Summary      Consumos de materia prima de la tanda con costo total y costo por kilo
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la tanda"
// @Success      200  {object}  dto.BatchUsageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/materials [get]
func (h *BatchHandler) ListUsage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.consumption.ListUsage(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AssignMaterial godoc
// @Summary      Asignar materia prima a la tanda (salida de inventario)
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID de la tanda"
// @Param        body  body  dto.AssignMaterialRequest  true  "Materia prima y cantidad"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/materials [post]
func (h *BatchHandler) AssignMaterial(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AssignMaterialRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.consumption.AssignMaterial(c.UserContext(), id, in, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(production.ToMovementResponse(res))
}

// CostSheet godoc
// @Summary      Hoja de costos de la tanda en PDF
// @Tags         batches
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la tanda"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/cost-sheet.pdf [get]
func (h *BatchHandler) CostSheet(c *fiber.Ctx) error {
	if h.costSheets == nil {
		return fiber.ErrNotFound
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	doc, filename, err := h.costSheets.CostSheet(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(doc)
}
