package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/application/production"
	"github.com/jhoicas/produccion-api/internal/application/usecase"
)

// MaterialHandler maneja materias primas: registro, consulta, recepciones y auditoría.
type MaterialHandler struct {
	materials *usecase.MaterialUseCase
	engine    *inventory.CostingEngine
	audit     *inventory.AuditUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(materials *usecase.MaterialUseCase, engine *inventory.CostingEngine, audit *inventory.AuditUseCase) *MaterialHandler {
	return &MaterialHandler{materials: materials, engine: engine, audit: audit}
}

// List godoc
// @Summary      Listar materias primas con stock y costo promedio
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MaterialResponse
// @Router       /api/materials [get]
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	out, err := h.materials.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar materia prima (stock y costo inician en 0)
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "Datos de la materia prima"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.materials.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener materia prima por ID
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la materia prima"
// @Success      200  {object}  dto.MaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [get]
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.materials.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Registrar entrada de stock (recalcula el costo promedio)
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID de la materia prima"
// @Param        body  body  dto.ReceiveStockRequest    true  "Cantidad y costo unitario"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/receipts [post]
func (h *MaterialHandler) Receive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ReceiveStockRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.engine.ReceiveStock(c.UserContext(), inventory.ReceiptInput{
		MaterialID: id,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Note:       in.Note,
		User:       GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(production.ToMovementResponse(res))
}

// Audit godoc
// @Summary      Reconstruir el stock desde el historial y verificar consistencia
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la materia prima"
// @Success      200  {object}  dto.AuditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/audit [get]
func (h *MaterialHandler) Audit(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.audit.AuditMaterial(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.AuditResponse{
		MaterialID:    res.MaterialID,
		MaterialName:  res.MaterialName,
		CurrentStock:  res.CurrentStock,
		ReplayedStock: res.ReplayedStock,
		Entries:       res.Entries,
		Consistent:    res.Consistent,
		BrokenReason:  res.BrokenReason,
	}
	if res.BrokenEntry != nil {
		id := res.BrokenEntry.ID
		out.BrokenEntryID = &id
	}
	return c.JSON(out)
}
