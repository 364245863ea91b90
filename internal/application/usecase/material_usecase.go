package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// MaterialUseCase registro y consulta de materias primas. Stock y costo se manejan vía el motor de costeo.
type MaterialUseCase struct {
	repo repository.MaterialRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo}
}

// Register crea una materia prima con stock y costo en 0. Nombre repetido => domain.ErrDuplicate.
func (uc *MaterialUseCase) Register(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = entity.DefaultUnit
	}
	m := &entity.Material{Name: name, Unit: unit, Stock: decimal.Zero, UnitCost: decimal.Zero}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMaterialResponse(m)
	return &resp, nil
}

// GetByID obtiene una materia prima; domain.ErrNotFound si no existe.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id int64) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("materia prima %d: %w", id, domain.ErrNotFound)
	}
	resp := ToMaterialResponse(m)
	return &resp, nil
}

// List inventario actual de materias primas.
func (uc *MaterialUseCase) List(ctx context.Context) ([]dto.MaterialResponse, error) {
	materials, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, ToMaterialResponse(m))
	}
	return out, nil
}

// ToMaterialResponse convierte la entidad al DTO de respuesta.
func ToMaterialResponse(m *entity.Material) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:       m.ID,
		Name:     m.Name,
		Unit:     m.Unit,
		Stock:    m.Stock,
		UnitCost: m.UnitCost,
		Value:    m.Value(),
	}
}
