package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/usecase"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/infrastructure/memory"
)

func TestMaterialUseCase_RegisterYList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewMaterialUseCase(store.Materials())

	created, err := uc.Register(ctx, dto.CreateMaterialRequest{Name: "  Tripa natural "})
	require.NoError(t, err)
	assert.Equal(t, "Tripa natural", created.Name)
	assert.Equal(t, "kg", created.Unit, "unidad por defecto")
	assert.True(t, created.Stock.IsZero())
	assert.True(t, created.UnitCost.IsZero())

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMaterialUseCase_NombreDuplicado(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewMaterialUseCase(memory.NewStore().Materials())

	_, err := uc.Register(ctx, dto.CreateMaterialRequest{Name: "Pedacitos"})
	require.NoError(t, err)
	_, err = uc.Register(ctx, dto.CreateMaterialRequest{Name: "pedacitos"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestMaterialUseCase_NombreVacio(t *testing.T) {
	uc := usecase.NewMaterialUseCase(memory.NewStore().Materials())
	_, err := uc.Register(context.Background(), dto.CreateMaterialRequest{Name: "   "})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestMaterialUseCase_NoEncontrado(t *testing.T) {
	uc := usecase.NewMaterialUseCase(memory.NewStore().Materials())
	_, err := uc.GetByID(context.Background(), 42)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductUseCase_CatalogoSembrado(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "Chorizo Económico", list[0].Name)
	assert.Equal(t, "Chorizo de Cerdo", list[3].Name)
}
