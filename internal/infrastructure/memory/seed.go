package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// DefaultProducts catálogo fijo de referencias (mismo contenido que la migración inicial).
var DefaultProducts = []entity.Product{
	{ID: 1, Name: "Chorizo Económico", Unit: entity.DefaultUnit},
	{ID: 2, Name: "Chorizo Mediano", Unit: entity.DefaultUnit},
	{ID: 3, Name: "Chorizo Grande", Unit: entity.DefaultUnit},
	{ID: 4, Name: "Chorizo de Cerdo", Unit: entity.DefaultUnit},
}

// DefaultMaterials materias primas iniciales.
var DefaultMaterials = []string{
	"T-grasa sin pelar",
	"Carne finca",
	"Pedacitos",
	"Manero",
	"Grasa pelada",
	"Barriguero",
}

// SeedMaterials registra DefaultMaterials con stock y costo en cero.
func (s *Store) SeedMaterials(ctx context.Context) error {
	repo := s.Materials()
	for _, name := range DefaultMaterials {
		m := &entity.Material{Name: name, Unit: entity.DefaultUnit, Stock: decimal.Zero, UnitCost: decimal.Zero}
		if err := repo.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
