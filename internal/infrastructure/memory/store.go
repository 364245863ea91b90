// Package memory implementa los puertos de persistencia en memoria del proceso.
// Las transacciones se serializan con un único cerrojo y trabajan sobre una copia del
// estado que solo se publica si la función termina sin error. La espera por el cerrojo
// está acotada: al vencer devuelve domain.ErrStoreContention.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// DefaultLockTimeout espera máxima por el cerrojo de NewStore.
const DefaultLockTimeout = 10 * time.Second

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	materials map[int64]*entity.Material
	ledger    []*entity.LedgerEntry
	batches   map[int64]*entity.Batch
	usage     []*entity.BatchMaterialUsage
	products  map[int64]*entity.Product
	prices    map[string][]*entity.DailyPrice // clave: fecha YYYY-MM-DD

	nextMaterial, nextLedger, nextBatch, nextUsage int64
}

func newState() *state {
	return &state{
		materials: make(map[int64]*entity.Material),
		batches:   make(map[int64]*entity.Batch),
		products:  make(map[int64]*entity.Product),
		prices:    make(map[string][]*entity.DailyPrice),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, m := range s.materials {
		cp := *m
		c.materials[id] = &cp
	}
	for id, b := range s.batches {
		cp := *b
		c.batches[id] = &cp
	}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for k, ps := range s.prices {
		out := make([]*entity.DailyPrice, len(ps))
		for i, p := range ps {
			cp := *p
			out[i] = &cp
		}
		c.prices[k] = out
	}
	// Los registros del historial y los consumos no se modifican una vez escritos.
	c.ledger = append([]*entity.LedgerEntry(nil), s.ledger...)
	c.usage = append([]*entity.BatchMaterialUsage(nil), s.usage...)
	c.nextMaterial, c.nextLedger, c.nextBatch, c.nextUsage = s.nextMaterial, s.nextLedger, s.nextBatch, s.nextUsage
	return c
}

type access func(fn func(st *state) error) error

// Store almacén en memoria. El valor cero no es usable; usar NewStore.
type Store struct {
	sem         chan struct{} // capacidad 1: quien lo llena tiene el estado
	lockTimeout time.Duration
	st          *state
}

// NewStore crea un almacén con el catálogo de referencias sembrado y sin materias primas.
func NewStore() *Store {
	return NewStoreWithLockTimeout(DefaultLockTimeout)
}

// NewStoreWithLockTimeout como NewStore con otra espera máxima por el cerrojo; 0 = sin límite.
func NewStoreWithLockTimeout(lockTimeout time.Duration) *Store {
	s := &Store{sem: make(chan struct{}, 1), lockTimeout: lockTimeout, st: newState()}
	for _, p := range DefaultProducts {
		cp := p
		s.st.products[cp.ID] = &cp
	}
	return s
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	default:
	}
	var expired <-chan time.Time
	if s.lockTimeout > 0 {
		timer := time.NewTimer(s.lockTimeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-expired:
		return fmt.Errorf("almacén en memoria ocupado tras %s: %w", s.lockTimeout, domain.ErrStoreContention)
	}
}

func (s *Store) release() { <-s.sem }

func (s *Store) locked(fn func(st *state) error) error {
	if err := s.acquire(context.Background()); err != nil {
		return err
	}
	defer s.release()
	return fn(s.st)
}

// Run ejecuta fn con repositorios sobre una copia del estado; la copia reemplaza al
// estado solo si fn no devuelve error. Dentro de fn no deben usarse los repositorios del
// Store (Materials(), Ledger(), ...): esperarían el cerrojo ya tomado.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	work := s.st.clone()
	direct := func(f func(st *state) error) error { return f(work) }
	if err := fn(reposFor(direct)); err != nil {
		return err
	}
	s.st = work
	return nil
}

func reposFor(do access) inventory.Repos {
	return inventory.Repos{
		Materials: &MaterialRepo{do: do},
		Ledger:    &LedgerRepo{do: do},
		Batches:   &BatchRepo{do: do},
		Usage:     &BatchUsageRepo{do: do},
		Products:  &ProductRepo{do: do},
		Prices:    &DailyPriceRepo{do: do},
	}
}

// Materials repositorio fuera de transacción.
func (s *Store) Materials() *MaterialRepo { return &MaterialRepo{do: s.locked} }

// Ledger repositorio fuera de transacción.
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{do: s.locked} }

// Batches repositorio fuera de transacción.
func (s *Store) Batches() *BatchRepo { return &BatchRepo{do: s.locked} }

// Usage repositorio fuera de transacción.
func (s *Store) Usage() *BatchUsageRepo { return &BatchUsageRepo{do: s.locked} }

// Products repositorio fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{do: s.locked} }

// Prices repositorio fuera de transacción.
func (s *Store) Prices() *DailyPriceRepo { return &DailyPriceRepo{do: s.locked} }

// Reports consultas de reportes.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{do: s.locked} }
