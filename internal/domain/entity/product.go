package entity

// Product referencia de chorizo que se produce en tandas (catálogo fijo, sembrado por migración).
type Product struct {
	ID   int64
	Name string
	Unit string
}
