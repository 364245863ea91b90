package dto

// ProductResponse referencia del catálogo.
type ProductResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}
