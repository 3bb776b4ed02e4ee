package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// Money and quantities go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Service struct {
	ID               int64           `json:"id" db:"id"`
	Name             string          `json:"name" db:"name"`
	Price            decimal.Decimal `json:"price" db:"price"`
	ProductsConsumed []ProductUsage  `json:"productsConsumed"`
}

// ProductUsage is one bill-of-materials line: the quantity of a product a
// service uses up each time it is performed.
type ProductUsage struct {
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  decimal.Decimal `json:"quantity" db:"quantity"`
}

type Product struct {
	ID       int64           `json:"id" db:"id"`
	Name     string          `json:"name" db:"name"`
	Supplier string          `json:"supplier" db:"supplier"`
	Cost     decimal.Decimal `json:"cost" db:"cost"`
	Stock    decimal.Decimal `json:"stock" db:"stock"`
	MinStock decimal.Decimal `json:"minStock" db:"min_stock"`
}

func (p Product) LowStock() bool {
	return p.Stock.LessThan(p.MinStock)
}

func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		LowStock bool `json:"lowStock"`
	}{
		product:  product(p),
		LowStock: p.LowStock(),
	})
}
