package domain

import "github.com/shopspring/decimal"

// Book is the catalog's view of a book: the external system of record for
// price, stock, and descriptive data. It is read-only from this service's
// perspective.
type Book struct {
	BookID        int64           `json:"book_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Image         string          `json:"image"`
	Author        string          `json:"author"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
}
