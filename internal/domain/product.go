package domain

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
	Stock    int     `json:"stock"`
}

// StockInfo is the validate-phase view of a product: just enough to decide
// whether a requested quantity can be satisfied and to name the product in
// an out-of-stock message.
type StockInfo struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}
