package domain

// Product is a catalog entry offered for sale.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CartItem is one cart line. Quantity is always at least 1; a line at zero is
// removed instead.
type CartItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// DefaultCatalog is the built-in product list used when no catalog is supplied.
var DefaultCatalog = []Product{
	{ID: 1, Name: "Laptop", Price: 799.99},
	{ID: 2, Name: "Phone", Price: 599.99},
	{ID: 3, Name: "Headphones", Price: 199.99},
}
