package catalog

// Product is the display model served by the remote catalog API.
// Sizes and Colors list the variant attributes a buyer picks from
// before a line item can be added to the cart.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Category    string   `json:"category,omitempty"`
}
