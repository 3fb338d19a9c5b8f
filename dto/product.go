package dto

type CreateProductDTO struct {
	Name           string            `json:"name" binding:"required,min=3"`
	Description    string            `json:"description" binding:"required"`
	Category       string            `json:"category" binding:"required"`
	Price          float64           `json:"price" binding:"gte=0"`
	ImageURL       string            `json:"image_url"`
	Specifications map[string]string `json:"specifications"`
	IsFeatured     bool              `json:"is_featured"`
	StockQuantity  int               `json:"stock_quantity" binding:"gte=0"`
}

type UpdateProductDTO struct {
	Name           *string            `json:"name"`
	Description    *string            `json:"description"`
	Category       *string            `json:"category"`
	Price          *float64           `json:"price"`
	ImageURL       *string            `json:"image_url"`
	Specifications *map[string]string `json:"specifications"`
	IsFeatured     *bool              `json:"is_featured"`
	StockQuantity  *int               `json:"stock_quantity"`
}
