package model

// CreateProductRequest carries the payload for POST /products.
// Stock is a pointer so an explicit 0 still satisfies "required".
type CreateProductRequest struct {
	Name     string  `json:"name" validate:"required"`
	Unit     string  `json:"unit" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Brand    string  `json:"brand" validate:"required"`
	Stock    *int    `json:"stock" validate:"required,gte=0"`
	Status   string  `json:"status" validate:"required"`
	Image    *string `json:"image"`
}

// UpdateProductRequest carries the payload for PUT /products/:id.
// Nil fields are left untouched.
type UpdateProductRequest struct {
	Name     *string `json:"name"`
	Unit     *string `json:"unit"`
	Category *string `json:"category"`
	Brand    *string `json:"brand"`
	Stock    *int    `json:"stock" validate:"omitempty,gte=0"`
	Status   *string `json:"status"`
	Image    *string `json:"image"`
}

// ImportRow is one CSV row as read by the import handler, all columns raw text.
type ImportRow struct {
	Name     string
	Unit     string
	Category string
	Brand    string
	Stock    string
	Status   string
	Image    string
}

// DuplicateEntry reports an import row whose name collided with an existing product.
type DuplicateEntry struct {
	Name       string `json:"name"`
	ExistingID uint   `json:"existingId"`
}

// ImportResult accumulates the outcome of one import batch.
type ImportResult struct {
	Added      int              `json:"added"`
	Skipped    int              `json:"skipped"`
	Duplicates []DuplicateEntry `json:"duplicates"`
}

// Pagination is the envelope metadata returned by product listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}
