package handler

// --- Auth ---

type registerRequest struct {
	Username string   `json:"username" validate:"required,notblank"`
	Password string   `json:"password" validate:"required,notblank"`
	Roles    []string `json:"roles"    validate:"required,min=1"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

// --- Products ---

// productRequest is the full product body for add and change. Numeric fields
// are pointers so a missing field is told apart from zero.
type productRequest struct {
	Code        *int64   `json:"code"        validate:"required,gt=0"`
	ProductName string   `json:"productName" validate:"required,notblank"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Quantity    *int64   `json:"quantity"    validate:"required,gte=0"`
	Description string   `json:"description"`
}

// productPatchRequest carries only the fields to change. Blank strings and
// negative numbers are ignored.
type productPatchRequest struct {
	ProductName *string  `json:"productName"`
	Price       *float64 `json:"price"`
	Quantity    *int64   `json:"quantity"`
	Description *string  `json:"description"`
}

type productResponse struct {
	Code        int64   `json:"code"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Description string  `json:"description,omitempty"`
}
