package catalog

// Status is the listing state of a product.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Categories is the fixed set of categories the remote service accepts.
var Categories = []string{
	"electronics",
	"clothing",
	"home",
	"beauty",
	"sports",
	"toys",
	"books",
	"other",
}

// ValidCategory reports whether name is one of the fixed categories.
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Product mirrors a vendor product as returned by the remote catalog service.
// Views and Inquiries are server-owned counters; the client never writes them.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock"`
	SKU         string   `json:"sku,omitempty"`
	Status      Status   `json:"status"`
	Images      []string `json:"images"`
	Views       int      `json:"views"`
	Inquiries   int      `json:"inquiries"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// Pagination mirrors the paging metadata attached to a listing response.
// It is always taken verbatim from the most recent accepted response and
// never recomputed locally.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
	PerPage     int `json:"perPage"`
}

// ListResponse mirrors GET /vendor/products.
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// ProductResponse mirrors the envelope returned by create and update calls.
type ProductResponse struct {
	Product Product `json:"product"`
}

// ProductForm holds form input exactly as typed. Numeric fields stay strings
// until validation has passed; Images are local file paths attached to the
// multipart submission.
type ProductForm struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Category    string   `json:"category"`
	Stock       string   `json:"stock"`
	SKU         string   `json:"sku"`
	Status      Status   `json:"status"`
	Images      []string `json:"images"`
}

// ListQuery is the canonical query descriptor for a listing request.
type ListQuery struct {
	Search    string
	Category  string
	Status    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// BulkAction identifies a bulk operation applied to a set of products in a
// single request.
type BulkAction string

const (
	BulkActivate   BulkAction = "activate"
	BulkDeactivate BulkAction = "deactivate"
	BulkDelete     BulkAction = "delete"
)
