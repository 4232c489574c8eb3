package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("127.0.0.1:8600")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != "127.0.0.1:8600" {
		t.Fatalf("host = %q, want 127.0.0.1:8600", u.Host)
	}

	u, err = parseBaseURL("https://api.example.com/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("   "); err == nil {
		t.Fatal("parseBaseURL accepted empty address")
	}
}

func TestClient_ListEncodesQueryAndAuth(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vendor/products" || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ListResponse{
			Products:   []Product{{ID: "p1", Name: "Walnut Shelf"}},
			Pagination: Pagination{CurrentPage: 2, TotalPages: 5, TotalItems: 47, PerPage: 10},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, func() string { return "tok-123" })
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	resp, err := c.List(ctx, ListQuery{
		Search:    "shelf",
		Category:  "home",
		Status:    "active",
		SortBy:    "price",
		SortOrder: "asc",
		Page:      2,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != "p1" {
		t.Fatalf("List products = %#v, want one product p1", resp.Products)
	}
	if resp.Pagination.TotalItems != 47 {
		t.Fatalf("pagination = %#v, want 47 total items", resp.Pagination)
	}
	if gotQuery.Get("search") != "shelf" ||
		gotQuery.Get("category") != "home" ||
		gotQuery.Get("status") != "active" ||
		gotQuery.Get("sort_by") != "price" ||
		gotQuery.Get("sort_order") != "asc" ||
		gotQuery.Get("page") != "2" ||
		gotQuery.Get("limit") != "10" {
		t.Fatalf("List query = %v, want all params encoded", gotQuery)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestClient_CreateSendsMultipartFieldsAndImages(t *testing.T) {
	t.Parallel()

	imgPath := filepath.Join(t.TempDir(), "front.jpg")
	if err := os.WriteFile(imgPath, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture image: %v", err)
	}

	var gotFields map[string]string
	var gotImageNames []string
	var gotImageBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vendor/products" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotFields = map[string]string{}
		for name, vals := range r.MultipartForm.Value {
			gotFields[name] = vals[0]
		}
		for _, fh := range r.MultipartForm.File["images"] {
			gotImageNames = append(gotImageNames, fh.Filename)
			f, _ := fh.Open()
			raw := make([]byte, fh.Size)
			_, _ = f.Read(raw)
			_ = f.Close()
			gotImageBody = string(raw)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ProductResponse{Product: Product{ID: "srv-9", Name: "Walnut Shelf"}})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	created, err := c.Create(context.Background(), ProductForm{
		Name:        "Walnut Shelf",
		Description: "Solid walnut wall shelf",
		Price:       "49.90",
		Category:    "home",
		Stock:       "12",
		SKU:         "WS-01",
		Status:      StatusActive,
		Images:      []string{imgPath},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != "srv-9" {
		t.Fatalf("created id = %q, want srv-9", created.ID)
	}
	if gotFields["name"] != "Walnut Shelf" ||
		gotFields["price"] != "49.90" ||
		gotFields["category"] != "home" ||
		gotFields["stock"] != "12" ||
		gotFields["sku"] != "WS-01" ||
		gotFields["status"] != "active" {
		t.Fatalf("multipart fields = %v, want form values", gotFields)
	}
	if len(gotImageNames) != 1 || gotImageNames[0] != "front.jpg" {
		t.Fatalf("image parts = %v, want [front.jpg]", gotImageNames)
	}
	if gotImageBody != "jpeg-bytes" {
		t.Fatalf("image body = %q, want file contents", gotImageBody)
	}
}

func TestClient_StatusAndBulkBodies(t *testing.T) {
	t.Parallel()

	var gotStatusBody map[string]string
	var gotBulkBody struct {
		Action     string   `json:"action"`
		ProductIDs []string `json:"productIds"`
	}
	var gotDelete bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/vendor/products/p7/status":
			_ = json.NewDecoder(r.Body).Decode(&gotStatusBody)
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == "/vendor/products/bulk":
			_ = json.NewDecoder(r.Body).Decode(&gotBulkBody)
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodDelete && r.URL.Path == "/vendor/products/p7":
			gotDelete = true
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if err := c.SetStatus(context.Background(), "p7", StatusInactive); err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if gotStatusBody["status"] != "inactive" {
		t.Fatalf("status body = %v, want inactive", gotStatusBody)
	}

	if err := c.Bulk(context.Background(), BulkActivate, []string{"p7", "p9"}); err != nil {
		t.Fatalf("Bulk returned error: %v", err)
	}
	if gotBulkBody.Action != "activate" || len(gotBulkBody.ProductIDs) != 2 {
		t.Fatalf("bulk body = %+v, want activate with two ids", gotBulkBody)
	}

	if err := c.Delete(context.Background(), "p7"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !gotDelete {
		t.Fatal("Delete request never reached the server")
	}
}

func TestClient_ErrorsCarryStatusAndOp(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/vendor/products":
			http.Error(w, "nope", http.StatusInternalServerError)
		case "/vendor/products/p1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.List(context.Background(), ListQuery{})
	apiErr, ok := IsAPIError(err)
	if !ok || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("List error = %v, want APIError with status 500", err)
	}
	if !strings.Contains(apiErr.Error(), "GET /vendor/products") {
		t.Fatalf("error op = %q, want method and path", apiErr.Error())
	}

	_, err = c.Update(context.Background(), "p1", ProductForm{Name: "x"})
	if apiErr, ok = IsAPIError(err); !ok || apiErr.StatusCode != 0 {
		t.Fatalf("Update error = %v, want transport-level APIError", err)
	}
	if !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("Update error = %v, want decode failure", err)
	}

	var busy *APIError
	if errors.As(ErrBusy, &busy) {
		t.Fatal("ErrBusy must not be an APIError")
	}
}
