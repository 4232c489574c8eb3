package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// TokenFunc supplies the bearer credential for each request. The session
// collaborator owning authentication provides it; an empty return sends the
// request unauthenticated.
type TokenFunc func() string

// API is the full client surface against the remote catalog service. It is
// implemented by *Client and split into narrower interfaces by consumers.
type API interface {
	List(ctx context.Context, q ListQuery) (ListResponse, error)
	Create(ctx context.Context, form ProductForm) (Product, error)
	Update(ctx context.Context, id string, form ProductForm) (Product, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status Status) error
	Bulk(ctx context.Context, action BulkAction, ids []string) error
}

var _ API = (*Client)(nil)

// Client talks to the remote vendor catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     TokenFunc
}

const (
	defaultUserAgent = "stockwell/0.1"
	requestTimeout   = 10 * time.Second
	productsPath     = "/vendor/products"
)

// NewClient builds a Client for the given base address (host:port or full URL).
func NewClient(base string, token TokenFunc) (*Client, error) {
	parsed, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: parsed,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		token:     token,
	}, nil
}

// List retrieves one page of products for the query descriptor.
func (c *Client) List(ctx context.Context, q ListQuery) (ListResponse, error) {
	values := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		values.Set("search", s)
	}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.SortBy != "" {
		values.Set("sort_by", q.SortBy)
	}
	if q.SortOrder != "" {
		values.Set("sort_order", q.SortOrder)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	rel := &url.URL{Path: productsPath, RawQuery: values.Encode()}

	var payload ListResponse
	if err := c.do(ctx, http.MethodGet, rel, nil, "", &payload); err != nil {
		return ListResponse{}, err
	}
	return payload, nil
}

// Create submits a new product as a multipart request carrying the form
// fields plus any attached image files.
func (c *Client) Create(ctx context.Context, form ProductForm) (Product, error) {
	body, contentType, err := encodeProductForm(form)
	if err != nil {
		return Product{}, fmt.Errorf("encode product form: %w", err)
	}
	rel := &url.URL{Path: productsPath}

	var payload ProductResponse
	if err := c.do(ctx, http.MethodPost, rel, body, contentType, &payload); err != nil {
		return Product{}, err
	}
	return payload.Product, nil
}

// Update replaces an existing product's fields via multipart PUT.
func (c *Client) Update(ctx context.Context, id string, form ProductForm) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("product id required")
	}
	body, contentType, err := encodeProductForm(form)
	if err != nil {
		return Product{}, fmt.Errorf("encode product form: %w", err)
	}
	rel := &url.URL{Path: productsPath + "/" + id}

	var payload ProductResponse
	if err := c.do(ctx, http.MethodPut, rel, body, contentType, &payload); err != nil {
		return Product{}, err
	}
	return payload.Product, nil
}

// Delete removes a product. A 2xx response carries no required body.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("product id required")
	}
	rel := &url.URL{Path: productsPath + "/" + id}
	return c.do(ctx, http.MethodDelete, rel, nil, "", nil)
}

// SetStatus toggles a single product between active and inactive.
func (c *Client) SetStatus(ctx context.Context, id string, status Status) error {
	if id == "" {
		return fmt.Errorf("product id required")
	}
	body, err := json.Marshal(map[string]Status{"status": status})
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	rel := &url.URL{Path: productsPath + "/" + id + "/status"}
	return c.do(ctx, http.MethodPatch, rel, bytes.NewReader(body), "application/json", nil)
}

// Bulk applies one action to a set of products in a single request. The
// client never decomposes it into per-item calls.
func (c *Client) Bulk(ctx context.Context, action BulkAction, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("bulk action requires at least one product id")
	}
	body, err := json.Marshal(struct {
		Action     BulkAction `json:"action"`
		ProductIDs []string   `json:"productIds"`
	}{Action: action, ProductIDs: ids})
	if err != nil {
		return fmt.Errorf("encode bulk request: %w", err)
	}
	rel := &url.URL{Path: productsPath + "/bulk"}
	return c.do(ctx, http.MethodPost, rel, bytes.NewReader(body), "application/json", nil)
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body io.Reader, contentType string, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return &APIError{Op: opLabel(method, rel), Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Op: opLabel(method, rel), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &APIError{Op: opLabel(method, rel), StatusCode: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &APIError{Op: opLabel(method, rel), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func opLabel(method string, rel *url.URL) string {
	return method + " " + rel.Path
}

// encodeProductForm builds the multipart body shared by create and update.
// Image entries are local paths whose contents are attached as file parts.
func encodeProductForm(form ProductForm) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":        form.Name,
		"description": form.Description,
		"price":       form.Price,
		"category":    form.Category,
		"stock":       form.Stock,
		"sku":         form.SKU,
		"status":      string(form.Status),
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	for _, path := range form.Images {
		if err := attachImage(w, path); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func attachImage(w *multipart.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image %q: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	part, err := w.CreateFormFile("images", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read image %q: %w", path, err)
	}
	return nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return nil, fmt.Errorf("api base address is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", base, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
