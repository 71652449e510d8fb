package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/alextreichler/storefront-console/internal/models"
)

type ProductClient struct{ *Client }

func NewProductClient(baseURL string, opts ...Option) *ProductClient {
	return &ProductClient{NewClient(baseURL, opts...)}
}

func (c *ProductClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/product/allProducts", "", nil)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := decodeJSON(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct posts the product. The response body is not interpreted.
func (c *ProductClient) CreateProduct(ctx context.Context, in models.ProductInput) error {
	_, err := c.do(ctx, http.MethodPost, "/api/product/create", "", in)
	return err
}

type InventoryClient struct{ *Client }

func NewInventoryClient(baseURL string, opts ...Option) *InventoryClient {
	return &InventoryClient{NewClient(baseURL, opts...)}
}

// CheckInventory asks for the stock status of codes, in order and without
// deduplication. Codes that are empty after trimming are skipped.
func (c *InventoryClient) CheckInventory(ctx context.Context, codes []string) ([]models.InventoryRecord, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/inventory", SkuQuery(codes), nil)
	if err != nil {
		return nil, err
	}
	var records []models.InventoryRecord
	if err := decodeJSON(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SkuQuery builds `skuCode=a&skuCode=b`, one parameter per code.
func SkuQuery(codes []string) string {
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		parts = append(parts, "skuCode="+EncodeComponent(code))
	}
	return strings.Join(parts, "&")
}

// componentUnescaper undoes the escapes url.QueryEscape adds beyond what
// encodeURIComponent does: '+' for space and the marks ! * ' ( ).
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%2A", "*",
	"%27", "'",
	"%28", "(",
	"%29", ")",
)

// EncodeComponent percent-encodes s the way browsers encode a URI component.
func EncodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

type OrderClient struct{ *Client }

func NewOrderClient(baseURL string, opts ...Option) *OrderClient {
	return &OrderClient{NewClient(baseURL, opts...)}
}

// CreateOrder posts the order and returns the confirmation verbatim. Services
// answer either plain text or JSON; object fields are exposed when present.
func (c *OrderClient) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderConfirmation, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/order/create", "", req)
	if err != nil {
		return nil, err
	}
	conf := &models.OrderConfirmation{Text: strings.TrimSpace(string(data))}
	var fields map[string]any
	if json.Unmarshal(data, &fields) == nil && len(fields) > 0 {
		conf.Fields = fields
	}
	return conf, nil
}

// Probe calls the actuator health endpoint; any 2xx is healthy.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/actuator/health", "", nil)
	return err
}
