package console

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alextreichler/storefront-console/internal/models"
)

type ProductsView struct {
	State    ViewState
	Products []models.Product
	Error    string
}

// ProductForm holds the raw values of the create form.
type ProductForm struct {
	Name        string
	Description string
	Price       string
}

type ProductController struct {
	svc ProductService
}

func NewProductController(svc ProductService) *ProductController {
	return &ProductController{svc: svc}
}

func (c *ProductController) List(ctx context.Context) ProductsView {
	products, err := c.svc.ListProducts(ctx)
	if err != nil {
		slog.Warn("Failed to load products", "error", err)
		return ProductsView{State: failureState(err), Error: failureMessage("Unable to load products", err)}
	}
	if len(products) == 0 {
		return ProductsView{State: StateEmpty}
	}
	return ProductsView{State: StateLoaded, Products: products}
}

// CreateResult carries the form to render after a create attempt and, when
// the create succeeded, the refreshed product list.
type CreateResult struct {
	Form     ProductForm
	Products *ProductsView
}

func (c *ProductController) Create(ctx context.Context, form ProductForm, n Notifier) CreateResult {
	in, ok := form.input()
	if !ok {
		n.Notify("All product fields are required", models.SeverityError)
		return CreateResult{Form: form}
	}

	if err := c.svc.CreateProduct(ctx, in); err != nil {
		slog.Warn("Failed to create product", "name", in.Name, "error", err)
		n.Notify(failureMessage("Error creating product", err), models.SeverityError)
		return CreateResult{Form: form}
	}

	n.Notify("Product created successfully!", models.SeveritySuccess)
	view := c.List(ctx)
	return CreateResult{Form: ProductForm{}, Products: &view}
}

// input applies required-field semantics: every field present and the price
// parses as a number.
func (f ProductForm) input() (models.ProductInput, bool) {
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil {
		return models.ProductInput{}, false
	}
	in := models.ProductInput{Name: f.Name, Description: f.Description, Price: price}
	if err := validate.Struct(in); err != nil {
		return models.ProductInput{}, false
	}
	return in, true
}

func (c *ProductController) Edit(id string, n Notifier) {
	slog.Debug("Product edit requested", "id", id)
	n.Notify("Edit product feature coming soon!", models.SeverityInfo)
}

func (c *ProductController) Delete(id string, n Notifier) {
	slog.Debug("Product delete requested", "id", id)
	n.Notify("Delete product feature coming soon!", models.SeverityInfo)
}

// FormatPrice renders a price as dollars with two decimals.
func FormatPrice(p decimal.Decimal) string {
	return "$" + p.StringFixed(2)
}
