package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alextreichler/storefront-console/internal/models"
)

var ErrNoSuchRow = errors.New("no such order row")

// OrderRow is one line of the order form, as typed.
type OrderRow struct {
	SkuCode  string
	Quantity string
	Price    string
}

// OrderForm is the ordered set of line item rows. Methods return a new form
// and never modify the receiver.
type OrderForm struct {
	Rows []OrderRow
}

// NewOrderForm returns a form with a single blank row.
func NewOrderForm() OrderForm {
	return OrderForm{Rows: []OrderRow{{}}}
}

func (f OrderForm) Clone() OrderForm {
	return OrderForm{Rows: slices.Clone(f.Rows)}
}

func (f OrderForm) AddRow() OrderForm {
	rows := make([]OrderRow, len(f.Rows), len(f.Rows)+1)
	copy(rows, f.Rows)
	return OrderForm{Rows: append(rows, OrderRow{})}
}

// RemoveRow drops the row at index. Removing the last remaining row is allowed.
func (f OrderForm) RemoveRow(index int) (OrderForm, error) {
	if index < 0 || index >= len(f.Rows) {
		return f, fmt.Errorf("%w: %d", ErrNoSuchRow, index)
	}
	return OrderForm{Rows: slices.Delete(slices.Clone(f.Rows), index, index+1)}, nil
}

type ConfirmationField struct {
	Key   string
	Value string
}

type OrderResultView struct {
	State  ViewState
	Text   string
	Fields []ConfirmationField
	Error  string
}

type OrderController struct {
	svc       OrderService
	withPrice bool
}

func NewOrderController(svc OrderService, withPrice bool) *OrderController {
	return &OrderController{svc: svc, withPrice: withPrice}
}

func (c *OrderController) WithPrice() bool { return c.withPrice }

// BuildRequest turns the rows into an order request, skipping rows whose SKU
// is blank or whose quantity is not a positive integer.
func (c *OrderController) BuildRequest(rows []OrderRow) models.OrderRequest {
	req := models.OrderRequest{OrderLineItemsList: []models.OrderLineItem{}}
	for _, row := range rows {
		sku := strings.TrimSpace(row.SkuCode)
		qty, err := strconv.Atoi(strings.TrimSpace(row.Quantity))
		if sku == "" || err != nil || qty < 1 {
			continue
		}
		item := models.OrderLineItem{SkuCode: sku, Quantity: qty}
		if c.withPrice {
			if p, err := decimal.NewFromString(strings.TrimSpace(row.Price)); err == nil {
				item.Price = &p
			}
		}
		req.OrderLineItemsList = append(req.OrderLineItemsList, item)
	}
	return req
}

// SubmitResult is the form to render after a submit and the result panel.
// Result is nil when the submit was rejected before any call was made.
type SubmitResult struct {
	Form   OrderForm
	Result *OrderResultView
}

func (c *OrderController) Submit(ctx context.Context, form OrderForm, n Notifier) SubmitResult {
	req := c.BuildRequest(form.Rows)
	if err := validate.Struct(req); err != nil {
		n.Notify("Please add at least one order item", models.SeverityError)
		return SubmitResult{Form: form}
	}

	conf, err := c.svc.CreateOrder(ctx, req)
	if err != nil {
		slog.Warn("Failed to create order", "items", len(req.OrderLineItemsList), "error", err)
		return SubmitResult{
			Form: form,
			Result: &OrderResultView{
				State: failureState(err),
				Error: failureMessage("Order failed", err),
			},
		}
	}

	n.Notify("Order placed successfully!", models.SeveritySuccess)
	return SubmitResult{
		Form: NewOrderForm(),
		Result: &OrderResultView{
			State:  StateLoaded,
			Text:   conf.Text,
			Fields: confirmationFields(conf.Fields),
		},
	}
}

func confirmationFields(fields map[string]any) []ConfirmationField {
	if len(fields) == 0 {
		return nil
	}
	out := make([]ConfirmationField, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		out = append(out, ConfirmationField{Key: k, Value: fmt.Sprint(fields[k])})
	}
	return out
}
