// Package console holds the controllers behind each region of the storefront
// console. Controllers perform at most one backend call per operation and
// return the view for the region they own; they never touch the workspace,
// the HTTP layer applies their results.
package console

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/alextreichler/storefront-console/internal/backend"
	"github.com/alextreichler/storefront-console/internal/models"
)

// Notifier receives the notifications raised by a controller operation.
type Notifier interface {
	Notify(message string, severity models.Severity)
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) error
}

type InventoryService interface {
	CheckInventory(ctx context.Context, codes []string) ([]models.InventoryRecord, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderConfirmation, error)
}

// ViewState is the rendering state of a result region.
type ViewState string

const (
	StateIdle             ViewState = "idle"
	StateLoaded           ViewState = "loaded"
	StateEmpty            ViewState = "empty"
	StateHTTPFailure      ViewState = "http_failure"
	StateTransportFailure ViewState = "transport_failure"
)

func (s ViewState) Failed() bool {
	return s == StateHTTPFailure || s == StateTransportFailure
}

var validate = validator.New()

// failureState maps a backend error onto the region state that shows it.
func failureState(err error) ViewState {
	if backend.IsHTTPError(err) {
		return StateHTTPFailure
	}
	return StateTransportFailure
}

// failureMessage is the single user-facing format for failures:
// "<subject>: <detail>", where detail is the server text for HTTP failures
// and the local error text otherwise.
func failureMessage(subject string, err error) string {
	var he *backend.HTTPError
	if errors.As(err, &he) {
		return subject + ": " + he.Error()
	}
	var te *backend.TransportError
	if errors.As(err, &te) {
		return subject + ": " + te.Err.Error()
	}
	return subject + ": " + err.Error()
}
