package console

import (
	"context"
	"sync"

	"github.com/alextreichler/storefront-console/internal/models"
)

type recordedNotification struct {
	Message  string
	Severity models.Severity
}

type recorder struct {
	mu   sync.Mutex
	list []recordedNotification
}

func (r *recorder) Notify(message string, severity models.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, recordedNotification{message, severity})
}

func (r *recorder) all() []recordedNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedNotification(nil), r.list...)
}

type fakeProducts struct {
	mu        sync.Mutex
	products  []models.Product
	listErr   error
	createErr error
	listCalls int
	created   []models.ProductInput
}

func (f *fakeProducts) ListProducts(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeProducts) CreateProduct(_ context.Context, in models.ProductInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, in)
	return nil
}

type fakeInventory struct {
	records []models.InventoryRecord
	err     error
	calls   [][]string
}

func (f *fakeInventory) CheckInventory(_ context.Context, codes []string) ([]models.InventoryRecord, error) {
	f.calls = append(f.calls, codes)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeOrders struct {
	conf     *models.OrderConfirmation
	err      error
	requests []models.OrderRequest
}

func (f *fakeOrders) CreateOrder(_ context.Context, req models.OrderRequest) (*models.OrderConfirmation, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.conf, nil
}
