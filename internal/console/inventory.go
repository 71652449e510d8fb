package console

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alextreichler/storefront-console/internal/models"
)

// DefaultBrowseSKUs is the sample list offered by the SKU browser.
var DefaultBrowseSKUs = []string{"iphone13_mini", "iphone13_pro_max"}

type SelectMode string

const (
	SelectReplace SelectMode = "replace"
	SelectAppend  SelectMode = "append"
)

type InventoryView struct {
	State   ViewState
	Records []models.InventoryRecord
	Error   string
}

type BrowseView struct {
	Visible bool
	State   ViewState
	Records []models.InventoryRecord
	Error   string
}

type InventoryController struct {
	svc        InventoryService
	browseSKUs []string
	selectMode SelectMode
}

func NewInventoryController(svc InventoryService, browseSKUs []string, mode SelectMode) *InventoryController {
	if len(browseSKUs) == 0 {
		browseSKUs = DefaultBrowseSKUs
	}
	if mode == "" {
		mode = SelectReplace
	}
	return &InventoryController{svc: svc, browseSKUs: browseSKUs, selectMode: mode}
}

// ParseSKUCodes splits raw on commas and drops entries that are empty once
// trimmed. Order and duplicates are kept.
func ParseSKUCodes(raw string) []string {
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		if code := strings.TrimSpace(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// Check queries the codes typed into the SKU input. With no usable code it
// raises an error notification, makes no call and returns nil.
func (c *InventoryController) Check(ctx context.Context, raw string, n Notifier) *InventoryView {
	codes := ParseSKUCodes(raw)
	if len(codes) == 0 {
		n.Notify("Please enter at least one SKU code", models.SeverityError)
		return nil
	}
	view := c.Query(ctx, codes)
	return &view
}

func (c *InventoryController) Query(ctx context.Context, codes []string) InventoryView {
	records, err := c.svc.CheckInventory(ctx, codes)
	if err != nil {
		slog.Warn("Failed to check inventory", "skus", codes, "error", err)
		return InventoryView{State: failureState(err), Error: failureMessage("Unable to check inventory", err)}
	}
	if len(records) == 0 {
		return InventoryView{State: StateEmpty}
	}
	return InventoryView{State: StateLoaded, Records: records}
}

// Browse shows the SKU browser filled with the configured sample SKUs.
func (c *InventoryController) Browse(ctx context.Context) BrowseView {
	records, err := c.svc.CheckInventory(ctx, c.browseSKUs)
	if err != nil {
		slog.Warn("Failed to load SKU list", "error", err)
		return BrowseView{Visible: true, State: failureState(err), Error: failureMessage("Unable to load SKU codes", err)}
	}
	if len(records) == 0 {
		return BrowseView{Visible: true, State: StateEmpty}
	}
	return BrowseView{Visible: true, State: StateLoaded, Records: records}
}

// HideBrowse hides the SKU browser and keeps its last content.
func HideBrowse(v BrowseView) BrowseView {
	v.Visible = false
	return v
}

// Select puts sku into the SKU input and returns the new input value.
func (c *InventoryController) Select(current, sku string, n Notifier) string {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return current
	}
	next := sku
	if c.selectMode == SelectAppend && strings.TrimSpace(current) != "" {
		next = strings.TrimRight(strings.TrimSpace(current), ",") + "," + sku
	}
	n.Notify(fmt.Sprintf("SKU %q selected", sku), models.SeveritySuccess)
	return next
}
