package console

import (
	"context"
	"errors"
)

type Tab string

const (
	TabProducts  Tab = "products"
	TabInventory Tab = "inventory"
	TabOrders    Tab = "orders"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabProducts, TabInventory, TabOrders}

var ErrUnknownTab = errors.New("unknown tab")

func ParseTab(name string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == name {
			return t, nil
		}
	}
	return "", ErrUnknownTab
}

func (t Tab) Title() string {
	switch t {
	case TabProducts:
		return "Products"
	case TabInventory:
		return "Inventory"
	case TabOrders:
		return "Orders"
	}
	return string(t)
}

type TabController struct {
	products *ProductController
}

func NewTabController(products *ProductController) *TabController {
	return &TabController{products: products}
}

// TabResult is the outcome of activating a tab. Products is set when the
// activation refreshed the product list.
type TabResult struct {
	Active   Tab
	Products *ProductsView
}

// Activate makes name the only active tab. Activating products always
// reloads the product list so the panel never shows stale data.
func (c *TabController) Activate(ctx context.Context, name string) (TabResult, error) {
	tab, err := ParseTab(name)
	if err != nil {
		return TabResult{}, err
	}
	res := TabResult{Active: tab}
	if tab == TabProducts {
		view := c.products.List(ctx)
		res.Products = &view
	}
	return res, nil
}
