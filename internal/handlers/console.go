package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"github.com/alextreichler/storefront-console/internal/config"
	"github.com/alextreichler/storefront-console/internal/console"
	"github.com/alextreichler/storefront-console/internal/health"
	"github.com/alextreichler/storefront-console/internal/models"
	"github.com/alextreichler/storefront-console/internal/notify"
)

// ConsoleHandler serves the console page and every action posted from it.
// Each action calls one controller operation and renders the whole page.
type ConsoleHandler struct {
	Templates     *TemplateCache
	Workspaces    *console.WorkspaceStore
	Notifications *notify.Center
	Tabs          *console.TabController
	Products      *console.ProductController
	Inventory     *console.InventoryController
	Orders        *console.OrderController
	Health        *health.Monitor
	IDs           config.ElementIDs
}

type pageData struct {
	IDs           config.ElementIDs
	Tabs          []console.Tab
	Workspace     console.Workspace
	Notifications []models.Notification
	Now           time.Time
	Services      []health.ServiceStatus
	ShowPrice     bool
	CsrfField     template.HTML
	CsrfToken     string
}

func (h *ConsoleHandler) render(w http.ResponseWriter, r *http.Request, ws console.Workspace) {
	data := pageData{
		IDs:           h.IDs,
		Tabs:          console.Tabs,
		Workspace:     ws,
		Notifications: h.Notifications.Active(r.Context(), SessionID(r)),
		Now:           h.Notifications.Now(),
		ShowPrice:     h.Orders.WithPrice(),
		CsrfField:     csrf.TemplateField(r),
		CsrfToken:     csrf.Token(r),
	}
	if h.Health != nil {
		data.Services = h.Health.Statuses()
	}
	h.Templates.Render(w, http.StatusOK, "console.html", data)
}

func (h *ConsoleHandler) notifier(r *http.Request) console.Notifier {
	return h.Notifications.For(r.Context(), SessionID(r))
}

// Index initialises the console, like loading the page from scratch.
func (h *ConsoleHandler) Index(w http.ResponseWriter, r *http.Request) {
	sid := SessionID(r)
	h.Workspaces.Reset(sid)

	res, err := h.Tabs.Activate(r.Context(), string(h.Workspaces.DefaultTab()))
	if err != nil {
		slog.Error("Default tab is not valid", "tab", h.Workspaces.DefaultTab(), "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if res.Products == nil {
		view := h.Products.List(r.Context())
		res.Products = &view
	}

	if h.Health != nil {
		n := h.notifier(r)
		for _, s := range h.Health.Statuses() {
			// Only a service that responded gets a notification.
			if s.Status == health.StatusUnknown || !s.Answered {
				continue
			}
			n.Notify(health.StatusMessage(s.Name, s.Status))
		}
	}

	ws := h.Workspaces.Update(sid, func(w *console.Workspace) {
		w.ActiveTab = res.Active
		w.Products = *res.Products
	})
	h.render(w, r, ws)
}

func (h *ConsoleHandler) ShowTab(w http.ResponseWriter, r *http.Request) {
	res, err := h.Tabs.Activate(r.Context(), chi.URLParam(r, "tab"))
	if errors.Is(err, console.ErrUnknownTab) {
		http.NotFound(w, r)
		return
	}
	ws := h.Workspaces.Update(SessionID(r), func(w *console.Workspace) {
		w.ActiveTab = res.Active
		if res.Products != nil {
			w.Products = *res.Products
		}
	})
	h.render(w, r, ws)
}

func (h *ConsoleHandler) RefreshProducts(w http.ResponseWriter, r *http.Request) {
	view := h.Products.List(r.Context())
	ws := h.Workspaces.Update(SessionID(r), func(w *console.Workspace) {
		w.Products = view
	})
	h.render(w, r, ws)
}

func (h *ConsoleHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	form := console.ProductForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
	}
	res := h.Products.Create(r.Context(), form, h.notifier(r))
	ws := h.Workspaces.Update(SessionID(r), func(w *console.Workspace) {
		w.ProductForm = res.Form
		if res.Products != nil {
			w.Products = *res.Products
		}
	})
	h.render(w, r, ws)
}

func (h *ConsoleHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	h.Products.Edit(chi.URLParam(r, "id"), h.notifier(r))
	h.render(w, r, h.Workspaces.Snapshot(SessionID(r)))
}

func (h *ConsoleHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.Products.Delete(chi.URLParam(r, "id"), h.notifier(r))
	h.render(w, r, h.Workspaces.Snapshot(SessionID(r)))
}

func (h *ConsoleHandler) CheckInventory(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("skuCode")
	view := h.Inventory.Check(r.Context(), raw, h.notifier(r))
	ws := h.Workspaces.Update(SessionID(r), func(w *console.Workspace) {
		w.SKUInput = raw
		if view != nil {
			w.Inventory = *view
		}
	})
	h.render(w, r, ws)
}

func (h *ConsoleHandler) BrowseSKUs(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("skuCode")
	view := h.Inventory.Browse(r.Context())
	ws := h.Workspaces.Update(SessionID(r), func(w *console.Workspace) {
		w.SKUInput = raw
		w.Browse = view
	})
	h.render(w, r, ws)
}

func (h *ConsoleHandler) HideSKUs(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("skuCode")
	ws := h.Workspaces.Update(SessionID(r), func(w *console.Workspace) {
		w.SKUInput = raw
		w.Browse = console.HideBrowse(w.Browse)
	})
	h.render(w, r, ws)
}

func (h *ConsoleHandler) SelectSKU(w http.ResponseWriter, r *http.Request) {
	next := h.Inventory.Select(r.FormValue("skuCode"), r.FormValue("sku"), h.notifier(r))
	ws := h.Workspaces.Update(SessionID(r), func(w *console.Workspace) {
		w.SKUInput = next
	})
	h.render(w, r, ws)
}

// EditOrderRows adds a row (op=add) or removes one (op=remove:<index>),
// keeping whatever was typed in the other rows.
func (h *ConsoleHandler) EditOrderRows(w http.ResponseWriter, r *http.Request) {
	form := orderFormFromRequest(r)
	op := r.FormValue("op")
	switch {
	case op == "add":
		form = form.AddRow()
	case strings.HasPrefix(op, "remove:"):
		idx, err := strconv.Atoi(strings.TrimPrefix(op, "remove:"))
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if form, err = form.RemoveRow(idx); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ws := h.Workspaces.Update(SessionID(r), func(w *console.Workspace) {
		w.Order = form
	})
	h.render(w, r, ws)
}

func (h *ConsoleHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	res := h.Orders.Submit(r.Context(), orderFormFromRequest(r), h.notifier(r))
	ws := h.Workspaces.Update(SessionID(r), func(w *console.Workspace) {
		w.Order = res.Form
		if res.Result != nil {
			w.OrderResult = *res.Result
		}
	})
	h.render(w, r, ws)
}

// DismissNotification answers scripted dismissals with 204 and plain form
// posts with the page.
func (h *ConsoleHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.Dismiss(r.Context(), SessionID(r), chi.URLParam(r, "id")); err != nil {
		slog.Error("Failed to dismiss notification", "error", err)
	}
	if r.Header.Get("X-Requested-With") == "fetch" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.render(w, r, h.Workspaces.Snapshot(SessionID(r)))
}

// orderFormFromRequest rebuilds the rows from the parallel itemSku,
// itemQuantity and itemPrice fields.
func orderFormFromRequest(r *http.Request) console.OrderForm {
	if err := r.ParseForm(); err != nil {
		slog.Warn("Failed to parse order form", "error", err)
	}
	skus := r.PostForm["itemSku"]
	qtys := r.PostForm["itemQuantity"]
	prices := r.PostForm["itemPrice"]

	form := console.OrderForm{Rows: make([]console.OrderRow, 0, len(skus))}
	for i, sku := range skus {
		row := console.OrderRow{SkuCode: sku}
		if i < len(qtys) {
			row.Quantity = qtys[i]
		}
		if i < len(prices) {
			row.Price = prices[i]
		}
		form.Rows = append(form.Rows, row)
	}
	return form
}
