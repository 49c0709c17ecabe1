package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/grocerycart/internal/checkout"
	"github.com/alextreichler/grocerycart/internal/store"
)

type OrderHandler struct {
	Store        *store.Store
	Checkout     *checkout.Service
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// CheckoutForm shows the customer-name form, or bounces back to the listing
// when the cart is empty.
func (h *OrderHandler) CheckoutForm(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, SessionName)

	lines, _, err := h.Checkout.CartContents(r.Context(), cartID(session))
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}
	if len(lines) == 0 {
		session.AddFlash(FlashMessage{Type: "error", Message: "Cart is empty"})
		session.Save(r, w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	tmpl := h.Templates.Get("checkout.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	count := 0
	for _, line := range lines {
		count += line.Qty
	}
	data := map[string]interface{}{
		"CartCount": count,
		"Flashes":   GetFlash(session),
		"CsrfField": csrf.TemplateField(r),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// PlaceOrder submits the checkout. Domain errors become a flash message and a
// redirect; none of them leave a partial order behind.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, SessionName)

	if err := r.ParseForm(); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid form data."})
		session.Save(r, w) // Save before redirect
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}
	name := r.FormValue("name")

	orderID, err := h.Checkout.PlaceOrder(r.Context(), cartID(session), name)
	var insufficient *store.InsufficientStockError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		session.AddFlash(FlashMessage{Type: "error", Message: "Cart is empty"})
		session.Save(r, w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.As(err, &insufficient):
		session.AddFlash(FlashMessage{Type: "error", Message: "Not enough stock for " + insufficient.ProductName})
		session.Save(r, w)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	case err != nil:
		session.AddFlash(FlashMessage{Type: "error", Message: "Failed to place order. Please try again."})
		session.Save(r, w)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	default:
		session.AddFlash(FlashMessage{Type: "success", Message: fmt.Sprintf("Order placed (ID: %d)", orderID)})
		session.Save(r, w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// History lists past orders, newest first, with their line items at the
// captured purchase-time prices.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.ListOrdersWithItems(r.Context())
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("orders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, SessionName)
	data := map[string]interface{}{
		"Orders":  orders,
		"Flashes": GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
