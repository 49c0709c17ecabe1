package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/grocerycart/internal/cart"
	"github.com/alextreichler/grocerycart/internal/checkout"
	"github.com/alextreichler/grocerycart/internal/store"
)

type CartHandler struct {
	Checkout     *checkout.Service
	Carts        *cart.Manager
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// Add puts qty units of a product in the cart after a courtesy stock check.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, SessionName)

	if err := r.ParseForm(); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid form data."})
		session.Save(r, w) // Save before redirect
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	productID, err := strconv.Atoi(r.FormValue("product_id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid product ID."})
		session.Save(r, w) // Save before redirect
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	qty := 1
	if q, err := strconv.Atoi(r.FormValue("qty")); err == nil && q > 0 {
		qty = q
	}

	err = h.Checkout.AddToCart(r.Context(), cartID(session), productID, qty)
	var oos *checkout.OutOfStockError
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		session.AddFlash(FlashMessage{Type: "error", Message: "Product not found"})
	case errors.As(err, &oos):
		session.AddFlash(FlashMessage{Type: "error", Message: "Requested quantity not available"})
	case err != nil:
		session.AddFlash(FlashMessage{Type: "error", Message: "Could not add to cart. Please try again."})
	default:
		session.AddFlash(FlashMessage{Type: "success", Message: "Added to cart"})
	}
	session.Save(r, w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// View renders the cart with per-line subtotals and the running total.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, SessionName)

	lines, total, err := h.Checkout.CartContents(r.Context(), cartID(session))
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("cart.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	count := 0
	for _, line := range lines {
		count += line.Qty
	}
	data := map[string]interface{}{
		"Items":     lines,
		"Total":     total,
		"CartCount": count,
		"Flashes":   GetFlash(session),
		"CsrfField": csrf.TemplateField(r),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// Update replaces the whole cart from qty_<pid> form fields. Unparsable or
// non-positive quantities drop the line.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, SessionName)

	if err := r.ParseForm(); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid form data."})
		session.Save(r, w) // Save before redirect
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	entries := make(map[string]int)
	for key, vals := range r.PostForm {
		pid, ok := strings.CutPrefix(key, "qty_")
		if !ok || len(vals) == 0 {
			continue
		}
		qty, err := strconv.Atoi(vals[0])
		if err != nil {
			qty = 0
		}
		entries[pid] = qty
	}

	if err := h.Carts.SetMany(r.Context(), cartID(session), entries); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Could not update cart. Please try again."})
	} else {
		session.AddFlash(FlashMessage{Type: "success", Message: "Cart updated"})
	}
	session.Save(r, w)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, SessionName)

	pid := r.FormValue("product_id")
	if err := h.Carts.Remove(r.Context(), cartID(session), pid); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Could not update cart. Please try again."})
	} else {
		session.AddFlash(FlashMessage{Type: "success", Message: "Removed from cart"})
	}
	session.Save(r, w)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
