package handlers

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/grocerycart/internal/cart"
	"github.com/alextreichler/grocerycart/internal/store"
)

type ShopHandler struct {
	Store        *store.Store
	Carts        *cart.Manager
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *ShopHandler) Index(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("index.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, SessionName)
	c, _ := h.Carts.Load(r.Context(), cartID(session))

	data := map[string]interface{}{
		"Products":  products,
		"CartCount": c.Count(),
		"Flashes":   GetFlash(session),
		"CsrfField": csrf.TemplateField(r),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *ShopHandler) Help(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("help.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, SessionName)
	c, _ := h.Carts.Load(r.Context(), cartID(session))

	data := map[string]interface{}{
		"CartCount": c.Count(),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
