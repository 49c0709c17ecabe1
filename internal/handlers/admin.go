package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/alextreichler/grocerycart/internal/models"
	"github.com/alextreichler/grocerycart/internal/store"
)

type AdminHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// Dashboard lists all products with the add-product form.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("admin.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, SessionName)
	data := map[string]interface{}{
		"Products":  products,
		"Flashes":   GetFlash(session),
		"CsrfField": csrf.TemplateField(r),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// CreateProduct inserts a product from the admin form. Beyond type coercion
// there is no validation; negative price or stock is accepted as submitted.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, SessionName)

	if err := r.ParseForm(); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid form data."})
		session.Save(r, w) // Save before redirect
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	stock, _ := strconv.Atoi(r.FormValue("stock"))
	p := &models.Product{
		Name:     r.FormValue("name"),
		Category: r.FormValue("category"),
		Price:    price,
		Stock:    stock,
	}

	if err := h.Store.InsertProduct(r.Context(), p); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Failed to add product. Please try again."})
	} else {
		session.AddFlash(FlashMessage{Type: "success", Message: "Product added"})
	}
	session.Save(r, w)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Analytics renders a PNG bar chart of per-product sold quantity.
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Store.SumSoldByProduct(r.Context())
	if err != nil {
		http.Error(w, "Error aggregating sales", http.StatusInternalServerError)
		return
	}
	if len(sales) == 0 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<h3>No sales yet to show analytics.</h3>"))
		return
	}

	bars := make([]chart.Value, 0, len(sales))
	for _, s := range sales {
		bars = append(bars, chart.Value{Label: s.Name, Value: float64(s.Sold)})
	}

	graph := chart.BarChart{
		Title:    "Product-wise Sold Quantity",
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Bars: bars,
	}

	w.Header().Set("Content-Type", "image/png")
	if err := graph.Render(chart.PNG, w); err != nil {
		http.Error(w, "Error rendering chart", http.StatusInternalServerError)
	}
}
