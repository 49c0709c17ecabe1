package handlers

import (
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionName is the single cookie session carrying the cart id and flashes.
const SessionName = "grocery-session"

// cartID returns the session's cart identifier, minting one on first use.
// Carts are keyed by this id, so each browser session gets its own cart.
func cartID(session *sessions.Session) string {
	if id, ok := session.Values["cart_id"].(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	session.Values["cart_id"] = id
	return id
}
