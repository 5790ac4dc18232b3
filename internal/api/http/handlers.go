package httpapi

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"restaurant-directory/internal/service"

	"github.com/gorilla/mux"
)

const sessionCookie = "session_id"

// Dialog IDs as known to the page.
const (
	dialogLogin       = "login"
	dialogRegister    = "register"
	dialogRestaurant  = "restaurant"
	dialogReservation = "reservation"
	dialogOrder       = "order"
)

type Handler struct {
	Search       service.SearchServiceInterface
	Detail       service.DetailServiceInterface
	Theme        service.ThemeServiceInterface
	Dialogs      service.DialogServiceInterface
	Favorites    service.FavoritesServiceInterface
	Reservations service.ReservationServiceInterface
	Orders       service.OrdersServiceInterface
	Toasts       service.ToastServiceInterface
	Users        service.UsersServiceInterface
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/restaurants", h.searchRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.restaurantDetail).Methods("GET")

	r.HandleFunc("/toggle_favorite/{id}", h.toggleFavorite).Methods("POST")
	r.HandleFunc("/api/session/favorites", h.listFavorites).Methods("GET")

	r.HandleFunc("/api/restaurants/{id}/reserve", h.openReservation).Methods("POST")
	r.HandleFunc("/reserve", h.createReservation).Methods("POST")
	r.HandleFunc("/api/reservations/{code}/qrcode", h.reservationQRCode).Methods("GET")

	r.HandleFunc("/api/restaurants/{id}/order", h.openOrder).Methods("POST")
	r.HandleFunc("/api/restaurants/{id}/order", h.discardOrder).Methods("DELETE")
	r.HandleFunc("/api/restaurants/{id}/order/items/{itemId}", h.adjustQuantity).Methods("POST")
	r.HandleFunc("/api/restaurants/{id}/order/place", h.placeOrder).Methods("POST")

	r.HandleFunc("/api/session/theme", h.getTheme).Methods("GET")
	r.HandleFunc("/api/session/theme/toggle", h.toggleTheme).Methods("POST")

	r.HandleFunc("/api/session/dialog", h.activeDialog).Methods("GET")
	r.HandleFunc("/api/session/dialog/{id}/open", h.openDialog).Methods("POST")
	r.HandleFunc("/api/session/dialog/{id}/close", h.closeDialog).Methods("POST")

	r.HandleFunc("/api/session/toasts", h.drainToasts).Methods("GET")
	r.HandleFunc("/api/session/user", h.currentUser).Methods("GET")

	r.HandleFunc("/register", h.register).Methods("POST")
	r.HandleFunc("/login", h.login).Methods("POST")
	r.HandleFunc("/logout", h.logout).Methods("GET", "POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "restaurant-directory",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) searchRestaurants(w http.ResponseWriter, r *http.Request) {
	result := h.Search.Filter(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) restaurantDetail(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	view, err := h.Detail.Render(r.Context(), sid, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	_ = h.Dialogs.Open(r.Context(), sid, dialogRestaurant)
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	action, err := h.Favorites.Toggle(r.Context(), sid, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrToggleInFlight):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to update favorite")
		}
		return
	}

	if action == service.ActionAdded {
		h.Toasts.Push(r.Context(), sid, "Restaurant added to favorites", service.ToastSuccess)
	} else {
		h.Toasts.Push(r.Context(), sid, "Restaurant removed from favorites", service.ToastInfo)
	}

	writeJSON(w, http.StatusOK, map[string]string{"action": action})
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	writeJSON(w, http.StatusOK, map[string][]int{
		"favorites": h.Favorites.Favorites(r.Context(), sid),
	})
}

// openReservation opens the booking dialog and hands back what the form
// needs: the slot set, the minimum date and the guest bounds.
func (h *Handler) openReservation(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	view, err := h.Detail.Render(r.Context(), sid, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	_ = h.Dialogs.Open(r.Context(), sid, dialogReservation)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"restaurant_id":   view.ID,
		"restaurant_name": view.Name,
		"min_date":        time.Now().Format("2006-01-02"),
		"time_slots":      service.TimeSlots,
		"default_guests":  2,
		"max_guests":      20,
	})
}

func (h *Handler) createReservation(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)

	if err := r.ParseForm(); err != nil {
		writeReservationError(w, http.StatusBadRequest, "Invalid form payload")
		return
	}

	restaurantID, _ := strconv.Atoi(r.FormValue("restaurant_id"))
	guests := 0
	if raw := r.FormValue("guests"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeReservationError(w, http.StatusBadRequest, "Invalid guest count")
			return
		}
		guests = parsed
	}

	req := service.ReservationRequest{
		RestaurantID:    restaurantID,
		Date:            r.FormValue("date"),
		TimeSlot:        r.FormValue("time"),
		Guests:          guests,
		SpecialRequests: r.FormValue("special_requests"),
	}

	res, err := h.Reservations.Create(r.Context(), sid, req)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Failed to process the reservation"
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound),
			errors.Is(err, service.ErrInvalidDate),
			errors.Is(err, service.ErrInvalidTime),
			errors.Is(err, service.ErrInvalidGuests):
			status = http.StatusBadRequest
			message = err.Error()
		case errors.Is(err, service.ErrSubmitInFlight):
			status = http.StatusConflict
			message = err.Error()
		}
		h.Toasts.Push(r.Context(), sid, "Error: "+message, service.ToastError)
		writeReservationError(w, status, message)
		return
	}

	message := fmt.Sprintf("Reservation confirmed for %d guests on %s at %s. Code: %s",
		res.Guests, res.Date, res.TimeSlot, res.Code)
	h.Toasts.Push(r.Context(), sid, message, service.ToastSuccess)
	_ = h.Dialogs.Close(r.Context(), sid, dialogReservation)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"message":     message,
		"reservation": res,
	})
}

func (h *Handler) reservationQRCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	png, err := h.Reservations.QRCode(code)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Reservation not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) openOrder(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	view, err := h.Orders.Open(r.Context(), sid, id)
	if err != nil {
		// Unknown restaurant is a quiet failure for the order flow: no toast.
		if errors.Is(err, service.ErrRestaurantNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to open order")
		return
	}

	_ = h.Dialogs.Open(r.Context(), sid, dialogOrder)
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) adjustQuantity(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])
	itemID, _ := strconv.Atoi(vars["itemId"])

	var payload struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	view, err := h.Orders.Adjust(r.Context(), sid, id, itemID, payload.Delta)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound),
			errors.Is(err, service.ErrDraftNotFound),
			errors.Is(err, service.ErrItemNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to update quantity")
		}
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	total, err := h.Orders.Place(r.Context(), sid, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			h.Toasts.Push(r.Context(), sid, err.Error(), service.ToastError)
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrRestaurantNotFound),
			errors.Is(err, service.ErrDraftNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to place order")
		}
		return
	}

	message := fmt.Sprintf("Order confirmed! Total: $%.2f", total)
	h.Toasts.Push(r.Context(), sid, message, service.ToastSuccess)
	_ = h.Dialogs.Close(r.Context(), sid, dialogOrder)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"total":   total,
		"message": message,
	})
}

func (h *Handler) discardOrder(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	_ = h.Orders.Discard(r.Context(), sid, id)
	_ = h.Dialogs.Close(r.Context(), sid, dialogOrder)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getTheme(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	writeJSON(w, http.StatusOK, h.Theme.Resolve(r.Context(), sid, osPrefersDark(r)))
}

func (h *Handler) toggleTheme(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	writeJSON(w, http.StatusOK, h.Theme.Toggle(r.Context(), sid, osPrefersDark(r)))
}

func (h *Handler) activeDialog(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	writeJSON(w, http.StatusOK, map[string]string{
		"active": h.Dialogs.Active(r.Context(), sid),
	})
}

func (h *Handler) openDialog(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	dialogID := mux.Vars(r)["id"]

	_ = h.Dialogs.Open(r.Context(), sid, dialogID)
	writeJSON(w, http.StatusOK, map[string]string{
		"active": h.Dialogs.Active(r.Context(), sid),
	})
}

func (h *Handler) closeDialog(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	dialogID := mux.Vars(r)["id"]

	_ = h.Dialogs.Close(r.Context(), sid, dialogID)
	writeJSON(w, http.StatusOK, map[string]string{
		"active": h.Dialogs.Active(r.Context(), sid),
	})
}

func (h *Handler) drainToasts(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"toasts": h.Toasts.Drain(r.Context(), sid),
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form payload")
		return
	}

	req := service.RegisterRequest{
		FirstName:  r.FormValue("first_name"),
		LastName:   r.FormValue("last_name"),
		Email:      r.FormValue("email"),
		Password:   r.FormValue("password"),
		Phone:      r.FormValue("phone"),
		Address:    r.FormValue("address"),
		City:       r.FormValue("city"),
		PostalCode: r.FormValue("postal_code"),
	}

	user, err := h.Users.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			h.Toasts.Push(r.Context(), sid, err.Error(), service.ToastError)
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.Toasts.Push(r.Context(), sid, "Failed to create the account. Try again.", service.ToastError)
			writeError(w, http.StatusInternalServerError, "Failed to create the account")
		}
		return
	}

	h.Users.Bind(r.Context(), sid, user)
	_ = h.Dialogs.Close(r.Context(), sid, dialogRegister)
	h.Toasts.Push(r.Context(), sid,
		fmt.Sprintf("Welcome %s! Your account has been created.", user.FirstName),
		service.ToastSuccess)

	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "user": user})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form payload")
		return
	}

	user, err := h.Users.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Toasts.Push(r.Context(), sid, "Incorrect credentials. Try again.", service.ToastError)
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	h.Users.Bind(r.Context(), sid, user)
	_ = h.Dialogs.Close(r.Context(), sid, dialogLogin)
	h.Toasts.Push(r.Context(), sid, "Welcome back!", service.ToastSuccess)

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)

	h.Users.Unbind(r.Context(), sid)
	h.Toasts.Push(r.Context(), sid, "You have been logged out.", service.ToastInfo)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)

	user, ok := h.Users.Current(r.Context(), sid)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"logged_in": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logged_in": true, "user": user})
}

// sessionID reads the session cookie, minting a fresh one when absent.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	sid := hex.EncodeToString(buf)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
	})
	return sid
}

// Browsers advertise the OS color scheme through a client hint header.
func osPrefersDark(r *http.Request) bool {
	return r.Header.Get("Sec-CH-Prefers-Color-Scheme") == "dark"
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// The reservation form expects the flag-style envelope.
func writeReservationError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": message})
}
