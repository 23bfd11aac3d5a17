package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"reservas/internal/auth"
	"reservas/internal/export"
	"reservas/internal/metrics"
	"reservas/internal/models"
	"reservas/internal/pos"
	"reservas/internal/repository"
	"reservas/internal/service"
	"reservas/internal/validate"
)

func (s *Server) handleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.submitReservation(w, r)
	case http.MethodGet:
		s.listReservations(w, r)
	case http.MethodDelete:
		s.clearReservations(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) submitReservation(w http.ResponseWriter, r *http.Request) {
	var submission validate.Submission
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&submission); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reservation, result, err := s.reservations.Submit(r.Context(), submission)
	if err != nil {
		metrics.IncSubmission("error")
		writeError(w, http.StatusInternalServerError, "no se pudo guardar la reservación, intente de nuevo")
		return
	}
	if !result.Valid {
		metrics.IncSubmission("rejected")
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	metrics.IncSubmission("accepted")
	writeJSON(w, http.StatusCreated, reservation)
}

// reservationCard pairs the record with its rendered dashboard card. Card is
// omitted when rendering fails so clients fall back to the raw fields instead
// of showing a blank card.
type reservationCard struct {
	models.Reservation
	Card string `json:"card,omitempty"`
}

func (s *Server) listReservations(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}

	filter := repository.Filter{
		Name: r.URL.Query().Get("name"),
		Date: r.URL.Query().Get("date"),
	}
	reservations := s.reservations.List(r.Context(), filter)

	cards := make([]reservationCard, 0, len(reservations))
	for _, reservation := range reservations {
		card, err := export.ToDisplayCard(reservation)
		if err != nil {
			s.logger.Error().Err(err).Int64("reservation_id", reservation.ID).Msg("render card")
		}
		cards = append(cards, reservationCard{Reservation: reservation, Card: card})
	}

	writeJSON(w, http.StatusOK, map[string]any{"reservations": cards})
}

func (s *Server) clearReservations(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}

	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	confirmAgain, _ := strconv.ParseBool(r.URL.Query().Get("confirm_again"))

	removed, err := s.reservations.ClearAll(r.Context(), confirm, confirmAgain)
	if err != nil {
		if errors.Is(err, service.ErrConfirmationRequired) {
			writeError(w, http.StatusBadRequest, "se requieren ambas confirmaciones para borrar todas las reservaciones")
			return
		}
		writeError(w, http.StatusInternalServerError, "no se pudieron borrar las reservaciones")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireSession(w, r) {
		return
	}

	reservations := s.reservations.All(r.Context())
	brand := s.cfg.Exports.Brand

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		data, err := export.ToCSV(reservations)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}
		metrics.IncExport("csv")
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+export.CSVFilename(brand, time.Now()))
		_, _ = w.Write(data)

	case "text":
		metrics.IncExport("text")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(export.ToClipboardText(reservations, brand)))

	case "xlsx":
		path, err := export.ToExcel(reservations, s.cfg.Exports.Path, brand)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}
		metrics.IncExport("xlsx")
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(path))
		http.ServeFile(w, r, path)

	default:
		writeError(w, http.StatusBadRequest, "unknown format; expected csv, text or xlsx")
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireSession(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.reservations.Stats(r.Context()))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, err := s.gate.Login(r.Context(), body.Password)
	switch {
	case errors.Is(err, auth.ErrNoCredential):
		metrics.IncLogin("no_credential")
		writeError(w, http.StatusForbidden, "el acceso no está configurado; ejecute adminctl set-password")
	case errors.Is(err, auth.ErrInvalidCredential):
		metrics.IncLogin("failure")
		writeError(w, http.StatusUnauthorized, "contraseña incorrecta")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "login failed")
	default:
		metrics.IncLogin("success")
		writeJSON(w, http.StatusOK, map[string]any{
			"token":      token,
			"expires_in": s.cfg.Admin.SessionTTLSeconds,
		})
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	token := r.Header.Get(sessionTokenHeader)
	if token != "" {
		_ = s.gate.Logout(r.Context(), token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": s.pos.Menu()})
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cart := s.pos.Cart(r.Context())
		writeCart(w, cart)

	case http.MethodPost:
		itemID, ok := decodeItemID(w, r)
		if !ok {
			return
		}
		cart, err := s.pos.Add(r.Context(), itemID)
		if err != nil {
			writeCartError(w, err)
			return
		}
		writeCart(w, cart)

	case http.MethodDelete:
		if err := s.pos.Clear(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "no se pudo vaciar la orden")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCartItemOp adapts the quantity operations, which all share the same
// request and response shape.
func (s *Server) handleCartItemOp(op func(ctx context.Context, itemID string) (models.Cart, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		itemID, ok := decodeItemID(w, r)
		if !ok {
			return
		}
		cart, err := op(r.Context(), itemID)
		if err != nil {
			writeCartError(w, err)
			return
		}
		writeCart(w, cart)
	}
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		ClearCart bool `json:"clearCart"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	selection, err := s.pos.Confirm(r.Context(), body.ClearCart)
	if err != nil {
		if errors.Is(err, pos.ErrEmptyCart) {
			writeError(w, http.StatusConflict, "la orden está vacía")
			return
		}
		writeError(w, http.StatusInternalServerError, "no se pudo confirmar la orden")
		return
	}

	writeJSON(w, http.StatusCreated, selection)
}

func (s *Server) handleSelections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireSession(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"selections": s.pos.Selections(r.Context())})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeItemID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body struct {
		ItemID string `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ItemID == "" {
		writeError(w, http.StatusBadRequest, "itemId is required")
		return "", false
	}
	return body.ItemID, true
}

func writeCart(w http.ResponseWriter, cart models.Cart) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items":      cart,
		"totalItems": cart.TotalItems(),
	})
}

func writeCartError(w http.ResponseWriter, err error) {
	if errors.Is(err, pos.ErrUnknownItem) {
		writeError(w, http.StatusNotFound, "artículo desconocido")
		return
	}
	writeError(w, http.StatusInternalServerError, "no se pudo actualizar la orden")
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
