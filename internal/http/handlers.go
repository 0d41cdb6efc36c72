package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/dart-scoreboard/internal/backend"
	"github.com/mauv0809/dart-scoreboard/internal/checkout"
	"github.com/mauv0809/dart-scoreboard/internal/pubsub"
	"github.com/mauv0809/dart-scoreboard/internal/scoreboard"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Counters == nil {
			writeJSON(w, http.StatusOK, map[string]int{})
			return
		}
		counters, err := s.Counters.GetAll()
		if err != nil {
			log.Error("Failed to read counters", "error", err)
			http.Error(w, "Failed to read counters", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, counters)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views := s.Board.Views()
		out := make([]matchSummary, 0, len(views))
		for _, v := range views {
			out = append(out, matchSummary{
				ID:         v.Match.ID,
				Status:     string(v.Match.Status),
				Generation: v.Generation,
				UpdatedAt:  v.UpdatedAt.Format(time.RFC3339),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) MatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := s.view(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) TimelineHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := s.view(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, view.Timeline)
	}
}

func (s *Server) CardsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := s.view(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, view.Cards)
	}
}

// CurrentTableHandler serves the table of the leg in play, or 204 when no leg is.
func (s *Server) CurrentTableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := s.view(w, r)
		if !ok {
			return
		}
		if view.Table == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, view.Table)
	}
}

func (s *Server) LegTableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setNumber, err1 := strconv.Atoi(chi.URLParam(r, "set"))
		legNumber, err2 := strconv.Atoi(chi.URLParam(r, "leg"))
		if err1 != nil || err2 != nil {
			http.Error(w, "set and leg must be numbers", http.StatusBadRequest)
			return
		}
		table, err := s.Board.Table(chi.URLParam(r, "id"), setNumber, legNumber)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, table)
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := chi.URLParam(r, "id")
		log.Info("Refreshing match from backend", "matchID", matchID)
		view, err := s.Board.Refresh(r.Context(), matchID, isDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to refresh match", "matchID", matchID, "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) SubmitTurnHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := chi.URLParam(r, "id")
		turn, ok := decodeTurn(w, r)
		if !ok {
			return
		}
		sent, err := s.Board.SubmitTurn(r.Context(), matchID, turn, isDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to submit turn", "matchID", matchID, "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, sent)
	}
}

func (s *Server) UpdateTurnHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := chi.URLParam(r, "id")
		turn, ok := decodeTurn(w, r)
		if !ok {
			return
		}
		turn.RequestID = chi.URLParam(r, "requestId")
		if err := s.Board.UpdateTurn(r.Context(), matchID, turn, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to update turn", "matchID", matchID, "requestID", turn.RequestID, "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, turn)
	}
}

func (s *Server) DeleteTurnHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := chi.URLParam(r, "id")
		var key backend.TurnKey
		var err error
		for name, dst := range map[string]*int{"set": &key.SetNumber, "leg": &key.LegNumber, "round": &key.RoundNumber} {
			if *dst, err = strconv.Atoi(chi.URLParam(r, name)); err != nil || *dst < 1 {
				http.Error(w, name+" must be a positive number", http.StatusBadRequest)
				return
			}
		}
		key.PlayerID = chi.URLParam(r, "player")
		if err := s.Board.DeleteTurn(r.Context(), matchID, key, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to delete turn", "matchID", matchID, "error", err)
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func (s *Server) ResetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := chi.URLParam(r, "id")
		log.Info("Resetting match", "matchID", matchID)
		if err := s.Board.ResetMatch(r.Context(), matchID, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to reset match", "matchID", matchID, "error", err)
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := chi.URLParam(r, "id")
		log.Info("Deleting match", "matchID", matchID)
		if err := s.Board.DeleteMatch(r.Context(), matchID, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to delete match", "matchID", matchID, "error", err)
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

// decodeTurn reads a turn body and answers 400 when it is not a plausible turn.
func decodeTurn(w http.ResponseWriter, r *http.Request) (backend.Turn, bool) {
	var turn backend.Turn
	if err := json.NewDecoder(r.Body).Decode(&turn); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return turn, false
	}
	if turn.PlayerID == "" || turn.Score < 0 || turn.Score > 180 || turn.DartsUsed < 1 || turn.DartsUsed > 3 {
		http.Error(w, "Invalid turn", http.StatusBadRequest)
		return turn, false
	}
	return turn, true
}

func (s *Server) ReloadCheckoutsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := s.Checkouts.Reload(r.Context())
		if err != nil {
			log.Error("Failed to reload checkout table", "error", err)
			http.Error(w, "Failed to reload checkout table", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"entries": n})
	}
}

func (s *Server) CheckoutTableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := s.Checkouts.Table(r.Context())
		if err != nil {
			log.Error("Failed to load checkout table", "error", err)
			http.Error(w, "Failed to load checkout table", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, table)
	}
}

type checkoutResponse struct {
	Remaining  int                `json:"remaining"`
	Suggestion string             `json:"suggestion"`
	Checkout   *checkout.Checkout `json:"checkout,omitempty"`
}

// CheckoutHandler answers with an empty suggestion for scores that cannot be finished.
func (s *Server) CheckoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remaining, err := strconv.Atoi(chi.URLParam(r, "remaining"))
		if err != nil {
			http.Error(w, "remaining must be a number", http.StatusBadRequest)
			return
		}
		c, err := s.Checkouts.GetCheckout(r.Context(), remaining)
		if err != nil {
			log.Error("Failed to look up checkout", "remaining", remaining, "error", err)
			http.Error(w, "Failed to load checkout table", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, checkoutResponse{Remaining: remaining, Suggestion: checkout.Format(c), Checkout: c})
	}
}

// SnapshotPushHandler receives match snapshots from a Pub/Sub push subscription.
// Stale and undecodable messages are acknowledged with 200, only failures to
// apply a valid snapshot ask Pub/Sub to redeliver.
func (s *Server) SnapshotPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received snapshot push", "bytes", len(bodyBytes))

		rawData, err := pubsub.DecodePush(bodyBytes)
		if err == nil {
			err = s.Board.HandleMessage(r.Context(), rawData)
		}
		if err != nil && !pubsub.Acknowledge(err) {
			log.Error("Failed to apply pushed snapshot", "error", err)
			http.Error(w, "Failed to apply snapshot", http.StatusInternalServerError)
			return
		}
		if err != nil {
			log.Warn("Dropping undecodable push message", "error", err)
			w.Write([]byte("DROPPED"))
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) (*scoreboard.View, bool) {
	view, err := s.Board.View(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return view, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var statusErr *backend.StatusError
	switch {
	case errors.Is(err, scoreboard.ErrUnknownMatch),
		errors.Is(err, scoreboard.ErrUnknownLeg),
		errors.Is(err, backend.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, scoreboard.ErrMissingRequestID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, scoreboard.ErrStaleSnapshot):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &statusErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
