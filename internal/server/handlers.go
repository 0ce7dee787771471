package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"tripsplit/internal/apperr"
	"tripsplit/internal/middleware"
	"tripsplit/internal/service"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createTripRequest struct {
	Name string `json:"name"`
}

type addMemberRequest struct {
	Name   string `json:"name"`
	UserID string `json:"user_id,omitempty"`
}

type addExpenseRequest struct {
	PaidBy         string   `json:"paid_by"`
	Amount         float64  `json:"amount"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	Date           int64    `json:"date"`
	IsGroupExpense bool     `json:"is_group_expense"`
	ParticipantIDs []string `json:"participant_ids,omitempty"`
}

type createSettlementRequest struct {
	FromMemberID string  `json:"from_member_id"`
	ToMemberID   string  `json:"to_member_id"`
	Amount       float64 `json:"amount"`
	Notes        string  `json:"notes"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	user, token, err := s.auth.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, authResponse{User: toUserDTO(user), Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, authResponse{User: toUserDTO(user), Token: token})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.CurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	trip, err := s.trips.CreateTrip(r.Context(), middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toTripDTO(trip))
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetTrip(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTripDTO(trip))
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	member, err := s.trips.AddMember(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.Name, req.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toMemberDTO(*member))
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.trips.ListMembers(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]memberDTO, len(members))
	for i, m := range members {
		out[i] = toMemberDTO(m)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	expense, err := s.expenses.AddExpense(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), service.ExpenseInput{
		PaidBy:         req.PaidBy,
		Amount:         req.Amount,
		Category:       req.Category,
		Description:    req.Description,
		Date:           req.Date,
		IsGroupExpense: req.IsGroupExpense,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toExpenseDTO(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ListExpenses(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]expenseDTO, len(expenses))
	for i := range expenses {
		out[i] = toExpenseDTO(&expenses[i])
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.DeleteExpense(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	report, err := s.expenses.BalanceReport(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toBalanceReportDTO(report))
}

func (s *Server) handleCreateSettlement(w http.ResponseWriter, r *http.Request) {
	var req createSettlementRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	settlement, err := s.settlements.Create(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"),
		req.FromMemberID, req.ToMemberID, req.Amount, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toSettlementDTO(settlement))
}

func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.settlements.List(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]settlementDTO, len(settlements))
	for i := range settlements {
		out[i] = toSettlementDTO(&settlements[i])
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleConfirmSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, err := s.settlements.Confirm(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSettlementDTO(settlement))
}

func (s *Server) handleCancelSettlement(w http.ResponseWriter, r *http.Request) {
	if err := s.settlements.Cancel(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWatchTrip streams balance reports over server-sent events. The first
// event carries the current state; subsequent events follow every write to
// the trip until the client disconnects.
func (s *Server) handleWatchTrip(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("id")
	if _, err := s.trips.GetTrip(r.Context(), middleware.GetUserID(r.Context()), tripID); err != nil {
		s.writeError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for report := range s.watcher.Run(r.Context(), tripID) {
		data, err := json.Marshal(toWatchReportDTO(report))
		if err != nil {
			s.logger.Error("failed to encode report", "trip_id", tripID, "error", err)
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: apperr.Validation.String()})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "kind", kind.String(), "error", err)
	}

	var appErr *apperr.Error
	msg := "internal server error"
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		msg = appErr.Msg
	}
	s.writeJSON(w, status, errorResponse{Error: msg, Kind: kind.String()})
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Permission:
		return http.StatusForbidden
	case apperr.StateConflict:
		return http.StatusConflict
	case apperr.Integrity:
		// Ledger inconsistencies must block reads rather than render a
		// wrong report.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
