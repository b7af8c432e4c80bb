// Package server exposes the account operations over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"PiggyVault/internal/ledger"
	"PiggyVault/internal/model"
)

// Server routes account requests to the ledger manager.
type Server struct {
	ledger *ledger.Manager
}

func New(mgr *ledger.Manager) *Server {
	return &Server{ledger: mgr}
}

// Routes builds the HTTP mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/account", s.account)
	mux.HandleFunc("/api/settings/initial", s.initialSettings)
	mux.HandleFunc("/api/settings/current", s.currentSettings)
	mux.HandleFunc("/api/transaction", s.addTransaction)
	mux.HandleFunc("/api/transaction/", s.deleteTransaction)
	mux.HandleFunc("/api/calculate-goal", s.calculateGoal)
	mux.HandleFunc("/api/recalculate", s.recalculate)
	mux.HandleFunc("/health", s.health)
	return mux
}

// mapError translates ledger errors to API responses: validation failures
// become 400s, everything else a 500.
func mapError(msg string, err error) *apiErr {
	if errors.Is(err, ledger.ErrInvalidInput) || errors.Is(err, ledger.ErrIndexOutOfRange) {
		return badRequest(err.Error())
	}
	return serverError(msg, err)
}

func (s *Server) account(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, methodNotAllowed())
		return
	}
	snap, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		writeErr(w, serverError("failed to load account", err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) initialSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, methodNotAllowed())
		return
	}
	var body struct {
		AccountHolder    string      `json:"account_holder"`
		InitialBalance   json.Number `json:"initial_balance"`
		StartDate        string      `json:"start_date"`
		InitialAllowance json.Number `json:"initial_allowance"`
		InitialInterest  json.Number `json:"initial_interest"`
	}
	if e := readJSON(r, &body); e != nil {
		writeErr(w, e)
		return
	}

	var in ledger.InitialSettings
	var e *apiErr
	if body.AccountHolder != "" {
		in.AccountHolder = &body.AccountHolder
	}
	if in.InitialBalance, e = optionalAmount(body.InitialBalance, "initial_balance"); e != nil {
		writeErr(w, e)
		return
	}
	if in.Allowance, e = optionalAmount(body.InitialAllowance, "initial_allowance"); e != nil {
		writeErr(w, e)
		return
	}
	if in.InterestRate, e = optionalAmount(body.InitialInterest, "initial_interest"); e != nil {
		writeErr(w, e)
		return
	}
	if body.StartDate != "" {
		d, e := requireDate(body.StartDate, "start_date")
		if e != nil {
			writeErr(w, e)
			return
		}
		in.StartDate = &d
	}

	if err := s.ledger.UpdateInitialSettings(r.Context(), in); err != nil {
		writeErr(w, mapError("failed to update initial settings", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) currentSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, methodNotAllowed())
		return
	}
	var body struct {
		CurrentAllowance json.Number `json:"current_allowance"`
		CurrentInterest  json.Number `json:"current_interest"`
	}
	if e := readJSON(r, &body); e != nil {
		writeErr(w, e)
		return
	}

	var in ledger.CurrentSettings
	var e *apiErr
	if in.Allowance, e = optionalAmount(body.CurrentAllowance, "current_allowance"); e != nil {
		writeErr(w, e)
		return
	}
	if in.InterestRate, e = optionalAmount(body.CurrentInterest, "current_interest"); e != nil {
		writeErr(w, e)
		return
	}

	if err := s.ledger.UpdateCurrentSettings(r.Context(), in); err != nil {
		writeErr(w, mapError("failed to update current settings", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) addTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, methodNotAllowed())
		return
	}
	var body struct {
		Type   string      `json:"type"`
		Name   string      `json:"name"`
		Amount json.Number `json:"amount"`
		Date   string      `json:"date"`
	}
	if e := readJSON(r, &body); e != nil {
		writeErr(w, e)
		return
	}

	var kind model.Kind
	switch body.Type {
	case "Deposit":
		kind = model.KindDeposit
	case "Withdrawal":
		kind = model.KindWithdrawal
	default:
		writeErr(w, badRequest("type must be Deposit or Withdrawal"))
		return
	}
	amount, e := requireAmount(body.Amount, "amount")
	if e != nil {
		writeErr(w, e)
		return
	}
	date, e := optionalDate(body.Date, "date")
	if e != nil {
		writeErr(w, e)
		return
	}

	err := s.ledger.AddManualTransaction(r.Context(), ledger.AddTransaction{
		Kind:   kind,
		Label:  body.Name,
		Amount: amount,
		Date:   date,
	})
	if err != nil {
		writeErr(w, mapError("failed to add transaction", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeErr(w, methodNotAllowed())
		return
	}
	index, ok := parseIndexFromPath("/api/transaction/", r.URL.Path)
	if !ok {
		writeErr(w, badRequest("invalid transaction index"))
		return
	}
	if err := s.ledger.DeleteManualTransaction(r.Context(), index); err != nil {
		writeErr(w, mapError("failed to delete transaction", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) calculateGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, methodNotAllowed())
		return
	}
	var body struct {
		GoalAmount json.Number `json:"goal_amount"`
		GoalDate   string      `json:"goal_date"`
	}
	if e := readJSON(r, &body); e != nil {
		writeErr(w, e)
		return
	}
	amount, e := requireAmount(body.GoalAmount, "goal_amount")
	if e != nil {
		writeErr(w, e)
		return
	}
	date, e := requireDate(body.GoalDate, "goal_date")
	if e != nil {
		writeErr(w, e)
		return
	}

	res, err := s.ledger.ProjectGoal(r.Context(), amount, date)
	if err != nil {
		writeErr(w, mapError("failed to calculate goal", err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) recalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, methodNotAllowed())
		return
	}
	if err := s.ledger.Recalculate(r.Context()); err != nil {
		writeErr(w, serverError("failed to recalculate", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "All deposits recalculated successfully",
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
