package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"PiggyVault/internal/model"
)

var isoDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type apiErr struct {
	Status  int
	Message string
}

func (e *apiErr) Error() string { return e.Message }

func badRequest(msg string) *apiErr {
	return &apiErr{Status: http.StatusBadRequest, Message: msg}
}

func methodNotAllowed() *apiErr {
	return &apiErr{Status: http.StatusMethodNotAllowed, Message: "method not allowed"}
}

func serverError(msg string, err error) *apiErr {
	log.Printf("[ERROR] %s: %v", msg, err)
	return &apiErr{Status: http.StatusInternalServerError, Message: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err *apiErr) {
	writeJSON(w, err.Status, map[string]any{"success": false, "message": err.Message})
}

func readJSON(r *http.Request, dst any) *apiErr {
	b, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return badRequest("could not read body")
	}
	if len(b) == 0 {
		b = []byte(`{}`)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return badRequest("invalid JSON: " + err.Error())
	}
	return nil
}

// requireDate parses a mandatory YYYY-MM-DD field.
func requireDate(v, field string) (model.Date, *apiErr) {
	if !isoDateRE.MatchString(v) {
		return model.Date{}, badRequest(fmt.Sprintf("%s must be a date in YYYY-MM-DD form", field))
	}
	d, err := model.ParseDate(v)
	if err != nil {
		return model.Date{}, badRequest(fmt.Sprintf("%s is not a valid calendar date", field))
	}
	return d, nil
}

// optionalDate parses a date field that may be empty or absent.
func optionalDate(v, field string) (model.Date, *apiErr) {
	if strings.TrimSpace(v) == "" {
		return model.Date{}, nil
	}
	return requireDate(v, field)
}

// requireAmount parses a mandatory numeric field.
func requireAmount(v json.Number, field string) (decimal.Decimal, *apiErr) {
	if v == "" {
		return decimal.Decimal{}, badRequest(field + " is required")
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Decimal{}, badRequest(field + " must be a number")
	}
	return d, nil
}

// optionalAmount parses a numeric field that may be absent.
func optionalAmount(v json.Number, field string) (*decimal.Decimal, *apiErr) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return nil, badRequest(field + " must be a number")
	}
	return &d, nil
}

// parseIndexFromPath extracts the trailing zero-based positional index.
func parseIndexFromPath(prefix, path string) (int, bool) {
	if !strings.HasPrefix(path, prefix) {
		return 0, false
	}
	s := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if s == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return idx, true
}
