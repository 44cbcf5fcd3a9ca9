package http

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/simaogato/fondfolio-backend/internal/usecase/investment"
)

type addFundRequest struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

type depositRequest struct {
	Date  string `json:"date"`
	Fonds []struct {
		Ticker string           `json:"ticker"`
		Amount *decimal.Decimal `json:"amount"`
	} `json:"fonds"`
}

type deleteDepositRequest struct {
	Date    string   `json:"date"`
	Tickers []string `json:"tickers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "fondfolio",
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(r.Context(), r.Header.Get(apiKeyHeader)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	user, err := s.sessions.UserInfo(r.Context(), r.Header.Get(apiKeyHeader))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dashboard.GetSummary(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSummaryChart(w http.ResponseWriter, r *http.Request) {
	png, err := s.dashboard.RenderChart(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		s.log.Debug().Err(err).Msg("Failed to write chart")
	}
}

// handleAddFund accepts the fund as form fields or as a JSON object
func (s *Server) handleAddFund(w http.ResponseWriter, r *http.Request) {
	var req addFundRequest

	if isJSON(r) {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, r, fmt.Errorf("%w: %v", errInvalidInput, err))
			return
		}
		req.Ticker = r.PostForm.Get("ticker")
		req.Name = r.PostForm.Get("name")
	}

	if strings.TrimSpace(req.Ticker) == "" || strings.TrimSpace(req.Name) == "" {
		s.writeError(w, r, fmt.Errorf("%w: ticker and name are required", errInvalidInput))
		return
	}

	if err := s.investments.AddFund(r.Context(), userID(r), req.Ticker, req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddDeposits(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Fonds == nil {
		s.writeError(w, r, fmt.Errorf("%w: fonds is required", errInvalidInput))
		return
	}

	deposits := make([]investment.DepositInput, 0, len(req.Fonds))
	for _, f := range req.Fonds {
		if f.Ticker == "" || f.Amount == nil {
			s.writeError(w, r, fmt.Errorf("%w: every fond needs ticker and amount", errInvalidInput))
			return
		}
		if f.Amount.IsNegative() {
			s.writeError(w, r, fmt.Errorf("%w: amount must not be negative", errInvalidInput))
			return
		}
		deposits = append(deposits, investment.DepositInput{Ticker: f.Ticker, Amount: *f.Amount})
	}

	if err := s.investments.AddDeposits(r.Context(), userID(r), date, deposits); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDeposits(w http.ResponseWriter, r *http.Request) {
	var req deleteDepositRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Tickers == nil {
		s.writeError(w, r, fmt.Errorf("%w: tickers is required", errInvalidInput))
		return
	}

	if err := s.investments.DeleteDeposits(r.Context(), userID(r), date, req.Tickers); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isJSON(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}

func decodeJSON(r *http.Request, v interface{}) error {
	if !isJSON(r) {
		return fmt.Errorf("%w: expected application/json", errInvalidInput)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	return nil
}

func parseDate(value string) (civil.Date, error) {
	date, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: date must be YYYY-MM-DD", errInvalidInput)
	}
	return date, nil
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
