package http

import (
	"errors"
	"net/http"

	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// errInvalidInput marks malformed request bodies
var errInvalidInput = errors.New("invalid input")

// statusFor maps the domain error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var fetchErr *domain.SourceFetchError

	switch {
	case errors.Is(err, domain.ErrInvalidSession):
		return http.StatusUnauthorized
	case errors.Is(err, errInvalidInput),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidFund):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownFund),
		errors.Is(err, domain.ErrDepositNotFound),
		errors.Is(err, domain.ErrPortfolioNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateFund),
		errors.Is(err, domain.ErrDuplicateDeposit):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTicker),
		errors.Is(err, domain.ErrQuoteDateNotFound),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrNotEnoughData):
		return http.StatusUnprocessableEntity
	case errors.As(err, &fetchErr),
		errors.Is(err, domain.ErrMalformedQuotes):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes {"message": ...} with the mapped status.
// Unexpected errors are logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		message = http.StatusText(status)
	}

	s.writeJSON(w, status, map[string]string{
		"message": message,
	})
}
