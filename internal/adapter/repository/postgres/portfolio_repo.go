package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// portfolioRepository implements domain.PortfolioRepository on the users.portfolio column
type portfolioRepository struct {
	db *DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *DB) domain.PortfolioRepository {
	return &portfolioRepository{db: db}
}

// Get loads the portfolio document of a user.
// A user that never saved a portfolio gets an empty one.
func (r *portfolioRepository) Get(ctx context.Context, userID int64) (*domain.Portfolio, error) {
	query := `SELECT portfolio FROM users WHERE id = $1`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d", domain.ErrPortfolioNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	if len(raw) == 0 {
		return domain.NewPortfolio(userID), nil
	}

	var doc domain.PortfolioDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode portfolio of user %d: %w", userID, err)
	}
	doc.UserID = userID

	portfolio, err := domain.PortfolioFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio of user %d: %w", userID, err)
	}
	return portfolio, nil
}

// Save overwrites the whole portfolio document
func (r *portfolioRepository) Save(ctx context.Context, portfolio *domain.Portfolio) error {
	data, err := json.Marshal(portfolio.Document())
	if err != nil {
		return fmt.Errorf("failed to encode portfolio: %w", err)
	}

	query := `UPDATE users SET portfolio = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, data, portfolio.UserID)
	if err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrPortfolioNotFound, portfolio.UserID)
	}

	return nil
}

// ListTickers returns the distinct tickers over every stored portfolio
func (r *portfolioRepository) ListTickers(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT fund->>'ticker'
		FROM users,
			jsonb_array_elements(
				CASE WHEN jsonb_typeof(portfolio->'funds') = 'array'
					THEN portfolio->'funds'
					ELSE '[]'::jsonb
				END
			) AS fund
		WHERE fund->>'ticker' IS NOT NULL
		ORDER BY 1
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}
	defer rows.Close()

	tickers := make([]string, 0)
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickers: %w", err)
	}

	return tickers, nil
}
