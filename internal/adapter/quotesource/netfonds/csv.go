package netfonds

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// WireDateFormat is the 8-digit date format of the quote service
const WireDateFormat = "20060102"

// columns maps the header row onto record indexes, -1 when absent
type columns struct {
	date, paper, open, high, low, close, volume, value int
}

func parseHeader(header []string) (columns, error) {
	cols := columns{date: 0, paper: -1, open: -1, high: -1, low: -1, close: -1, volume: -1, value: -1}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "paper", "ticker":
			cols.paper = i
		case "open":
			cols.open = i
		case "high":
			cols.high = i
		case "low":
			cols.low = i
		case "close":
			cols.close = i
		case "volume":
			cols.volume = i
		case "value":
			cols.value = i
		}
	}

	if cols.close < 0 {
		return cols, fmt.Errorf("%w: no close column in header %v", domain.ErrMalformedQuotes, header)
	}
	return cols, nil
}

// ParseCSV reads a header row followed by one quote per row.
// The first column holds the date in WireDateFormat; the close column is required
// and must be positive. Missing optional numeric fields read as zero.
func ParseCSV(r io.Reader, ticker string) ([]domain.Quote, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Quote{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedQuotes, err)
	}

	cols, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedQuotes, err)
		}

		q, err := parseRecord(record, cols, ticker)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		quotes = append(quotes, q)
	}

	return quotes, nil
}

func parseRecord(record []string, cols columns, ticker string) (domain.Quote, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	on, err := time.Parse(WireDateFormat, field(cols.date))
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: invalid date %q", domain.ErrMalformedQuotes, field(cols.date))
	}

	q := domain.Quote{
		Date:   civil.DateOf(on),
		Ticker: ticker,
	}
	if paper := field(cols.paper); paper != "" {
		q.Ticker = paper
	}

	q.Close, err = decimal.NewFromString(field(cols.close))
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: invalid close %q", domain.ErrMalformedQuotes, field(cols.close))
	}
	if !q.Close.IsPositive() {
		return domain.Quote{}, fmt.Errorf("%w: %s on %s", domain.ErrInvalidPrice, q.Close, q.Date)
	}

	optional := []struct {
		idx int
		dst *decimal.Decimal
	}{
		{cols.open, &q.Open},
		{cols.high, &q.High},
		{cols.low, &q.Low},
		{cols.volume, &q.Volume},
		{cols.value, &q.Value},
	}
	for _, o := range optional {
		raw := field(o.idx)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.Quote{}, fmt.Errorf("%w: invalid number %q", domain.ErrMalformedQuotes, raw)
		}
		*o.dst = v
	}

	return q, nil
}
