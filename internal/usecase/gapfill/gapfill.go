package gapfill

import (
	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// FillGaps returns a dense daily quote series covering the range of the input.
// Logic:
//  1. Walk the (ascending) series pairwise
//  2. For every calendar day missing between two entries, insert a copy of the
//     earlier entry dated that day (the close price is carried forward)
//
// The input slice is not mutated. Filling an already gap-free series returns an
// equal series. Entries that are not strictly after their predecessor are copied
// through as-is.
func FillGaps(quotes []domain.Quote) []domain.Quote {
	if len(quotes) == 0 {
		return []domain.Quote{}
	}

	filled := make([]domain.Quote, 0, len(quotes))
	filled = append(filled, quotes[0])

	for i := 1; i < len(quotes); i++ {
		prev := filled[len(filled)-1]
		for next := prev.Date.AddDays(1); next.Before(quotes[i].Date); next = next.AddDays(1) {
			synthetic := prev
			synthetic.Date = next
			filled = append(filled, synthetic)
		}
		filled = append(filled, quotes[i])
	}

	return filled
}
