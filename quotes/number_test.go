package quotes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatQuoteNumber(t *testing.T) {
	cases := []struct {
		name     string
		at       time.Time
		sequence int
		want     string
	}{
		{
			name:     "pads day month and sequence",
			at:       time.Date(2025, time.March, 7, 10, 30, 0, 0, time.UTC),
			sequence: 3,
			want:     "QT-07/03/25-003",
		},
		{
			name:     "two digit sequence keeps three digit padding",
			at:       time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC),
			sequence: 45,
			want:     "QT-02/01/26-045",
		},
		{
			name:     "sequence past 999 widens without truncation",
			at:       time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC),
			sequence: 1234,
			want:     "QT-31/12/24-1234",
		},
		{
			name:     "first quote of a year",
			at:       time.Date(2030, time.June, 15, 12, 0, 0, 0, time.UTC),
			sequence: 1,
			want:     "QT-15/06/30-001",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatQuoteNumber(tc.at, tc.sequence))
		})
	}
}
