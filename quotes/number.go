package quotes

import (
	"fmt"
	"time"
)

// FormatQuoteNumber renders a sequence as the display code QT-DD/MM/YY-XXX.
// Day and month come from the allocation time, YY are the last two digits of
// the year, and the sequence is zero-padded to at least three digits (wider
// sequences keep all their digits). The code is display-only; uniqueness is
// guaranteed by (quote_year, quote_sequence).
func FormatQuoteNumber(t time.Time, sequence int) string {
	return fmt.Sprintf("QT-%02d/%02d/%02d-%03d",
		t.Day(), int(t.Month()), t.Year()%100, sequence)
}
