package terms

import "time"

// Resolve computes a due date from an anchor date plus a term offset in
// calendar days. No business-day adjustment is applied; a zero offset
// returns the anchor unchanged. When no term applies the caller must supply
// the due date explicitly, the resolver never guesses.
func Resolve(anchor time.Time, days int) time.Time {
	if days == 0 {
		return anchor
	}
	return anchor.AddDate(0, 0, days)
}
