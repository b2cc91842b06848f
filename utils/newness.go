package utils

import "time"

// NewReleaseWindowDays is how many calendar days a shoe counts as newly released
const NewReleaseWindowDays = 30

// IsNewShoe reports whether a shoe released on releaseDate is still new at now.
// releaseDate is a calendar date and now is compared by its own calendar date;
// the window is inclusive and release dates in the future count as new.
func IsNewShoe(releaseDate, now time.Time) bool {
	return daysBetween(releaseDate, now) <= NewReleaseWindowDays
}

// daysBetween returns the number of calendar days from a to b
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	// UTC midnights avoid DST-length days
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
