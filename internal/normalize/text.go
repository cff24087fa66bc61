package normalize

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"socialfeed/internal/model"
)

// Initials returns the uppercased first letters of the first two words of
// name, or the placeholder when name is blank.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return model.InitialsPlaceholder
	}
	if len(words) > 2 {
		words = words[:2]
	}
	var b strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// RelativeTime renders the time elapsed since ts as minutes ("5m"), hours
// ("3h") or days ("2g"). A nil ts counts as now. The smallest value shown
// is 1.
func RelativeTime(ts *time.Time, now time.Time) string {
	at := now
	if ts != nil && !ts.IsZero() {
		at = *ts
	}
	minutes := max(int(now.Sub(at)/time.Minute), 1)
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%dh", minutes/60)
	default:
		return fmt.Sprintf("%dg", minutes/1440)
	}
}
