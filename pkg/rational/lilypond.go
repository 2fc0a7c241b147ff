package rational

import (
	"strconv"
	"strings"
)

// LilyPond names for durations longer than a whole note.
const (
	lilyBreve  = `\breve`
	lilyLonga  = `\longa`
	lilyMaxima = `\maxima`
)

// LilyPondString renders an assignable duration in LilyPond syntax:
// "8" for 1/8, "4." for 3/8, "\breve" for 2/1. The second result is
// false when the duration cannot be written as a single notehead.
func (d Duration) LilyPondString() (string, bool) {
	log, dots, ok := d.DurationLog()
	if !ok {
		return "", false
	}

	var buf strings.Builder

	switch {
	case log >= 0:
		buf.WriteString(strconv.FormatInt(1<<uint(log), 10))
	case log == -1:
		buf.WriteString(lilyBreve)
	case log == -2:
		buf.WriteString(lilyLonga)
	case log == -3:
		buf.WriteString(lilyMaxima)
	default:
		return "", false
	}

	for i := 0; i < dots; i++ {
		buf.WriteByte('.')
	}

	return buf.String(), true
}
