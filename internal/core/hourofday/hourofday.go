// Package hourofday pulls the hour out of a "<date> <hour>..." timestamp
// Grammar, applied to an already trimmed fragment
// 1 fragments shorter than 10 bytes fail
// 2 the first space separates date from time, no space fails
// 3 at least two bytes must follow the space
// 4 two digits give a two digit hour
// 5 a digit followed by ':' or ' ' gives a single digit hour
// 6 anything else fails
// Bounds are not checked here, 24..99 come back as-is for the caller to reject
package hourofday

// Invalid is returned when the fragment does not match the grammar
const Invalid = -1

// minLen is the shortest fragment that can hold a date and an hour
const minLen = 10

// Extract returns the hour encoded after the first space of b, or Invalid
// the byte following a two digit hour is not inspected
func Extract(b []byte) int {
	if len(b) < minLen {
		return Invalid
	}
	sp := -1
	for i := 0; i < len(b); i++ {
		if b[i] == ' ' {
			sp = i
			break
		}
	}
	if sp < 0 || sp+2 >= len(b) {
		return Invalid
	}

	c1, c2 := b[sp+1], b[sp+2]
	if !isDigit(c1) {
		return Invalid
	}
	switch {
	case isDigit(c2):
		return int(c1-'0')*10 + int(c2-'0')
	case c2 == ':' || c2 == ' ':
		return int(c1 - '0')
	}
	return Invalid
}

// InRange reports whether h is a usable hour of day
func InRange(h int) bool { return h >= 0 && h <= 23 }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
