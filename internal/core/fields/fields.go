// Package fields locates delimiter-separated columns inside one raw line
// without copying or allocating
// Scan records delimiter offsets into a fixed array, Field slices between them
package fields

// MaxDelims bounds how many delimiter offsets a single Scan records
// trip logs carry 6 columns, the extra slots tolerate a few trailing columns
const MaxDelims = 10

// MinDelims is the minimum delimiter count for a structurally valid trip line
const MinDelims = 5

// Comma is the fixed trip log separator
const Comma = ','

// Positions holds delimiter offsets for one line
// zero value is an empty scan
type Positions struct {
	at [MaxDelims]int
	n  int
}

// Scan records up to MaxDelims offsets of sep in line, left to right
// further delimiters are counted as absent, the line stays valid
func Scan(line []byte, sep byte) Positions {
	var p Positions
	for i := 0; i < len(line); i++ {
		if line[i] != sep {
			continue
		}
		p.at[p.n] = i
		p.n++
		if p.n == MaxDelims {
			break
		}
	}
	return p
}

// Count returns how many delimiters were recorded
func (p *Positions) Count() int { return p.n }

// Valid reports whether enough delimiters were found for a trip line
func (p *Positions) Valid() bool { return p.n >= MinDelims }

// Field returns the bytes between delimiter i-1 and delimiter i, a view into line
// Field(0) is the leading column, Field(k) lies between the kth and (k+1)th delimiter
// ok is false when the bounding delimiters were not recorded
func (p *Positions) Field(line []byte, i int) (b []byte, ok bool) {
	if i < 0 || i >= p.n {
		return nil, false
	}
	start := 0
	if i > 0 {
		start = p.at[i-1] + 1
	}
	return line[start:p.at[i]], true
}

// isSpace matches the trimmed byte set: space, tab, CR, LF
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Trim removes leading and trailing space, tab, CR and LF
// all-whitespace input returns an empty (non-nil when b is non-nil) view
func Trim(b []byte) []byte {
	lo := 0
	for lo < len(b) && isSpace(b[lo]) {
		lo++
	}
	hi := len(b)
	for hi > lo && isSpace(b[hi-1]) {
		hi--
	}
	return b[lo:hi]
}
