package fraction

import "strings"

// CollationName is the SQL collation registered by the store.
const CollationName = "RATIONAL"

// Collate orders two "num/den" strings by their exact rational value.
//
// SQLite requires a total order from a collation, so text that does not
// parse sorts after every valid key and bytewise among itself.
func Collate(a, b string) int {
	fa, errA := Parse(a)
	fb, errB := Parse(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	return Compare(fa, fb)
}
