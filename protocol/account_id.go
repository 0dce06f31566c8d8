package protocol

// AccountID names an account of the host identity subsystem. The ledger
// never creates or verifies accounts itself; it only references them by ID.
//
// An ID is 1 to 12 characters drawn from a-z, 1-5, and '.'.
type AccountID string

func (id AccountID) String() string { return string(id) }

// Valid reports whether the ID satisfies the host naming rule.
func (id AccountID) Valid() bool {
	if len(id) < 1 || len(id) > 12 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '1' && c <= '5':
		case c == '.':
		default:
			return false
		}
	}
	return true
}
