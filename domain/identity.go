package domain

import "strconv"

// Identity is the key suggestion views are tracked under: the authenticated
// customer when present, otherwise the storefront session.
type Identity struct {
	CustomerID *uint64
	SessionID  string
}

func (i Identity) IsGuest() bool {
	return i.CustomerID == nil
}

// Valid reports whether views can be attributed to this identity.
func (i Identity) Valid() bool {
	return i.CustomerID != nil || i.SessionID != ""
}

func (i Identity) String() string {
	if i.CustomerID != nil {
		return "customer:" + strconv.FormatUint(*i.CustomerID, 10)
	}
	return "session:" + i.SessionID
}
