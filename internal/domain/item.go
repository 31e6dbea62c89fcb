package domain

import (
	"errors"
	"time"
)

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrSelfContact    = errors.New("cannot contact yourself")
	ErrSelfClaim      = errors.New("poster cannot claim their own item")
	ErrClaimGate      = errors.New("must contact the poster before claiming")
	ErrAlreadyClaimed = errors.New("item is already claimed")
)

// ItemStatus describes the circumstance an item was reported under,
// not its lifecycle state.
type ItemStatus string

const (
	StatusLost  ItemStatus = "lost"
	StatusFound ItemStatus = "found"
)

type Item struct {
	ID          string
	Title       string
	Description string
	CategoryID  string
	Status      ItemStatus
	Location    string
	PhotoURL    *string // nil means no photo

	PostedBy string // poster email

	// ContactRequests accumulates the identities of non-owners who have
	// messaged the poster. Membership gates claiming.
	ContactRequests []string

	Claimed   bool
	ClaimedAt *time.Time

	CreatedAt time.Time
}

// HasContactFrom reports whether email has previously contacted the poster.
func (i *Item) HasContactFrom(email string) bool {
	for _, c := range i.ContactRequests {
		if c == email {
			return true
		}
	}
	return false
}
