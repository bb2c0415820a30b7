package contacts

import "time"

// Contact is an address-book record owned by exactly one user. DisplayName
// is the optional combined-name field kept for compatibility with imports
// that carry a single name string.
type Contact struct {
	ID          int64
	OwnerID     int64
	FirstName   string
	LastName    string
	DisplayName *string
	Email       string
	Phone       string
	Birthday    *time.Time
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewContact carries the fields accepted at creation.
type NewContact struct {
	FirstName   string
	LastName    string
	DisplayName *string
	Email       string
	Phone       string
	Birthday    *time.Time
	Notes       *string
}

// ContactUpdate is a partial update. Nil fields retain their prior values.
type ContactUpdate struct {
	FirstName   *string
	LastName    *string
	DisplayName *string
	Email       *string
	Phone       *string
	Birthday    *time.Time
	Notes       *string
}
