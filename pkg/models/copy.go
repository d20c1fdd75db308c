package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Copy statuses. A copy starts in maintenance until it's stocked on a shelf.
const (
	StatusMaintenance = "maintenance"
	StatusOnLoan      = "on_loan"
	StatusAvailable   = "available"
	StatusReserved    = "reserved"
)

// CopyStatuses lists every valid status value.
var CopyStatuses = []string{StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved}

// Copy is a single loanable unit of a Book, tracked independently of the
// title record. IDs are UUIDs so a copy is identifiable across the whole
// library, not just within one title.
type Copy struct {
	bun.BaseModel `bun:"table:copies,alias:c"`

	ID         string     `bun:",pk" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	BookID     *int       `json:"book_id"`
	Imprint    string     `json:"imprint"`
	Status     string     `bun:",nullzero" json:"status"`
	DueBack    *time.Time `json:"due_back"`
	BorrowerID *int       `json:"borrower_id,omitempty"`

	// Relations
	Book     *Book `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	Borrower *User `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`
}

// NewCopy returns a Copy for the given book with a fresh UUID and the
// default maintenance status.
func NewCopy(bookID int) *Copy {
	now := time.Now()
	return &Copy{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		BookID:    &bookID,
		Status:    StatusMaintenance,
	}
}

// IsOverdue reports whether the copy's due date has passed: a due date is
// set and is strictly before today. Copies with no due date are never
// overdue.
func (c *Copy) IsOverdue(today time.Time) bool {
	if c.DueBack == nil {
		return false
	}
	y1, m1, d1 := c.DueBack.Date()
	y2, m2, d2 := today.Date()
	due := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	now := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return due.Before(now)
}
