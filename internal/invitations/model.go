package invitations

import "time"

// Status is the lifecycle state of an invitation. Codes are created by the
// record authority and only ever move away from active; this service never
// deletes them.
type Status string

const (
	StatusActive    Status = "active"
	StatusUsed      Status = "used"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Source marks where a resolved invitation was read from. It is observability
// metadata only and is never persisted.
type Source string

const (
	SourceLocalCache Source = "local-cache"
	SourceAuthority  Source = "authority"
)

// CodeLength is the fixed length of an invitation code.
const CodeLength = 8

// Invitation mirrors a record-authority invitation into the local store.
type Invitation struct {
	Code         string    `json:"code"`
	CompanyName  string    `json:"companyName"`
	ContactEmail string    `json:"contactEmail"`
	Notes        string    `json:"notes"`
	Status       Status    `json:"status"`
	Source       Source    `json:"source,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
