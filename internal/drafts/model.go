package drafts

import (
	"encoding/json"
	"time"
)

// Draft is a resumable snapshot of in-progress form data, one row per
// invitation code. The form payload is opaque to this service.
type Draft struct {
	InvitationCode string          `json:"invitationCode"`
	FormData       json.RawMessage `json:"formData"`
	CurrentStep    int             `json:"currentStep"`
	LastSaved      time.Time       `json:"lastSaved"`
}
