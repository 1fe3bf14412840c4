package applications

import "time"

// FileRecord is the metadata for one uploaded document. The blob itself is
// opaque and lives in the object store; storage_path must reference a blob
// that was written before this record.
type FileRecord struct {
	ID               string    `json:"-"`
	InvitationCode   string    `json:"-"`
	FieldName        string    `json:"field"`
	OriginalFilename string    `json:"originalName"`
	Size             int64     `json:"size"`
	ContentType      string    `json:"contentType"`
	StoragePath      string    `json:"blobKey"`
	UploadDate       time.Time `json:"uploadDate"`
}

// Application is a submitted application row. ReferenceNumber is assigned
// exactly once at creation and never changes.
type Application struct {
	ReferenceNumber string         `json:"referenceNumber"`
	InvitationCode  string         `json:"invitationCode"`
	Status          Status         `json:"status"`
	FormData        map[string]any `json:"formData"`
	Files           []FileRecord   `json:"fileMetadata"`
	ProcessingNotes string         `json:"processingNotes"`
	SubmissionDate  time.Time      `json:"submissionDate"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
