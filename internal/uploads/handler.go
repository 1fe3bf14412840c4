package uploads

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"epc-portal-backend/internal/applications"
	"epc-portal-backend/internal/invitations"
	"epc-portal-backend/internal/shared/server/respond"
	"epc-portal-backend/internal/shared/storage/object"
	"epc-portal-backend/internal/shared/telemetry"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler accepts supporting-document uploads. The blob is written strictly
// before the metadata row; a metadata write failure is logged and absorbed
// because the blob key returned to the client is already durable.
type Handler struct {
	Store object.ObjectStore
	Files applications.FilesRepo
}

func NewHandler(store object.ObjectStore, files applications.FilesRepo) *Handler {
	return &Handler{Store: store, Files: files}
}

// RegisterRoutes attaches the upload route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload-file", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	code := strings.ToUpper(strings.TrimSpace(c.PostForm("invitationCode")))
	if len(code) != invitations.CodeLength {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invitationCode must be exactly 8 characters", nil)
		return
	}
	c.Set("invitationCode", code)

	fieldName := strings.TrimSpace(c.PostForm("fieldName"))
	if fieldName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fieldName is required", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	storageKey, size, mimeType, err := h.Store.Save(c.Request.Context(), code, fileHeader.Filename, file)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to store file", nil)
		return
	}

	rec := applications.FileRecord{
		ID:               uuid.NewString(),
		InvitationCode:   code,
		FieldName:        fieldName,
		OriginalFilename: fileHeader.Filename,
		Size:             size,
		ContentType:      mimeType,
		StoragePath:      storageKey,
		UploadDate:       time.Now().UTC(),
	}
	if err := h.Files.CreateFile(c.Request.Context(), rec); err != nil {
		telemetry.Warn("upload.metadata.failed", map[string]any{
			"invitation_code": code,
			"field_name":      fieldName,
			"storage_path":    storageKey,
			"err":             err.Error(),
		})
	}

	respond.OK(c, gin.H{
		"success":  true,
		"fileKey":  storageKey,
		"metadata": rec,
	})
}
