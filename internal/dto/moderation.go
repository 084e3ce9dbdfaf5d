package dto

import (
	"encoding/json"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// ModerationFacets lists the distinct filter values of the queue.
type ModerationFacets struct {
	Subjects []string `json:"subjects"`
	Classes  []string `json:"classes"`
	Types    []string `json:"types"`
}

// ModerationExportQuery selects the export format and filter.
type ModerationExportQuery struct {
	models.ModerationFilter
	Format string `form:"format"`
}

// PublishRequest carries the material body written to the content repository.
type PublishRequest struct {
	Content json.RawMessage `json:"content" validate:"required"`
}

// PublishResponse returns where the material landed and the stamped record.
type PublishResponse struct {
	models.PublishResult
	Record *models.ModerationRecord `json:"record,omitempty"`
}

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
