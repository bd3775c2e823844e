package catalog

import (
	"time"

	"github.com/google/uuid"
)

// MediaRecord is one entry in the media library. JSON field names match the
// contract the frontend was built against.
type MediaRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"`
	IsVideo   bool   `json:"isVideo"`
	Formation string `json:"formation,omitempty"`
}

// NewMediaRecord builds a record for a freshly uploaded file. Preloaded
// records reset Timestamp to 0 afterwards so user uploads sort above them.
func NewMediaRecord(name, path string, isVideo bool) *MediaRecord {
	return &MediaRecord{
		ID:        uuid.New().String(),
		Name:      name,
		Path:      path,
		Timestamp: time.Now().UnixMilli(),
		IsVideo:   isVideo,
	}
}
