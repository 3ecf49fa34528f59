package models

import (
	"time"

	"github.com/Ramsey-B/magnolia/internal/platform/database"
)

// DataSourceStatus tracks an ingest's lifecycle.
type DataSourceStatus string

const (
	DataSourceStatusUploaded  DataSourceStatus = "uploaded"
	DataSourceStatusMapped    DataSourceStatus = "mapped"
	DataSourceStatusProcessed DataSourceStatus = "processed"
	DataSourceStatusFailed    DataSourceStatus = "failed"
)

// DataSource describes an ingest: name, file type, the column mapping
// chosen for import, and status. Owns its CustomerRecords; deleting a
// DataSource cascades to them.
type DataSource struct {
	ID          string                            `json:"id" db:"id"`
	Name        string                            `json:"name" db:"name"`
	FileType    string                            `json:"file_type" db:"file_type"`
	FilePath    string                             `json:"file_path" db:"file_path"`
	Mapping     database.JSONB[map[string]string] `json:"mapping" db:"mapping"`
	Status      DataSourceStatus                  `json:"status" db:"status"`
	RecordCount int                               `json:"record_count" db:"record_count"`
	CreatedAt   time.Time                         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time                         `json:"updated_at" db:"updated_at"`
}
