package datasets

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Dataset is one registered dataset and its column inventory.
type Dataset struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Maintainer  string         `json:"maintainer"`
	Columns     pq.StringArray `gorm:"type:text[]" json:"columns"`
	Published   bool           `gorm:"default:false" json:"published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// AnnotationDoc holds a dataset's annotation document in the backend's
// category-grouped shape, plus the column hints produced by type
// inference and a free-form statistics blob.
type AnnotationDoc struct {
	DatasetID string          `gorm:"primaryKey" json:"dataset_id"`
	Document  json.RawMessage `gorm:"type:jsonb" json:"document"`
	Hints     json.RawMessage `gorm:"type:jsonb" json:"hints"`
	Stats     json.RawMessage `gorm:"type:jsonb" json:"stats"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Dataset) TableName() string {
	return "datasets.datasets"
}

func (AnnotationDoc) TableName() string {
	return "datasets.annotation_docs"
}
