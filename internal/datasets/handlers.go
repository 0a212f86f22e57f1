package datasets

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/DataAtlasHQ/DA-Backend/internal/annotations"
	"github.com/DataAtlasHQ/DA-Backend/internal/db"
	"github.com/DataAtlasHQ/DA-Backend/internal/utils"
)

func ListDatasets(w http.ResponseWriter, r *http.Request) {
	var list []Dataset

	if err := db.DB.Order("created_at").Find(&list).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func GetDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dataset Dataset
	if err := db.DB.First(&dataset, "id = ?", id).Error; err != nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dataset)
}

// loadDocument returns the stored annotation document for a dataset,
// decoded into the category-grouped shape. A dataset with no saved
// document yet gets an empty set.
func loadDocument(datasetID string) (annotations.AnnotationSet, error) {
	var doc AnnotationDoc
	err := db.DB.First(&doc, "dataset_id = ?", datasetID).Error
	if err == gorm.ErrRecordNotFound {
		return annotations.AnnotationSet{}, nil
	}
	if err != nil {
		return annotations.AnnotationSet{}, err
	}

	var set annotations.AnnotationSet
	if len(doc.Document) > 0 {
		if err := json.Unmarshal(doc.Document, &set); err != nil {
			return annotations.AnnotationSet{}, err
		}
	}
	return set, nil
}

func GetAnnotations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dataset Dataset
	if err := db.DB.First(&dataset, "id = ?", id).Error; err != nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}

	set, err := loadDocument(id)
	if err != nil {
		http.Error(w, "Failed to load annotations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(set)
}

func GetFlatAnnotations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dataset Dataset
	if err := db.DB.First(&dataset, "id = ?", id).Error; err != nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}

	set, err := loadDocument(id)
	if err != nil {
		http.Error(w, "Failed to load annotations", http.StatusInternalServerError)
		return
	}

	flat := annotations.Normalize(set)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(flat)
}

func GetColumnDefaults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	column := chi.URLParam(r, "column")

	var dataset Dataset
	if err := db.DB.First(&dataset, "id = ?", id).Error; err != nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}

	found := false
	for _, name := range dataset.Columns {
		if name == column {
			found = true
			break
		}
	}
	if !found {
		http.Error(w, "Column not found", http.StatusNotFound)
		return
	}

	var hint *annotations.ColumnHint
	var doc AnnotationDoc
	err := db.DB.First(&doc, "dataset_id = ?", id).Error
	if err == nil && len(doc.Hints) > 0 {
		hints := map[string]annotations.ColumnHint{}
		if err := json.Unmarshal(doc.Hints, &hints); err == nil {
			if h, ok := hints[column]; ok {
				hint = &h
			}
		}
	}

	entry := annotations.InitialValues(hint, dataset.Columns)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

func CreateDataset(w http.ResponseWriter, r *http.Request) {
	var dataset Dataset

	if err := json.NewDecoder(r.Body).Decode(&dataset); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if dataset.Name == "" || len(dataset.Columns) == 0 {
		http.Error(w, "Name and columns are required", http.StatusBadRequest)
		return
	}

	if dataset.Maintainer == "" {
		if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
			dataset.Maintainer = userID
		}
	}

	dataset.ID = utils.GenerateUUID()
	dataset.Published = false

	if err := db.DB.Create(&dataset).Error; err != nil {
		http.Error(w, "Failed to create dataset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dataset)
}

// ValidationResponse is the structured body returned for annotation
// submissions and live column validation.
type ValidationResponse struct {
	FieldErrors map[string]annotations.FieldErrors `json:"field_errors,omitempty"`
	Errors      []string                           `json:"errors,omitempty"`
	Warnings    []string                           `json:"warnings,omitempty"`
}

func UpdateAnnotations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dataset Dataset
	if err := db.DB.First(&dataset, "id = ?", id).Error; err != nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}

	var flat map[string]annotations.FlatEntry
	if err := json.NewDecoder(r.Body).Decode(&flat); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cleaned := make(map[string]annotations.FlatEntry, len(flat))
	fieldErrors := map[string]annotations.FieldErrors{}
	for column, entry := range flat {
		entry = annotations.CleanUnusedFields(entry)
		cleaned[column] = entry

		if errs := annotations.VerifyConditionalRequiredFields(entry); !errs.Empty() {
			fieldErrors[column] = errs
		}
	}

	report := annotations.ValidateRequirements(cleaned)

	if len(fieldErrors) > 0 || report.Blocked() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(ValidationResponse{
			FieldErrors: fieldErrors,
			Errors:      report.Errors,
			Warnings:    report.Warnings,
		})
		return
	}

	set := annotations.Denormalize(cleaned)
	raw, err := json.Marshal(set)
	if err != nil {
		http.Error(w, "Failed to encode annotations", http.StatusInternalServerError)
		return
	}

	var doc AnnotationDoc
	err = db.DB.First(&doc, "dataset_id = ?", id).Error
	switch {
	case err == nil:
		doc.Document = raw
		doc.UpdatedAt = time.Now()
		if err := db.DB.Save(&doc).Error; err != nil {
			http.Error(w, "Failed to save annotations", http.StatusInternalServerError)
			return
		}
	case err == gorm.ErrRecordNotFound:
		doc = AnnotationDoc{DatasetID: id, Document: raw, UpdatedAt: time.Now()}
		if err := db.DB.Create(&doc).Error; err != nil {
			http.Error(w, "Failed to save annotations", http.StatusInternalServerError)
			return
		}
	default:
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ValidationResponse{Warnings: report.Warnings})
}

// ValidateColumn runs the per-column form rules against the submitted
// entry without persisting anything. The form layer calls this on
// every edit to show inline errors.
func ValidateColumn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dataset Dataset
	if err := db.DB.First(&dataset, "id = ?", id).Error; err != nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}

	var input struct {
		Column string                           `json:"column"`
		Entry  annotations.FlatEntry            `json:"entry"`
		All    map[string]annotations.FlatEntry `json:"all"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Column == "" {
		http.Error(w, "Column is required", http.StatusBadRequest)
		return
	}

	// The form can send its current working set; fall back to the
	// stored document when it doesn't.
	all := input.All
	if all == nil {
		set, err := loadDocument(id)
		if err != nil {
			http.Error(w, "Failed to load annotations", http.StatusInternalServerError)
			return
		}
		all = annotations.Normalize(set).Annotations
	}

	errs := annotations.VerifyQualifierPrimaryRules(input.Entry, all, input.Column)
	for field, messages := range annotations.VerifyConditionalRequiredFields(input.Entry) {
		for _, msg := range messages {
			errs[field] = append(errs[field], msg)
		}
	}

	response := ValidationResponse{}
	if !errs.Empty() {
		response.FieldErrors = map[string]annotations.FieldErrors{input.Column: errs}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func PublishDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dataset Dataset
	if err := db.DB.First(&dataset, "id = ?", id).Error; err != nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}

	set, err := loadDocument(id)
	if err != nil {
		http.Error(w, "Failed to load annotations", http.StatusInternalServerError)
		return
	}

	report := annotations.ValidateRequirements(annotations.Normalize(set).Annotations)
	if report.Blocked() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(ValidationResponse{
			Errors:   report.Errors,
			Warnings: report.Warnings,
		})
		return
	}

	if err := db.DB.Model(&dataset).Update("published", true).Error; err != nil {
		http.Error(w, "Failed to publish dataset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ValidationResponse{Warnings: report.Warnings})
}
