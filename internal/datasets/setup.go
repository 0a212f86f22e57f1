package datasets

import (
	"log"

	"github.com/DataAtlasHQ/DA-Backend/internal/db"
)

func Init() {
	// Ensure the datasets schema exists first
	if err := db.EnsureSchema(db.DB, "datasets"); err != nil {
		log.Fatal("Failed to create datasets schema: ", err)
	}

	if err := db.DB.AutoMigrate(&Dataset{}, &AnnotationDoc{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
