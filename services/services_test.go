package services

import (
	"fmt"
	"strings"
	"testing"

	"drug-graph/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB öffnet eine isolierte In-Memory-Datenbank mit migriertem Schema.
// Der benannte Shared-Cache hält die Datenbank über alle Pool-Verbindungen
// eines Tests am Leben.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Type{},
		&models.Drug{},
		&models.Group{},
		&models.Category{},
		&models.Alias{},
		&models.AtcCode{},
		&models.Patent{},
		&models.DrugXref{},
		&models.Species{},
		&models.Protein{},
		&models.Action{},
		&models.Article{},
		&models.DrugProteinInteraction{},
	))
	return db
}
