package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"vitrina/internal/database"
	"vitrina/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory database with every table migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db        *gorm.DB
	tools     models.Category
	toys      models.Category
	acme      models.Creator
	globex    models.Creator
	base      time.Time
	createdAt int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:     db,
		tools:  models.Category{Name: "tools", Color: "red"},
		toys:   models.Category{Name: "toys", Color: "blue"},
		acme:   models.Creator{Brand: "Acme", Name: "Acme Corp"},
		globex: models.Creator{Brand: "Globex", Name: "Globex Inc"},
		base:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, c := range []*models.Category{&f.tools, &f.toys} {
		require.NoError(t, db.Create(c).Error)
	}
	for _, c := range []*models.Creator{&f.acme, &f.globex} {
		require.NoError(t, db.Create(c).Error)
	}
	return f
}

// product inserts a product. Each call gets a later creation time than the previous
// one unless at is given.
func (f *fixture) product(t *testing.T, name string, category *models.Category, creator models.Creator, rating int, at ...time.Time) models.Product {
	t.Helper()
	p := models.Product{Name: name, CreatorID: creator.ID, Rating: rating}
	if category != nil {
		p.CategoryID = &category.ID
	}
	if len(at) > 0 {
		p.CreatedAt = at[0]
	} else {
		f.createdAt++
		p.CreatedAt = f.base.Add(time.Duration(f.createdAt) * time.Minute)
	}
	require.NoError(t, f.db.WithContext(context.Background()).Create(&p).Error)
	return p
}

func floatPtr(v float64) *float64 { return &v }
