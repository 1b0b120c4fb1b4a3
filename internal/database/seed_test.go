package database

import (
	"fmt"
	"testing"

	"zaiko-backend/internal/models"

	qt "github.com/frankban/quicktest"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeed(t *testing.T) {
	c := qt.New(t)
	db := openTestDB(t)

	c.Assert(Seed(db), qt.IsNil)

	var storehouses, stocks, users int64
	db.Model(&models.Storehouse{}).Count(&storehouses)
	db.Model(&models.Stock{}).Count(&stocks)
	db.Model(&models.User{}).Count(&users)

	c.Assert(storehouses, qt.Equals, int64(3))
	c.Assert(stocks, qt.Equals, int64(7))
	c.Assert(users, qt.Equals, int64(1))

	var zaiko3 models.Stock
	c.Assert(db.First(&zaiko3, "name = ?", "zaiko3").Error, qt.IsNil)
	c.Assert(zaiko3.Condition, qt.Equals, models.ConditionUsed)
	c.Assert(zaiko3.Quantity, qt.Equals, 9)
}

func TestSeedIsIdempotent(t *testing.T) {
	c := qt.New(t)
	db := openTestDB(t)

	c.Assert(Seed(db), qt.IsNil)
	c.Assert(Seed(db), qt.IsNil)

	var stocks int64
	db.Model(&models.Stock{}).Count(&stocks)
	c.Assert(stocks, qt.Equals, int64(7))
}

func TestMigrateEnforcesStockNameUniqueness(t *testing.T) {
	c := qt.New(t)
	db := openTestDB(t)

	store := models.Storehouse{Name: "store1"}
	c.Assert(db.Create(&store).Error, qt.IsNil)

	c.Assert(db.Create(&models.Stock{Name: "dup", StorehouseID: store.ID}).Error, qt.IsNil)
	err := db.Create(&models.Stock{Name: "dup", StorehouseID: store.ID}).Error
	c.Assert(err, qt.IsNotNil)
}
