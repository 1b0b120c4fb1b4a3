package database

import (
	"log"
	"time"

	"zaiko-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed loads deterministic development fixtures: a login user, three
// storehouses and seven stocks. It is a no-op when storehouses already exist.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Storehouse{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{Name: "user1", PasswordHash: string(hash)}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	storehouses := []models.Storehouse{
		{Name: "store1"},
		{Name: "store2"},
		{Name: "store3"},
	}
	if err := db.Create(&storehouses).Error; err != nil {
		return err
	}

	date := func(value string) time.Time {
		d, err := time.Parse("2006-01-02 15:04:05", value)
		if err != nil {
			panic(err)
		}
		return d
	}

	stocks := []models.Stock{
		{Name: "zaiko1", ColorNumber: "black", Quantity: 10, ManufacturingDate: date("2020-07-02 16:04:05"), Condition: models.ConditionUnused, StorehouseID: storehouses[0].ID},
		{Name: "zaiko2", ColorNumber: "black", Quantity: 12, ManufacturingDate: date("2020-07-02 16:10:05"), Condition: models.ConditionUnused, StorehouseID: storehouses[0].ID},
		{Name: "zaiko3", ColorNumber: "black", Quantity: 9, ManufacturingDate: date("2020-07-02 20:04:05"), Condition: models.ConditionUsed, StorehouseID: storehouses[1].ID},
		{Name: "zaiko4", ColorNumber: "black", Quantity: 3, ManufacturingDate: date("2020-07-03 16:04:05"), Condition: models.ConditionUnused, StorehouseID: storehouses[1].ID},
		{Name: "zaiko5", ColorNumber: "black", Quantity: 21, ManufacturingDate: date("2020-07-05 16:04:05"), Condition: models.ConditionUsed, StorehouseID: storehouses[2].ID},
		{Name: "zaiko6", ColorNumber: "black", Quantity: 33, ManufacturingDate: date("2020-07-06 08:04:05"), Condition: models.ConditionUnused, StorehouseID: storehouses[2].ID},
		{Name: "zaiko7", ColorNumber: "black", Quantity: 15, ManufacturingDate: date("2020-07-08 16:04:05"), Condition: models.ConditionUnused, StorehouseID: storehouses[2].ID},
	}
	if err := db.Create(&stocks).Error; err != nil {
		return err
	}

	log.Println("Seed data loaded.")
	return nil
}
