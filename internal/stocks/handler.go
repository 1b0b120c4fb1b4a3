package stocks

import (
	"encoding/base64"
	"errors"
	"time"

	"zaiko-backend/internal/database"
	"zaiko-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Request bodies use the API's camelCase names while the columns stay
// snake_case; the mapping is spelled out field by field here instead of being
// derived from the struct by reflection.
type StockRequest struct {
	Name              string `json:"name"`
	ColorNumber       string `json:"colorNumber"`
	ManufacturingDate string `json:"manufacturingDate"`
	Quantity          int    `json:"quantity"`
	Condition         string `json:"condition"`
	StorehouseID      uint   `json:"storehouseId"`
	File              string `json:"file"`     // base64, optional
	FileName          string `json:"fileName"` // optional
}

type StorehouseRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type StockResponse struct {
	ID                uint             `json:"id"`
	Name              string           `json:"name"`
	ColorNumber       string           `json:"colorNumber"`
	ManufacturingDate string           `json:"manufacturingDate"`
	Quantity          int              `json:"quantity"`
	Condition         models.Condition `json:"condition"`
	Storehouse        StorehouseRef    `json:"storehouse"`
	File              *string          `json:"file"`
}

type StockListItem struct {
	ID   uint    `json:"id"`
	Name string  `json:"name"`
	File *string `json:"file"`
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		d, err := time.Parse(layout, value)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// GET /api/v1/stocks?search=
func IndexHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		search := c.Query("search")

		var list []models.Stock
		err := database.DB.
			Preload("Files", filesInOrder).
			Where("name LIKE ?", "%"+search+"%").
			Find(&list).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "stocks could not be listed")
		}

		res := make([]StockListItem, 0, len(list))
		for i := range list {
			res = append(res, StockListItem{
				ID:   list[i].ID,
				Name: list[i].Name,
				File: encodeFirstFile(list[i].Files),
			})
		}
		return c.JSON(res)
	}
}

// GET /api/v1/stocks/:id
func ShowHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stock, err := loadStock(paramID(c))
		if err != nil {
			return err
		}
		return c.JSON(stockResponse(stock))
	}
}

// POST /api/v1/stocks
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var stock models.Stock
		msgs := validate(&body, 0)
		msgs = append(msgs, applyRequest(&stock, &body)...)
		if len(msgs) > 0 {
			return validationError(c, msgs)
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&stock).Error; err != nil {
				return err
			}
			return saveAttachment(tx, stock.ID, &body)
		})
		if err != nil {
			return writeError(c, err)
		}

		saved, loadErr := loadStock(stock.ID)
		if loadErr != nil {
			return loadErr
		}
		return c.JSON(stockResponse(saved))
	}
}

// PATCH /api/v1/stocks/:id — full-field replace.
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stock, err := loadStock(paramID(c))
		if err != nil {
			return err
		}

		var body StockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		msgs := validate(&body, stock.ID)
		msgs = append(msgs, applyRequest(stock, &body)...)
		if len(msgs) > 0 {
			return validationError(c, msgs)
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			cols := map[string]interface{}{
				"name":               stock.Name,
				"color_number":       stock.ColorNumber,
				"quantity":           stock.Quantity,
				"manufacturing_date": stock.ManufacturingDate,
				"condition":          stock.Condition,
				"storehouse_id":      stock.StorehouseID,
			}
			if err := tx.Model(&models.Stock{}).Where("id = ?", stock.ID).Updates(cols).Error; err != nil {
				return err
			}
			if body.File != "" {
				// A new attachment replaces the existing ones.
				if err := tx.Where("stock_id = ?", stock.ID).Delete(&models.StockFile{}).Error; err != nil {
					return err
				}
				return saveAttachment(tx, stock.ID, &body)
			}
			return nil
		})
		if err != nil {
			return writeError(c, err)
		}

		saved, loadErr := loadStock(stock.ID)
		if loadErr != nil {
			return loadErr
		}
		return c.JSON(stockResponse(saved))
	}
}

// DELETE /api/v1/stocks/:id
func DestroyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stock, err := loadStock(paramID(c))
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("stock_id = ?", stock.ID).Delete(&models.StockFile{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Stock{}, "id = ?", stock.ID).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "stock could not be deleted")
		}

		return c.JSON(stockResponse(stock))
	}
}

// validate runs the fast-path uniqueness and foreign-key checks; the unique
// index and FK constraint remain the source of truth under concurrent writes.
func validate(body *StockRequest, excludeID uint) []string {
	var msgs []string

	var taken int64
	q := database.DB.Model(&models.Stock{}).Where("name = ?", body.Name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	q.Count(&taken)
	if taken > 0 {
		msgs = append(msgs, "Name has already been taken")
	}

	var storehouses int64
	if body.StorehouseID != 0 {
		database.DB.Model(&models.Storehouse{}).Where("id = ?", body.StorehouseID).Count(&storehouses)
	}
	if storehouses == 0 {
		msgs = append(msgs, "Storehouse must exist")
	}

	return msgs
}

// applyRequest fills every stock column from the request (replace semantics)
// and reports the field-level parse failures.
func applyRequest(stock *models.Stock, body *StockRequest) []string {
	var msgs []string

	stock.Name = body.Name
	stock.ColorNumber = body.ColorNumber
	stock.Quantity = body.Quantity
	stock.StorehouseID = body.StorehouseID

	stock.ManufacturingDate = time.Time{}
	if body.ManufacturingDate != "" {
		d, err := parseTimestamp(body.ManufacturingDate)
		if err != nil {
			msgs = append(msgs, "Manufacturing date is invalid")
		} else {
			stock.ManufacturingDate = d
		}
	}

	stock.Condition = models.ConditionUnused
	if body.Condition != "" {
		cond, err := models.ParseCondition(body.Condition)
		if err != nil {
			msgs = append(msgs, "Condition is not included in the list")
		} else {
			stock.Condition = cond
		}
	}

	return msgs
}

func saveAttachment(tx *gorm.DB, stockID uint, body *StockRequest) error {
	if body.File == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(body.File)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is not valid base64")
	}
	return tx.Create(&models.StockFile{StockID: stockID, Filename: body.FileName, Data: data}).Error
}

// writeError maps constraint violations that slipped past the fast-path
// checks onto the same 422 bodies.
func writeError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return validationError(c, []string{"Name has already been taken"})
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return validationError(c, []string{"Storehouse must exist"})
	}
	return fiber.NewError(fiber.StatusInternalServerError, "stock could not be saved")
}

func validationError(c *fiber.Ctx, msgs []string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": msgs})
}

// paramID reads the :id route parameter; a non-numeric value can only ever
// miss, so it maps to 0 and the lookup reports not found.
func paramID(c *fiber.Ctx) uint {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		return 0
	}
	return uint(id)
}

func loadStock(id uint) (*models.Stock, error) {
	var stock models.Stock
	err := database.DB.
		Preload("Files", filesInOrder).
		Preload("Storehouse").
		First(&stock, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "record not found")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "stock could not be loaded")
	}
	return &stock, nil
}

func filesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

func stockResponse(stock *models.Stock) StockResponse {
	return StockResponse{
		ID:                stock.ID,
		Name:              stock.Name,
		ColorNumber:       stock.ColorNumber,
		ManufacturingDate: stock.ManufacturingDate.Format(time.RFC3339),
		Quantity:          stock.Quantity,
		Condition:         stock.Condition,
		Storehouse:        StorehouseRef{ID: stock.Storehouse.ID, Name: stock.Storehouse.Name},
		File:              encodeFirstFile(stock.Files),
	}
}

func encodeFirstFile(files []models.StockFile) *string {
	if len(files) == 0 {
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString(files[0].Data)
	return &encoded
}
