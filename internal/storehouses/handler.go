package storehouses

import (
	"zaiko-backend/internal/database"
	"zaiko-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StorehouseResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// GET /api/v1/storehouses
func IndexHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.Storehouse
		if err := database.DB.Order("id asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "storehouses could not be listed")
		}

		res := make([]StorehouseResponse, 0, len(list))
		for _, s := range list {
			res = append(res, StorehouseResponse{ID: s.ID, Name: s.Name})
		}
		return c.JSON(res)
	}
}
