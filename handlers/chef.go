package handlers

import (
	"net/http"

	"restaurant-api/config"
	"restaurant-api/middleware"
	"restaurant-api/models"

	"github.com/gin-gonic/gin"
)

type CreateDishRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Ingredients     string `json:"ingredients"`
	Price           int64  `json:"price" binding:"required,gte=0"`
	Image           string `json:"image"`
	PreparationTime int    `json:"preparation_time"`
	CategoryID      uint   `json:"category_id" binding:"required"`
	TagIDs          []uint `json:"tag_ids"`
}

// CreateDish adds a dish owned by the logged-in chef
func CreateDish(c *gin.Context) {
	chefID := middleware.GetUserID(c)

	var req CreateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.Category
	if err := config.DB.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	dish := models.Dish{
		Name:            req.Name,
		Description:     req.Description,
		Ingredients:     req.Ingredients,
		Price:           req.Price,
		Image:           req.Image,
		PreparationTime: req.PreparationTime,
		ChefID:          chefID,
		CategoryID:      category.ID,
		Active:          true,
	}
	if len(req.TagIDs) > 0 {
		config.DB.Where("id IN ? AND active = ?", req.TagIDs, true).Find(&dish.Tags)
	}

	if err := config.DB.Create(&dish).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dish"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Dish created", "dish": dish})
}

// MyDishes lists the logged-in chef's dishes, inactive ones included
func MyDishes(c *gin.Context) {
	chefID := middleware.GetUserID(c)
	var dishes []models.Dish
	config.DB.Preload("Category").Preload("Tags").
		Where("chef_id = ?", chefID).Order("name asc").Find(&dishes)
	c.JSON(http.StatusOK, gin.H{"count": len(dishes), "dishes": dishes})
}

// UpdateDish updates a dish; only its owning chef may touch it
func UpdateDish(c *gin.Context) {
	chefID := middleware.GetUserID(c)

	var dish models.Dish
	if err := config.DB.First(&dish, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}
	if dish.ChefID != chefID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this dish"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Only allow safe fields; price changes never rewrite past order snapshots
	allowed := map[string]bool{
		"name": true, "description": true, "ingredients": true, "price": true,
		"image": true, "preparation_time": true, "category_id": true, "active": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	if price, ok := update["price"].(float64); ok && price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
		return
	}
	config.DB.Model(&dish).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Dish updated", "dish": dish})
}

// DeactivateDish soft-removes a dish from the menu; order history keeps its
// snapshots either way
func DeactivateDish(c *gin.Context) {
	chefID := middleware.GetUserID(c)

	var dish models.Dish
	if err := config.DB.First(&dish, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}
	if dish.ChefID != chefID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this dish"})
		return
	}
	config.DB.Model(&dish).Update("active", false)
	c.JSON(http.StatusOK, gin.H{"message": "Dish removed from menu"})
}
