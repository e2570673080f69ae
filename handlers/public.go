package handlers

import (
	"net/http"
	"strconv"

	"restaurant-api/config"
	"restaurant-api/media"
	"restaurant-api/models"
	"restaurant-api/statemachine"
	"restaurant-api/stats"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// dishOrderings whitelists the sortable columns for the public dish list
var dishOrderings = map[string]string{
	"name":              "name asc",
	"-name":             "name desc",
	"price":             "price asc",
	"-price":            "price desc",
	"preparation_time":  "preparation_time asc",
	"-preparation_time": "preparation_time desc",
}

// ListDishes returns active dishes with search, filters and pagination (public)
func ListDishes(c *gin.Context) {
	query := config.DB.Preload("Category").Preload("Tags").Preload("Chef").
		Where("active = ?", true)

	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}
	if cateID := c.Query("category_id"); cateID != "" {
		query = query.Where("category_id = ?", cateID)
	}
	if chefID := c.Query("chef_id"); chefID != "" {
		query = query.Where("chef_id = ?", chefID)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		query = query.Where("price >= ?", minPrice)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		query = query.Where("price <= ?", maxPrice)
	}
	if minPrepare := c.Query("min_prepare"); minPrepare != "" {
		if v, err := strconv.Atoi(minPrepare); err == nil {
			query = query.Where("preparation_time >= ?", v)
		}
	}
	if maxPrepare := c.Query("max_prepare"); maxPrepare != "" {
		if v, err := strconv.Atoi(maxPrepare); err == nil {
			query = query.Where("preparation_time <= ?", v)
		}
	}

	ordering := c.DefaultQuery("ordering", "name")
	orderBy, ok := dishOrderings[ordering]
	if !ok {
		orderBy = "name asc"
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	// Reusable session: the same chain feeds both the count and the page
	query = query.Session(&gorm.Session{})

	var total int64
	query.Model(&models.Dish{}).Count(&total)

	var dishes []models.Dish
	query.Order(orderBy).Offset((page - 1) * pageSize).Limit(pageSize).Find(&dishes)

	c.JSON(http.StatusOK, gin.H{
		"count":     total,
		"page":      page,
		"page_size": pageSize,
		"dishes":    dishViews(dishes),
	})
}

// GetDish returns a single active dish with tags and chef (public)
func GetDish(c *gin.Context) {
	var dish models.Dish
	if err := config.DB.Preload("Category").Preload("Tags").Preload("Chef").
		Where("active = ?", true).First(&dish, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dish": dishView(dish)})
}

// CompareDishes returns side-by-side details for the requested dish ids
func CompareDishes(c *gin.Context) {
	var req struct {
		DishIDs []uint `json:"dish_ids" binding:"required,min=2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var dishes []models.Dish
	config.DB.Preload("Category").Preload("Tags").
		Where("id IN ? AND active = ?", req.DishIDs, true).Find(&dishes)
	c.JSON(http.StatusOK, gin.H{"count": len(dishes), "dishes": dishViews(dishes)})
}

// ListCategories returns all categories (public)
func ListCategories(c *gin.Context) {
	var categories []models.Category
	config.DB.Order("name asc").Find(&categories)
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

// ListTags returns all active tags (public)
func ListTags(c *gin.Context) {
	var tags []models.Tag
	config.DB.Where("active = ?", true).Find(&tags)
	c.JSON(http.StatusOK, gin.H{"count": len(tags), "tags": tags})
}

// ListChefs returns the active chef directory (public)
func ListChefs(c *gin.Context) {
	var chefs []models.User
	config.DB.Where("role = ? AND active = ?", models.RoleChef, true).Find(&chefs)
	c.JSON(http.StatusOK, gin.H{"count": len(chefs), "chefs": chefs})
}

// ListTables returns active tables for the booking form (public)
func ListTables(c *gin.Context) {
	var tables []models.Table
	config.DB.Where("active = ?", true).Order("name asc").Find(&tables)
	c.JSON(http.StatusOK, gin.H{"count": len(tables), "tables": tables})
}

// RevenueSummary is the open aggregate view: totals over active orders
func RevenueSummary(c *gin.Context) {
	report, err := stats.Summary(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetStateMachineInfo returns the full order lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	terminal := []models.OrderStatus{}
	for _, s := range []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusSeated,
		models.StatusCompleted, models.StatusCancelled,
	} {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": terminal,
		"description":     "Restaurant Table Order Lifecycle State Machine",
	})
}

func dishView(dish models.Dish) gin.H {
	return gin.H{
		"id":               dish.ID,
		"name":             dish.Name,
		"description":      dish.Description,
		"ingredients":      dish.Ingredients,
		"price":            dish.Price,
		"image":            media.ResolveURL(dish.Image),
		"preparation_time": dish.PreparationTime,
		"category":         dish.Category,
		"chef_id":          dish.ChefID,
		"tags":             dish.Tags,
		"active":           dish.Active,
		"created_at":       dish.CreatedAt,
	}
}

func dishViews(dishes []models.Dish) []gin.H {
	views := make([]gin.H, 0, len(dishes))
	for _, d := range dishes {
		views = append(views, dishView(d))
	}
	return views
}
