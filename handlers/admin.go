package handlers

import (
	"net/http"

	"restaurant-api/config"
	"restaurant-api/middleware"
	"restaurant-api/models"

	"github.com/gin-gonic/gin"
)

// AdminGetAllOrders returns all orders with full detail — admin only
func AdminGetAllOrders(c *gin.Context) {
	var list []models.Order
	query := config.DB.Preload("Items").Preload("User").Preload("Table").Preload("StatusHistory")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if tableID := c.Query("table_id"); tableID != "" {
		query = query.Where("table_id = ?", tableID)
	}

	query.Order("created_at desc").Find(&list)

	// Admin dashboard: aggregate by status
	summary := map[string]int{}
	var totalRevenue int64
	for _, o := range list {
		summary[string(o.Status)]++
		if o.Status == models.StatusCompleted {
			totalRevenue += o.TotalAmount
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(list),
		"orders":        list,
	})
}

// AdminGetAllUsers returns all users — admin only
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// ApproveChef activates a pending chef account
func ApproveChef(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.Role != models.RoleChef {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not a chef"})
		return
	}
	config.DB.Model(&user).Update("active", true)
	c.JSON(http.StatusOK, gin.H{"message": "Chef approved", "user": user})
}

// AdminForceOrderStatus lets admin override any order state (emergency use)
func AdminForceOrderStatus(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
		Reason string             `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	prevStatus := order.Status
	config.DB.Model(&order).Update("status", req.Status)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		ChangedBy:  adminID,
		Note:       "[ADMIN OVERRIDE] " + req.Reason,
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status force-updated by admin",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}

// ── Reference data management ───────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory adds a category; names are unique
func CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := models.Category{Name: req.Name}
	if err := config.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateTag adds a dish tag
func CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tag := models.Tag{Name: req.Name, Active: true}
	if err := config.DB.Create(&tag).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Tag created", "tag": tag})
}

type CreateTableRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"omitempty,min=1"`
}

// CreateTable adds a bookable table; names are unique
func CreateTable(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Capacity == 0 {
		req.Capacity = 4
	}
	table := models.Table{Name: req.Name, Capacity: req.Capacity, Active: true}
	if err := config.DB.Create(&table).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Table name already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Table created", "table": table})
}

// UpdateTable changes table details or retires it
func UpdateTable(c *gin.Context) {
	var table models.Table
	if err := config.DB.First(&table, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{"name": true, "capacity": true, "active": true}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&table).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Table updated", "table": table})
}
