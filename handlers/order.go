package handlers

import (
	"errors"
	"net/http"
	"time"

	"restaurant-api/config"
	"restaurant-api/middleware"
	"restaurant-api/models"
	"restaurant-api/orders"
	"restaurant-api/statemachine"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

type PlaceOrderRequest struct {
	TableID       *uint              `json:"table_id"`
	CheckinTime   time.Time          `json:"checkin_time" binding:"required"`
	NumGuests     int                `json:"num_guests"`
	PaymentMethod string             `json:"payment_method"`
	Items         []orders.ItemInput `json:"items" binding:"required,min=1,dive"`
}

// PlaceOrder creates a new PENDING order with its line items
func PlaceOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := orders.Create(config.DB, userID, orders.CreateInput{
		TableID:       req.TableID,
		CheckinTime:   req.CheckinTime,
		NumGuests:     req.NumGuests,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Items:         req.Items,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}

	history := models.OrderStatusHistory{
		OrderID:   order.ID,
		ToStatus:  models.StatusPending,
		ChangedBy: userID,
		Note:      "Order placed by customer",
	}
	config.DB.Create(&history)

	config.DB.Preload("Items").Preload("Table").First(order, order.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

// ListOrders returns orders visible to the caller: customers their own,
// chefs orders containing their dishes, admins everything
func ListOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	query := orders.ScopeFor(config.DB.Model(&models.Order{}), userID, role).
		Preload("Items").Preload("Table")
	if status := c.Query("status"); status != "" {
		query = query.Where("orders.status = ?", status)
	}

	var list []models.Order
	query.Order("orders.created_at desc").Find(&list)
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

// GetOrderDetail returns one order with items and history, scope enforced
func GetOrderDetail(c *gin.Context) {
	order, ok := findScopedOrder(c)
	if !ok {
		return
	}
	config.DB.Preload("Items").Preload("Table").Preload("StatusHistory").First(order, order.ID)
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type UpdateOrderRequest struct {
	TableID       *uint                 `json:"table_id"`
	CheckinTime   *time.Time            `json:"checkin_time"`
	NumGuests     *int                  `json:"num_guests"`
	PaymentMethod *models.PaymentMethod `json:"payment_method"`
	Items         []orders.ItemInput    `json:"items"`
}

// UpdateOrder patches header fields; when items are present the existing
// line items are replaced wholesale (replace mode). Adding onto an open tab
// goes through AppendOrderItems instead.
func UpdateOrder(c *gin.Context) {
	order, ok := findScopedOrder(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := orders.Update(config.DB, order, orders.FieldPatch{
		TableID:       req.TableID,
		CheckinTime:   req.CheckinTime,
		NumGuests:     req.NumGuests,
		PaymentMethod: req.PaymentMethod,
	}, req.Items); err != nil {
		writeOrderError(c, err)
		return
	}

	config.DB.Preload("Items").Preload("Table").First(order, order.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Order updated", "order": order})
}

type AppendItemsRequest struct {
	Items []orders.ItemInput `json:"items" binding:"required,min=1,dive"`
}

// AppendOrderItems adds dishes to an open order without touching prior items
func AppendOrderItems(c *gin.Context) {
	order, ok := findScopedOrder(c)
	if !ok {
		return
	}

	var req AppendItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := orders.AppendItems(config.DB, order, req.Items); err != nil {
		writeOrderError(c, err)
		return
	}

	config.DB.Preload("Items").Preload("Table").First(order, order.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Items added to order", "order": order})
}

// CancelOrder cancels a PENDING order; only the owning user may do this
func CancelOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, statemachine.ActorCustomer); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Order already accepted by the restaurant, contact staff",
			"reason":        err.Error(),
			"current_state": order.Status,
		})
		return
	}

	prevStatus := order.Status
	config.DB.Model(&order).Updates(map[string]interface{}{
		"status": models.StatusCancelled,
		"active": false,
	})

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   models.StatusCancelled,
		ChangedBy:  userID,
		Note:       "Order cancelled by customer",
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID})
}

// OrderQRCode renders the booking reference as a PNG for door check-in
func OrderQRCode(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	var order models.Order
	if err := config.DB.Preload("Table").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.UserID != userID && !role.IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	content := "order:" + c.Param("id") + "|checkin:" + order.CheckinTime.Format(time.RFC3339)
	if order.Table != nil {
		content += "|table:" + order.Table.Name
	}
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// findScopedOrder looks the order up through the caller's visibility scope;
// anything outside it reads as not found
func findScopedOrder(c *gin.Context) (*models.Order, bool) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	var order models.Order
	err := orders.ScopeFor(config.DB.Model(&models.Order{}), userID, role).
		First(&order, "orders.id = ?", c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	return &order, true
}

// writeOrderError maps order engine errors onto HTTP responses
func writeOrderError(c *gin.Context, err error) {
	var validationErr *orders.ValidationError
	var notFoundErr *orders.NotFoundError
	switch {
	case errors.Is(err, orders.ErrCompleted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order completed, cannot be modified"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply order changes"})
	}
}
