package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant-api/config"
	"restaurant-api/middleware"
	"restaurant-api/models"
	"restaurant-api/orders"
	"restaurant-api/statemachine"
	"restaurant-api/stats"

	"github.com/gin-gonic/gin"
)

// ListStaffOrders returns scoped orders with a per-status dashboard summary
func ListStaffOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	query := orders.ScopeFor(config.DB.Model(&models.Order{}), userID, role).
		Preload("Items").Preload("Table").Preload("User")
	if status := c.Query("status"); status != "" {
		query = query.Where("orders.status = ?", status)
	}

	var list []models.Order
	query.Order("orders.checkin_time asc").Find(&list)

	summary := map[string]int{}
	for _, o := range list {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(list),
		"orders":        list,
	})
}

// ConfirmOrder accepts a PENDING reservation (staff)
func ConfirmOrder(c *gin.Context) {
	transitionOrder(c, models.StatusConfirmed, "Reservation confirmed by staff")
}

// SeatOrder marks the party as arrived and seated (staff)
func SeatOrder(c *gin.Context) {
	transitionOrder(c, models.StatusSeated, "Party seated")
}

func transitionOrder(c *gin.Context, to models.OrderStatus, note string) {
	userID := middleware.GetUserID(c)

	order, ok := findScopedOrder(c)
	if !ok {
		return
	}

	if err := statemachine.CanTransition(order.Status, to, statemachine.ActorStaff); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"requested":         to,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	prevStatus := order.Status
	config.DB.Model(order).Update("status", to)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   to,
		ChangedBy:  userID,
		Note:       note,
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"current_status":  to,
	})
}

type CheckoutRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required"`
}

// CheckoutOrder records the payment method and closes the order (staff)
func CheckoutOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	order, ok := findScopedOrder(c)
	if !ok {
		return
	}

	if order.Status == models.StatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order already paid"})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method. Must be: CASH, PAYPAL, MOMO or ZALO"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusCompleted, statemachine.ActorStaff); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Invalid state transition",
			"current_status": order.Status,
			"reason":         err.Error(),
		})
		return
	}

	prevStatus := order.Status
	config.DB.Model(order).Updates(map[string]interface{}{
		"status":         models.StatusCompleted,
		"payment_method": req.PaymentMethod,
	})

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   models.StatusCompleted,
		ChangedBy:  userID,
		Note:       "Checked out via " + string(req.PaymentMethod),
	}
	config.DB.Create(&history)

	config.DB.Preload("Items").Preload("Table").First(order, order.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Order checked out", "order": order})
}

// RevenueReport returns the per-dish revenue rollup for staff. Chefs are
// always limited to their own dishes; admins may filter by chef_id and an
// inclusive from_date/to_date range.
func RevenueReport(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	var chefID uint
	if raw := c.Query("chef_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chef_id must be a number"})
			return
		}
		chefID = uint(parsed)
	}

	rows, err := stats.Revenue(config.DB, userID, role, stats.RevenueFilter{
		ChefID: chefID,
		From:   c.Query("from_date"),
		To:     c.Query("to_date"),
	})
	if err != nil {
		if errors.Is(err, stats.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(rows), "revenue": rows})
}
