package stats

import (
	"errors"
	"time"

	"restaurant-api/models"

	"gorm.io/gorm"
)

// ErrForbidden rejects non-staff callers before any query runs
var ErrForbidden = errors.New("revenue reports are restricted to staff")

// DishRevenue is one row of the per-dish revenue report
type DishRevenue struct {
	DishID        uint   `json:"dish_id"`
	DishName      string `json:"dish_name"`
	TotalQuantity int64  `json:"total_quantity"`
	TotalRevenue  int64  `json:"total_revenue"`
}

// RevenueFilter narrows the per-dish report. ChefID is only honored for
// admins; From/To are inclusive calendar dates in "2006-01-02" form.
type RevenueFilter struct {
	ChefID uint
	From   string
	To     string
}

// Revenue rolls up completed orders' line items by dish, revenue descending.
// Chef actors are always pinned to their own dishes, whatever the filter
// says; admins may narrow by chef or see everything.
func Revenue(db *gorm.DB, actorID uint, role models.UserRole, filter RevenueFilter) ([]DishRevenue, error) {
	if !role.IsStaff() {
		return nil, ErrForbidden
	}

	query := db.Table("order_items").
		Select("order_items.dish_id AS dish_id, dishes.name AS dish_name, " +
			"SUM(order_items.quantity) AS total_quantity, " +
			"SUM(order_items.unit_price * order_items.quantity) AS total_revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN dishes ON dishes.id = order_items.dish_id").
		Where("orders.status = ?", models.StatusCompleted)

	if role == models.RoleChef {
		query = query.Where("dishes.chef_id = ?", actorID)
	} else if filter.ChefID != 0 {
		query = query.Where("dishes.chef_id = ?", filter.ChefID)
	}

	if filter.From != "" {
		if _, err := time.Parse("2006-01-02", filter.From); err != nil {
			return nil, errors.New("from_date must be YYYY-MM-DD")
		}
		query = query.Where("date(orders.created_at) >= ?", filter.From)
	}
	if filter.To != "" {
		if _, err := time.Parse("2006-01-02", filter.To); err != nil {
			return nil, errors.New("to_date must be YYYY-MM-DD")
		}
		query = query.Where("date(orders.created_at) <= ?", filter.To)
	}

	var rows []DishRevenue
	err := query.
		Group("order_items.dish_id, dishes.name").
		Order("total_revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SummaryReport is the coarse public revenue view over active orders
type SummaryReport struct {
	TotalRevenue int64   `json:"total_revenue"`
	TotalOrders  int64   `json:"total_orders"`
	AverageOrder float64 `json:"average_order"`
}

// Summary aggregates all active orders regardless of lifecycle status
func Summary(db *gorm.DB) (SummaryReport, error) {
	var report SummaryReport
	err := db.Model(&models.Order{}).
		Where("active = ?", true).
		Select("COALESCE(SUM(total_amount), 0) AS total_revenue, COUNT(*) AS total_orders").
		Scan(&report).Error
	if err != nil {
		return report, err
	}
	if report.TotalOrders > 0 {
		report.AverageOrder = float64(report.TotalRevenue) / float64(report.TotalOrders)
	}
	return report, nil
}
