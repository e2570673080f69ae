package orders

import (
	"restaurant-api/models"

	"gorm.io/gorm"
)

// ScopeFor narrows an order query to what the actor is allowed to see:
// customers their own orders, chefs any order containing at least one of
// their dishes, admins everything. Every list, detail and mutation lookup
// composes this so visibility is enforced at the data-access layer.
func ScopeFor(db *gorm.DB, userID uint, role models.UserRole) *gorm.DB {
	switch role {
	case models.RoleAdmin:
		return db
	case models.RoleChef:
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("order_items").
			Select("order_items.order_id").
			Joins("JOIN dishes ON dishes.id = order_items.dish_id").
			Where("dishes.chef_id = ?", userID)
		return db.Where("orders.id IN (?)", sub)
	default:
		return db.Where("orders.user_id = ?", userID)
	}
}
