package orders

import (
	"time"

	"restaurant-api/models"

	"gorm.io/gorm"
)

// ConflictWindow is the half-width of the double-booking window around a
// requested check-in time.
const ConflictWindow = 2 * time.Hour

// unresolvedStatuses are the statuses that still hold a table
var unresolvedStatuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusSeated,
}

// HasConflict reports whether another unresolved order already books the same
// table within ConflictWindow of checkin. The window is inclusive: a booking
// exactly two hours away still conflicts. excludeOrderID skips the order
// being updated; pass 0 on create. A query failure is returned rather than
// read as a free table.
func HasConflict(db *gorm.DB, tableID uint, checkin time.Time, excludeOrderID uint) (bool, error) {
	query := db.Model(&models.Order{}).
		Where("table_id = ?", tableID).
		Where("status IN ?", unresolvedStatuses).
		Where("checkin_time BETWEEN ? AND ?",
			checkin.Add(-ConflictWindow), checkin.Add(ConflictWindow))
	if excludeOrderID != 0 {
		query = query.Where("id <> ?", excludeOrderID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
