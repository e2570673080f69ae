package orders

import (
	"errors"
	"time"

	"restaurant-api/models"

	"gorm.io/gorm"
)

// ItemInput is one requested dish-and-quantity entry
type ItemInput struct {
	DishID   uint `json:"dish_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// CreateInput carries everything needed to open a new order
type CreateInput struct {
	TableID       *uint
	CheckinTime   time.Time
	NumGuests     int
	PaymentMethod models.PaymentMethod
	Items         []ItemInput
}

// FieldPatch is a partial update of the order header; nil means unchanged
type FieldPatch struct {
	TableID       *uint
	CheckinTime   *time.Time
	NumGuests     *int
	PaymentMethod *models.PaymentMethod
}

// Create opens a new PENDING order in a single transaction: the conflict
// check, the order row, every line item with its price snapshot and the final
// total either all commit or none do.
func Create(db *gorm.DB, userID uint, in CreateInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one item is required"}
	}
	if in.NumGuests < 1 {
		in.NumGuests = 1
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentUnknown
	}
	if in.PaymentMethod != models.PaymentUnknown && !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, &ValidationError{Field: "payment_method", Message: "unknown payment method"}
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if in.TableID != nil {
			if err := checkTableFree(tx, *in.TableID, in.CheckinTime, 0); err != nil {
				return err
			}
		}

		order = models.Order{
			UserID:        userID,
			TableID:       in.TableID,
			CheckinTime:   in.CheckinTime,
			NumGuests:     in.NumGuests,
			PaymentMethod: in.PaymentMethod,
			Status:        models.StatusPending,
			Active:        true,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total, err := buildItems(tx, order.ID, in.Items)
		if err != nil {
			return err
		}
		order.TotalAmount = total
		return tx.Model(&order).Update("total_amount", total).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ReplaceItems discards every existing line item and rebuilds the order from
// the submitted set, recomputing the total from zero.
func ReplaceItems(db *gorm.DB, order *models.Order, items []ItemInput) error {
	if order.Status == models.StatusCompleted {
		return ErrCompleted
	}
	if len(items) == 0 {
		return &ValidationError{Field: "items", Message: "at least one item is required"}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		total, err := buildItems(tx, order.ID, items)
		if err != nil {
			return err
		}
		order.TotalAmount = total
		return tx.Model(order).Update("total_amount", total).Error
	})
}

// AppendItems adds dishes to an already-open tab. Existing line items are
// untouched; the cached total grows by the sum of the new items.
func AppendItems(db *gorm.DB, order *models.Order, items []ItemInput) error {
	if order.Status == models.StatusCompleted {
		return ErrCompleted
	}
	if len(items) == 0 {
		return &ValidationError{Field: "items", Message: "at least one item is required"}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		added, err := buildItems(tx, order.ID, items)
		if err != nil {
			return err
		}
		order.TotalAmount += added
		return tx.Model(order).Update("total_amount", order.TotalAmount).Error
	})
}

// Update applies a header patch and, when items is non-nil, a wholesale item
// replacement inside one transaction: a failed replacement rolls the header
// change back too.
func Update(db *gorm.DB, order *models.Order, patch FieldPatch, items []ItemInput) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := UpdateFields(tx, order, patch); err != nil {
			return err
		}
		if items != nil {
			return ReplaceItems(tx, order, items)
		}
		return nil
	})
}

// UpdateFields applies a partial header update. When the table or check-in
// time change, the conflict check re-runs against the merged values,
// excluding the order itself.
func UpdateFields(db *gorm.DB, order *models.Order, patch FieldPatch) error {
	if order.Status == models.StatusCompleted {
		return ErrCompleted
	}

	updates := map[string]interface{}{}

	if patch.NumGuests != nil {
		if *patch.NumGuests < 1 {
			return &ValidationError{Field: "num_guests", Message: "must be at least 1"}
		}
		updates["num_guests"] = *patch.NumGuests
	}
	if patch.PaymentMethod != nil {
		if *patch.PaymentMethod != models.PaymentUnknown && !models.ValidPaymentMethod(*patch.PaymentMethod) {
			return &ValidationError{Field: "payment_method", Message: "unknown payment method"}
		}
		updates["payment_method"] = *patch.PaymentMethod
	}
	if patch.TableID != nil {
		updates["table_id"] = *patch.TableID
	}
	if patch.CheckinTime != nil {
		updates["checkin_time"] = *patch.CheckinTime
	}

	if len(updates) == 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if patch.TableID != nil || patch.CheckinTime != nil {
			tableID := order.TableID
			if patch.TableID != nil {
				tableID = patch.TableID
			}
			checkin := order.CheckinTime
			if patch.CheckinTime != nil {
				checkin = *patch.CheckinTime
			}
			if tableID != nil {
				if err := checkTableFree(tx, *tableID, checkin, order.ID); err != nil {
					return err
				}
			}
		}
		if err := tx.Model(order).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(order, order.ID).Error
	})
}

// checkTableFree resolves the table and rejects when the booking window is
// already taken. sqlite serializes writers, so running this inside the
// mutation's transaction closes the check-then-act race in practice; on a
// concurrent engine this is a best-effort guarantee.
func checkTableFree(tx *gorm.DB, tableID uint, checkin time.Time, excludeOrderID uint) error {
	var table models.Table
	if err := tx.Where("active = ?", true).First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "table", ID: tableID}
		}
		return err
	}
	conflict, err := HasConflict(tx, tableID, checkin, excludeOrderID)
	if err != nil {
		return err
	}
	if conflict {
		return &ValidationError{
			Field:   "table",
			Message: "table " + table.Name + " is already booked within 2 hours of this time",
		}
	}
	return nil
}

// buildItems creates one line item per input, snapshotting the dish price and
// name, and returns the sum of unit_price*quantity across the new items.
func buildItems(tx *gorm.DB, orderID uint, items []ItemInput) (int64, error) {
	var total int64
	for _, in := range items {
		if in.Quantity < 1 {
			return 0, &ValidationError{Field: "quantity", Message: "must be at least 1"}
		}
		var dish models.Dish
		if err := tx.Where("active = ?", true).First(&dish, in.DishID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, &NotFoundError{Resource: "dish", ID: in.DishID}
			}
			return 0, err
		}
		item := models.OrderItem{
			OrderID:   orderID,
			DishID:    dish.ID,
			Quantity:  in.Quantity,
			UnitPrice: dish.Price,
			DishName:  dish.Name,
		}
		if err := tx.Create(&item).Error; err != nil {
			return 0, err
		}
		total += dish.Price * int64(in.Quantity)
	}
	return total, nil
}
