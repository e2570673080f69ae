package models

import "time"

// OrderStatus represents all possible states of a table reservation order
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusSeated    OrderStatus = "SEATED"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// PaymentMethod is the label recorded at checkout; no gateway integration
type PaymentMethod string

const (
	PaymentUnknown PaymentMethod = "UNKNOWN"
	PaymentCash    PaymentMethod = "CASH"
	PaymentPaypal  PaymentMethod = "PAYPAL"
	PaymentMomo    PaymentMethod = "MOMO"
	PaymentZalo    PaymentMethod = "ZALO"
)

// ValidPaymentMethod reports whether m is accepted at checkout.
// UNKNOWN is the unset default and is not payable.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentPaypal, PaymentMomo, PaymentZalo:
		return true
	}
	return false
}

type Order struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	UserID        uint          `json:"user_id" gorm:"not null"`
	User          User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	TableID       *uint         `json:"table_id"`
	Table         *Table        `json:"table,omitempty" gorm:"foreignKey:TableID"`
	CheckinTime   time.Time     `json:"checkin_time" gorm:"not null"`
	NumGuests     int           `json:"num_guests" gorm:"default:1"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"not null;default:'UNKNOWN'"`
	Status        OrderStatus   `json:"status" gorm:"not null;default:'PENDING'"`
	// TotalAmount caches the sum of item unit_price*quantity; recomputed on
	// every item mutation, never written by clients.
	TotalAmount   int64                `json:"total_amount" gorm:"default:0"`
	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	Active        bool                 `json:"active" gorm:"default:true"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID       uint  `json:"id" gorm:"primaryKey"`
	OrderID  uint  `json:"order_id" gorm:"not null"`
	DishID   uint  `json:"dish_id" gorm:"not null"`
	Dish     Dish  `json:"dish,omitempty" gorm:"foreignKey:DishID"`
	Quantity int   `json:"quantity" gorm:"not null"`
	// UnitPrice is a snapshot of the dish price at the moment the item was
	// added; later dish price changes never touch it.
	UnitPrice int64  `json:"unit_price" gorm:"not null"`
	DishName  string `json:"dish_name"` // snapshot name
}

// OrderStatusHistory tracks every status change for auditing
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
