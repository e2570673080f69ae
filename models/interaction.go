package models

import "time"

// Review is one user's rating of one dish; the (user, dish) pair is unique
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:uniq_review_user_dish"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	DishID    uint      `json:"dish_id" gorm:"not null;uniqueIndex:uniq_review_user_dish"`
	Content   string    `json:"content" gorm:"not null"`
	Rating    int       `json:"rating" gorm:"not null;default:5"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Like marks a dish as liked by a user; presence is the whole signal
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:uniq_like_user_dish"`
	DishID    uint      `json:"dish_id" gorm:"not null;uniqueIndex:uniq_like_user_dish"`
	CreatedAt time.Time `json:"created_at"`
}
