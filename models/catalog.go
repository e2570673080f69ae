package models

import "time"

type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Dish struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"not null"`
	Description     string    `json:"description"`
	Ingredients     string    `json:"ingredients"`
	Price           int64     `json:"price" gorm:"not null"` // whole currency units, no subunits
	Image           string    `json:"image"`                 // opaque media reference
	PreparationTime int       `json:"preparation_time"`      // minutes
	ChefID          uint      `json:"chef_id" gorm:"not null"`
	Chef            User      `json:"chef,omitempty" gorm:"foreignKey:ChefID"`
	CategoryID      uint      `json:"category_id" gorm:"not null"`
	Category        Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Tags            []Tag     `json:"tags,omitempty" gorm:"many2many:dish_tags"`
	Active          bool      `json:"active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Table struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Capacity  int       `json:"capacity" gorm:"default:4"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
