package handlers

import (
	"net/http"

	"restaurant-api/config"
	"restaurant-api/middleware"
	"restaurant-api/models"

	"github.com/gin-gonic/gin"
)

// GetDishReviews lists active reviews for a dish (public)
func GetDishReviews(c *gin.Context) {
	var dish models.Dish
	if err := config.DB.First(&dish, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}
	var reviews []models.Review
	config.DB.Preload("User").
		Where("dish_id = ? AND active = ?", dish.ID, true).
		Order("created_at desc").Find(&reviews)
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

type CreateReviewRequest struct {
	Content string `json:"content" binding:"required"`
	Rating  int    `json:"rating" binding:"omitempty,min=1,max=5"`
}

// CreateReview adds one review per user per dish
func CreateReview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var dish models.Dish
	if err := config.DB.Where("active = ?", true).First(&dish, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Rating == 0 {
		req.Rating = 5
	}

	var existing models.Review
	if result := config.DB.Where("user_id = ? AND dish_id = ?", userID, dish.ID).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already reviewed this dish"})
		return
	}

	review := models.Review{
		UserID:  userID,
		DishID:  dish.ID,
		Content: req.Content,
		Rating:  req.Rating,
		Active:  true,
	}
	if err := config.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review created", "review": review})
}

// UpdateReview lets the author edit content or rating
func UpdateReview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var review models.Review
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if review.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This review does not belong to you"})
		return
	}

	var req struct {
		Content *string `json:"content"`
		Rating  *int    `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Content != nil {
		if *req.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Content cannot be empty"})
			return
		}
		updates["content"] = *req.Content
	}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}
		updates["rating"] = *req.Rating
	}
	if len(updates) > 0 {
		config.DB.Model(&review).Updates(updates)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated", "review": review})
}

// DeleteReview soft-deletes the author's review
func DeleteReview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var review models.Review
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if review.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This review does not belong to you"})
		return
	}
	config.DB.Model(&review).Update("active", false)
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

// ToggleLike likes a dish, or removes the like if it already exists
func ToggleLike(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var dish models.Dish
	if err := config.DB.Where("active = ?", true).First(&dish, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}

	var like models.Like
	if result := config.DB.Where("user_id = ? AND dish_id = ?", userID, dish.ID).First(&like); result.Error == nil {
		config.DB.Delete(&like)
		c.JSON(http.StatusOK, gin.H{"message": "Unliked", "liked": false})
		return
	}

	like = models.Like{UserID: userID, DishID: dish.ID}
	if err := config.DB.Create(&like).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like dish"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Liked", "liked": true})
}
