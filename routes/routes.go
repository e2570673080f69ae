package routes

import (
	"restaurant-api/handlers"
	"restaurant-api/middleware"
	"restaurant-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Catalog (no auth needed)
		public.GET("/dishes", handlers.ListDishes)
		public.GET("/dishes/:id", handlers.GetDish)
		public.GET("/dishes/:id/reviews", handlers.GetDishReviews)
		public.POST("/dishes/compare", handlers.CompareDishes)
		public.GET("/categories", handlers.ListCategories)
		public.GET("/tags", handlers.ListTags)
		public.GET("/chefs", handlers.ListChefs)
		public.GET("/tables", handlers.ListTables)

		// Open aggregate revenue view
		public.GET("/stats/summary", handlers.RevenueSummary)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.PATCH("/profile", handlers.UpdateProfile)

		// Dish interactions
		auth.POST("/dishes/:id/reviews", handlers.CreateReview)
		auth.PATCH("/reviews/:id", handlers.UpdateReview)
		auth.DELETE("/reviews/:id", handlers.DeleteReview)
		auth.POST("/dishes/:id/like", handlers.ToggleLike)

		// Orders: visibility is scoped per role at the query layer
		auth.POST("/orders", handlers.PlaceOrder)
		auth.GET("/orders", handlers.ListOrders)
		auth.GET("/orders/:id", handlers.GetOrderDetail)
		auth.PATCH("/orders/:id", handlers.UpdateOrder)
		auth.POST("/orders/:id/items", handlers.AppendOrderItems)
		auth.POST("/orders/:id/cancel", handlers.CancelOrder)
		auth.GET("/orders/:id/qr", handlers.OrderQRCode)
	}

	// ── Staff routes (chef + admin) ────────────────────────────────
	staff := r.Group("/api/staff")
	staff.Use(middleware.AuthRequired(), middleware.StaffRequired())
	{
		staff.GET("/orders", handlers.ListStaffOrders)
		staff.POST("/orders/:id/confirm", handlers.ConfirmOrder)
		staff.POST("/orders/:id/seat", handlers.SeatOrder)
		staff.POST("/orders/:id/checkout", handlers.CheckoutOrder)
		staff.GET("/stats/revenue", handlers.RevenueReport)
	}

	// ── Chef routes ────────────────────────────────────────────────
	chef := r.Group("/api/chef")
	chef.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleChef))
	{
		chef.GET("/dishes", handlers.MyDishes)
		chef.POST("/dishes", handlers.CreateDish)
		chef.PATCH("/dishes/:id", handlers.UpdateDish)
		chef.DELETE("/dishes/:id", handlers.DeactivateDish)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", handlers.AdminGetAllOrders)
		admin.PUT("/orders/:id/status", handlers.AdminForceOrderStatus)
		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.POST("/chefs/:id/approve", handlers.ApproveChef)
		admin.POST("/categories", handlers.CreateCategory)
		admin.POST("/tags", handlers.CreateTag)
		admin.POST("/tables", handlers.CreateTable)
		admin.PATCH("/tables/:id", handlers.UpdateTable)
	}
}
