package routes

import (
	"github.com/AdamWiercioch95/Boardgame-Shop/controllers"
	"github.com/AdamWiercioch95/Boardgame-Shop/middleware"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Catalog *controllers.CatalogController
	Reviews *controllers.ReviewController
	Cart    *controllers.CartController
	Orders  *controllers.OrderController
}

// RegisterRoutes sets up the storefront routes. Reads of the catalog and
// reviews are public; everything else needs an identity.
func RegisterRoutes(r *gin.Engine, h Controllers, auth *middleware.Authenticator) {
	requireUser := auth.Required()
	requireAdmin := []gin.HandlerFunc{requireUser, middleware.AdminOnly()}

	boardgames := r.Group("/boardgames")
	boardgames.GET("", h.Catalog.ListBoardgames)
	boardgames.GET("/:id", h.Catalog.GetBoardgame)
	boardgames.GET("/:id/reviews", h.Reviews.ListReviews)
	boardgames.GET("/:id/rating", h.Reviews.AverageRating)
	boardgames.GET("/:id/reviews/mine", requireUser, h.Reviews.GetUserReview)
	boardgames.POST("/:id/reviews", requireUser, h.Reviews.AddReview)

	// Admin-only catalog routes
	adminCatalog := boardgames.Group("", requireAdmin...)
	adminCatalog.POST("", h.Catalog.CreateBoardgame)
	adminCatalog.PUT("/:id", h.Catalog.UpdateBoardgame)
	adminCatalog.DELETE("/:id", h.Catalog.DeleteBoardgame)

	r.GET("/categories", h.Catalog.ListCategories)
	r.POST("/categories", append(requireAdmin, h.Catalog.CreateCategory)...)
	r.GET("/publishers", h.Catalog.ListPublishers)
	r.POST("/publishers", append(requireAdmin, h.Catalog.CreatePublisher)...)

	reviews := r.Group("/reviews")
	reviews.GET("/:id", h.Reviews.GetReview)
	reviews.PUT("/:id", requireUser, h.Reviews.UpdateReview)
	reviews.DELETE("/:id", requireUser, h.Reviews.DeleteReview)

	cart := r.Group("/cart", requireUser)
	cart.GET("", h.Cart.GetCart)
	cart.POST("/items/:boardgame_id", h.Cart.AddItem)
	cart.DELETE("/items/:boardgame_id", h.Cart.RemoveItem)
	cart.POST("/checkout", h.Cart.Checkout)

	orders := r.Group("/orders", requireUser)
	orders.GET("", h.Orders.GetOrders)
	orders.GET("/:id", h.Orders.GetOrderByID)

	admin := r.Group("/admin", requireAdmin...)
	admin.GET("/orders", h.Orders.GetAllOrders)
}
