package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/handler"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 评分 ====================
	reviews := r.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("", h.CreateReview)
		reviews.GET("/favorites", h.FavoriteReviews)
		reviews.GET("/top-rated", h.TopRatedReviews)
		reviews.GET("/recent", h.RecentReviews)
		reviews.GET("/by-external-id/:mediaId", h.CheckReviewByTMDBID)
		reviews.GET("/:id", h.GetReview)
		reviews.PATCH("/:id", h.UpdateReview)
		reviews.DELETE("/:id", h.DeleteReview)
	}

	// ==================== 媒体目录代理 ====================
	media := r.Group("/media")
	{
		media.GET("/search", h.SearchMovies)
		media.GET("/search-multi", h.SearchMulti)
		media.GET("/popular", h.PopularMovies)
		media.GET("/:id", h.MovieDetails)
	}

	r.GET("/tv/:id", h.TVDetails)
}
