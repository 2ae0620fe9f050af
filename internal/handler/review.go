package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

// ListReviews 评分列表，stats=true 时附带统计数据
// GET /reviews?stats=true
func (h *Handler) ListReviews(c *gin.Context) {
	reviews, err := h.Repos.Review.ListAll()
	if err != nil {
		log.Printf("[ListReviews] 获取评分列表失败: %v", err)
		utils.InternalServerError(c, "获取评分列表失败")
		return
	}

	if c.Query("stats") != "true" {
		c.JSON(http.StatusOK, gin.H{"reviews": reviews})
		return
	}

	stats, err := h.Repos.Review.Stats()
	if err != nil {
		log.Printf("[ListReviews] 获取统计数据失败: %v", err)
		utils.InternalServerError(c, "获取统计数据失败")
		return
	}
	monthly, err := h.Repos.Review.MonthlyReviews()
	if err != nil {
		log.Printf("[ListReviews] 获取月度评分失败: %v", err)
		utils.InternalServerError(c, "获取统计数据失败")
		return
	}
	stats.MonthlyCount = len(monthly)

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"stats":   stats,
	})
}

// CreateReview 创建评分
// POST /reviews
func (h *Handler) CreateReview(c *gin.Context) {
	var form model.ReviewForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.BadRequest(c, bindErrorMessage(err))
		return
	}

	review, err := h.Repos.Review.Create(&form)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyRated) {
			utils.Conflict(c, duplicateMessage(form.MediaType.OrDefault()))
			return
		}
		log.Printf("[CreateReview] 创建评分失败: %v", err)
		utils.InternalServerError(c, "创建评分失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// GetReview 获取单条评分
// GET /reviews/:id
func (h *Handler) GetReview(c *gin.Context) {
	review, err := h.Repos.Review.GetByID(c.Param("id"))
	if err != nil {
		log.Printf("[GetReview] 获取评分失败: %v", err)
		utils.InternalServerError(c, "获取评分失败")
		return
	}
	if review == nil {
		utils.NotFound(c, "评分记录不存在")
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// UpdateReview 部分更新评分
// PATCH /reviews/:id
func (h *Handler) UpdateReview(c *gin.Context) {
	var patch model.ReviewPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.BadRequest(c, bindErrorMessage(err))
		return
	}

	review, err := h.Repos.Review.Update(c.Param("id"), &patch)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			utils.NotFound(c, "评分记录不存在")
			return
		}
		log.Printf("[UpdateReview] 更新评分失败: %v", err)
		utils.InternalServerError(c, "更新评分失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// DeleteReview 删除评分
// DELETE /reviews/:id
func (h *Handler) DeleteReview(c *gin.Context) {
	if err := h.Repos.Review.Delete(c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			utils.NotFound(c, "评分记录不存在")
			return
		}
		log.Printf("[DeleteReview] 删除评分失败: %v", err)
		utils.InternalServerError(c, "删除评分失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckReviewByTMDBID 检查某个媒体是否已评分
// GET /reviews/by-external-id/:mediaId?media_type=movie
func (h *Handler) CheckReviewByTMDBID(c *gin.Context) {
	tmdbID, err := strconv.Atoi(c.Param("mediaId"))
	if err != nil {
		utils.BadRequest(c, "无效的媒体 ID")
		return
	}

	kind := model.MediaKind(c.Query("media_type"))
	if kind != "" && !kind.Valid() {
		utils.BadRequest(c, "无效的媒体类型")
		return
	}

	review, err := h.Repos.Review.GetByTMDBID(tmdbID, kind)
	if err != nil {
		log.Printf("[CheckReviewByTMDBID] 查询失败: %v", err)
		utils.InternalServerError(c, "查询失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exists": review != nil,
		"review": review,
	})
}

// FavoriteReviews 收藏列表，按综合评分倒序
// GET /reviews/favorites
func (h *Handler) FavoriteReviews(c *gin.Context) {
	reviews, err := h.Repos.Review.Favorites()
	if err != nil {
		log.Printf("[FavoriteReviews] 获取收藏失败: %v", err)
		utils.InternalServerError(c, "获取收藏失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// TopRatedReviews 综合评分最高的评分
// GET /reviews/top-rated?limit=10
func (h *Handler) TopRatedReviews(c *gin.Context) {
	limit := parseLimit(c, 10)
	reviews, err := h.Repos.Review.TopRated(limit)
	if err != nil {
		log.Printf("[TopRatedReviews] 获取高分评分失败: %v", err)
		utils.InternalServerError(c, "获取高分评分失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// RecentReviews 最近创建的评分
// GET /reviews/recent?limit=10
func (h *Handler) RecentReviews(c *gin.Context) {
	limit := parseLimit(c, 10)
	reviews, err := h.Repos.Review.Recent(limit)
	if err != nil {
		log.Printf("[RecentReviews] 获取最近评分失败: %v", err)
		utils.InternalServerError(c, "获取最近评分失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// duplicateMessage 按媒体类型返回重复评分的提示语
func duplicateMessage(kind model.MediaKind) string {
	if kind == model.MediaKindTV {
		return "该剧集已经评过分了"
	}
	return "该电影已经评过分了"
}

// parseLimit 解析 limit 查询参数，非法值回退到默认值
func parseLimit(c *gin.Context, defaultLimit int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > 100 {
		return defaultLimit
	}
	return limit
}
