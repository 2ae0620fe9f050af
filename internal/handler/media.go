package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
)

// 代理响应带上简单的 HTTP 缓存提示，和原上游的刷新周期一致
const (
	listingCacheControl = "public, max-age=3600"
	detailCacheControl  = "public, max-age=86400"
)

// SearchMovies 电影搜索代理
// GET /media/search?query=xxx&page=1&language=fr-FR
func (h *Handler) SearchMovies(c *gin.Context) {
	query, ok := h.searchQuery(c)
	if !ok {
		return
	}

	result, err := h.TMDB.SearchMovies(query, h.pageParam(c), h.languageParam(c))
	if err != nil {
		log.Printf("[SearchMovies] %v", err)
		utils.InternalServerError(c, "搜索电影失败")
		return
	}

	c.Header("Cache-Control", listingCacheControl)
	c.JSON(http.StatusOK, gin.H{
		"movies":       result.Results,
		"totalResults": result.TotalResults,
		"totalPages":   result.TotalPages,
		"page":         result.Page,
	})
}

// SearchMulti 跨电影和剧集的搜索代理
// GET /media/search-multi?query=xxx
func (h *Handler) SearchMulti(c *gin.Context) {
	query, ok := h.searchQuery(c)
	if !ok {
		return
	}

	result, err := h.TMDB.SearchMulti(query, h.pageParam(c), h.languageParam(c))
	if err != nil {
		log.Printf("[SearchMulti] %v", err)
		utils.InternalServerError(c, "搜索失败")
		return
	}

	c.Header("Cache-Control", listingCacheControl)
	c.JSON(http.StatusOK, gin.H{
		"results":      result.Results,
		"totalResults": result.TotalResults,
		"totalPages":   result.TotalPages,
		"page":         result.Page,
	})
}

// MovieDetails 电影详情代理
// GET /media/:id
func (h *Handler) MovieDetails(c *gin.Context) {
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	details, err := h.TMDB.MovieDetails(movieID, h.languageParam(c))
	if err != nil {
		log.Printf("[MovieDetails] %v", err)
		utils.InternalServerError(c, "获取电影详情失败")
		return
	}

	c.Header("Cache-Control", detailCacheControl)
	c.JSON(http.StatusOK, details)
}

// TVDetails 剧集详情代理
// GET /tv/:id
func (h *Handler) TVDetails(c *gin.Context) {
	tvID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的剧集 ID")
		return
	}

	details, err := h.TMDB.TVDetails(tvID, h.languageParam(c))
	if err != nil {
		log.Printf("[TVDetails] %v", err)
		utils.InternalServerError(c, "获取剧集详情失败")
		return
	}

	c.Header("Cache-Control", detailCacheControl)
	c.JSON(http.StatusOK, details)
}

// PopularMovies 热门/趋势电影代理
// GET /media/popular?type=popular|trending&timeWindow=day|week
func (h *Handler) PopularMovies(c *gin.Context) {
	language := h.languageParam(c)

	if c.DefaultQuery("type", "popular") == "trending" {
		timeWindow := c.DefaultQuery("timeWindow", "week")
		if timeWindow != "day" && timeWindow != "week" {
			timeWindow = "week"
		}
		resp, terr := h.TMDB.TrendingMovies(timeWindow, language)
		if terr != nil {
			log.Printf("[PopularMovies] %v", terr)
			utils.InternalServerError(c, "获取热门电影失败")
			return
		}
		h.writeListing(c, resp)
		return
	}

	resp, err := h.TMDB.PopularMovies(h.pageParam(c), language)
	if err != nil {
		log.Printf("[PopularMovies] %v", err)
		utils.InternalServerError(c, "获取热门电影失败")
		return
	}
	h.writeListing(c, resp)
}

// writeListing 按统一格式返回电影列表响应
func (h *Handler) writeListing(c *gin.Context, resp *model.TMDBSearchResponse) {
	c.Header("Cache-Control", listingCacheControl)
	c.JSON(http.StatusOK, gin.H{
		"movies":       resp.Results,
		"totalResults": resp.TotalResults,
		"totalPages":   resp.TotalPages,
		"page":         resp.Page,
	})
}

// searchQuery 校验搜索关键词：必填且去除首尾空白后至少 2 个字符
func (h *Handler) searchQuery(c *gin.Context) (string, bool) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		utils.BadRequest(c, "缺少 query 参数")
		return "", false
	}
	if utf8.RuneCountInString(query) < 2 {
		utils.BadRequest(c, "搜索关键词至少需要 2 个字符")
		return "", false
	}
	return query, true
}

func (h *Handler) pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (h *Handler) languageParam(c *gin.Context) string {
	return c.DefaultQuery("language", h.Config.TMDBLanguage)
}
