package service

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
	"golang.org/x/sync/singleflight"
)

// 缓存有效期与原站的 HTTP 缓存提示保持一致：搜索/列表 1 小时，详情 24 小时
const (
	searchCacheTTL  = 30 * time.Minute
	listingCacheTTL = time.Hour
	detailCacheTTL  = 24 * time.Hour
)

// TMDBService 媒体目录（TMDB）客户端
// 优先使用 Bearer Token，未配置时回退到 api_key 查询参数
type TMDBService struct {
	config      *config.Config
	client      *utils.HTTPClient
	group       singleflight.Group
	searchCache *utils.SearchCache[model.TMDBSearchResponse]
	multiCache  *utils.SearchCache[model.TMDBMultiSearchResponse]
}

// NewTMDBService 创建媒体目录客户端
func NewTMDBService(cfg *config.Config) *TMDBService {
	client := utils.NewHTTPClient(cfg.TMDBTimeout)
	if cfg.TMDBToken != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.TMDBToken)
	}
	if utils.Cache == nil {
		utils.InitCache()
	}
	return &TMDBService{
		config:      cfg,
		client:      client,
		searchCache: utils.NewSearchCache[model.TMDBSearchResponse](1000, searchCacheTTL),
		multiCache:  utils.NewSearchCache[model.TMDBMultiSearchResponse](1000, searchCacheTTL),
	}
}

// buildURL 拼接上游请求地址
func (s *TMDBService) buildURL(endpoint string, params map[string]string) string {
	values := url.Values{}
	if s.config.TMDBToken == "" && s.config.TMDBAPIKey != "" {
		values.Set("api_key", s.config.TMDBAPIKey)
	}
	for k, v := range params {
		values.Set(k, v)
	}
	return s.config.TMDBBaseURL + endpoint + "?" + values.Encode()
}

// SearchMovies 按关键词搜索电影
func (s *TMDBService) SearchMovies(query string, page int, language string) (*model.TMDBSearchResponse, error) {
	cacheKey := fmt.Sprintf("search:movie:%s:%d:%s", language, page, query)
	if cached, found := s.searchCache.Get(cacheKey); found {
		return &cached, nil
	}

	// singleflight 合并并发的相同请求
	val, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		reqURL := s.buildURL("/search/movie", map[string]string{
			"query":         query,
			"page":          strconv.Itoa(page),
			"language":      language,
			"include_adult": "false",
		})
		var result model.TMDBSearchResponse
		if err := s.client.GetJSON(reqURL, &result); err != nil {
			return nil, fmt.Errorf("TMDB 电影搜索失败: %w", err)
		}
		s.searchCache.Set(cacheKey, result)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.TMDBSearchResponse), nil
}

// SearchMulti 跨电影和剧集搜索
func (s *TMDBService) SearchMulti(query string, page int, language string) (*model.TMDBMultiSearchResponse, error) {
	cacheKey := fmt.Sprintf("search:multi:%s:%d:%s", language, page, query)
	if cached, found := s.multiCache.Get(cacheKey); found {
		return &cached, nil
	}

	val, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		reqURL := s.buildURL("/search/multi", map[string]string{
			"query":         query,
			"page":          strconv.Itoa(page),
			"language":      language,
			"include_adult": "false",
		})
		var result model.TMDBMultiSearchResponse
		if err := s.client.GetJSON(reqURL, &result); err != nil {
			return nil, fmt.Errorf("TMDB multi 搜索失败: %w", err)
		}
		s.multiCache.Set(cacheKey, result)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.TMDBMultiSearchResponse), nil
}

// MovieDetails 电影详情
func (s *TMDBService) MovieDetails(movieID int, language string) (*model.TMDBMovieDetails, error) {
	cacheKey := fmt.Sprintf("movie:%s:%d", language, movieID)
	if cached, found := utils.CacheGet(cacheKey); found {
		if details, ok := cached.(*model.TMDBMovieDetails); ok {
			return details, nil
		}
	}

	val, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		reqURL := s.buildURL(fmt.Sprintf("/movie/%d", movieID), map[string]string{
			"language": language,
		})
		var result model.TMDBMovieDetails
		if err := s.client.GetJSON(reqURL, &result); err != nil {
			return nil, fmt.Errorf("TMDB 获取电影详情失败: %w", err)
		}
		utils.CacheSet(cacheKey, &result, detailCacheTTL)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.TMDBMovieDetails), nil
}

// TVDetails 剧集详情
func (s *TMDBService) TVDetails(tvID int, language string) (*model.TMDBTVDetails, error) {
	cacheKey := fmt.Sprintf("tv:%s:%d", language, tvID)
	if cached, found := utils.CacheGet(cacheKey); found {
		if details, ok := cached.(*model.TMDBTVDetails); ok {
			return details, nil
		}
	}

	val, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		reqURL := s.buildURL(fmt.Sprintf("/tv/%d", tvID), map[string]string{
			"language": language,
		})
		var result model.TMDBTVDetails
		if err := s.client.GetJSON(reqURL, &result); err != nil {
			return nil, fmt.Errorf("TMDB 获取剧集详情失败: %w", err)
		}
		utils.CacheSet(cacheKey, &result, detailCacheTTL)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.TMDBTVDetails), nil
}

// PopularMovies 热门电影列表
func (s *TMDBService) PopularMovies(page int, language string) (*model.TMDBSearchResponse, error) {
	cacheKey := fmt.Sprintf("popular:%s:%d", language, page)
	if cached, found := utils.CacheGet(cacheKey); found {
		if resp, ok := cached.(*model.TMDBSearchResponse); ok {
			return resp, nil
		}
	}

	val, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		reqURL := s.buildURL("/movie/popular", map[string]string{
			"page":     strconv.Itoa(page),
			"language": language,
		})
		var result model.TMDBSearchResponse
		if err := s.client.GetJSON(reqURL, &result); err != nil {
			return nil, fmt.Errorf("TMDB 获取热门电影失败: %w", err)
		}
		utils.CacheSet(cacheKey, &result, listingCacheTTL)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.TMDBSearchResponse), nil
}

// TrendingMovies 趋势电影列表，timeWindow 为 day 或 week
func (s *TMDBService) TrendingMovies(timeWindow, language string) (*model.TMDBSearchResponse, error) {
	cacheKey := fmt.Sprintf("trending:%s:%s", language, timeWindow)
	if cached, found := utils.CacheGet(cacheKey); found {
		if resp, ok := cached.(*model.TMDBSearchResponse); ok {
			return resp, nil
		}
	}

	val, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		reqURL := s.buildURL("/trending/movie/"+timeWindow, map[string]string{
			"language": language,
		})
		var result model.TMDBSearchResponse
		if err := s.client.GetJSON(reqURL, &result); err != nil {
			return nil, fmt.Errorf("TMDB 获取趋势电影失败: %w", err)
		}
		utils.CacheSet(cacheKey, &result, listingCacheTTL)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.TMDBSearchResponse), nil
}

// PosterURL 将海报路径拼为绝对地址；无路径时返回本地占位图
func (s *TMDBService) PosterURL(path *string, size string) string {
	if path == nil || *path == "" {
		return "/placeholder-poster.svg"
	}
	if size == "" {
		size = "w342"
	}
	return s.config.TMDBImageBaseURL + "/" + size + *path
}

// BackdropURL 将剧照路径拼为绝对地址；无路径时返回本地占位图
func (s *TMDBService) BackdropURL(path *string, size string) string {
	if path == nil || *path == "" {
		return "/placeholder-backdrop.svg"
	}
	if size == "" {
		size = "w1280"
	}
	return s.config.TMDBImageBaseURL + "/" + size + *path
}
