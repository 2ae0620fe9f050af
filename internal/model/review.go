package model

import (
	"time"
)

// MediaKind 媒体类型（电影 / 剧集）
type MediaKind string

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindTV    MediaKind = "tv"
)

// OrDefault 多类型支持之前创建的旧记录没有 media_type 字段，统一按电影处理
func (k MediaKind) OrDefault() MediaKind {
	if k == "" {
		return MediaKindMovie
	}
	return k
}

// Valid 是否为合法的媒体类型
func (k MediaKind) Valid() bool {
	return k == MediaKindMovie || k == MediaKindTV
}

// LocalUserID 单用户应用的固定用户标识
const LocalUserID = "local-user"

// Review 一条评分记录（评分均为 0-10，支持小数）
type Review struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	TMDBID           int       `json:"tmdb_id"`
	MediaType        MediaKind `json:"media_type,omitempty"`
	Title            string    `json:"title"`
	OriginalTitle    *string   `json:"original_title"`
	PosterPath       *string   `json:"poster_path"`
	BackdropPath     *string   `json:"backdrop_path"`
	ReleaseDate      *string   `json:"release_date"`
	Overview         *string   `json:"overview"`
	Genres           []string  `json:"genres"`
	Runtime          *int      `json:"runtime"`
	NumberOfSeasons  *int      `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes *int      `json:"number_of_episodes,omitempty"`
	RatingScenario   float64   `json:"rating_scenario"`
	RatingVisual     float64   `json:"rating_visual"`
	RatingMusic      float64   `json:"rating_music"`
	RatingActing     float64   `json:"rating_acting"`
	RatingGlobal     float64   `json:"rating_global"`
	ReviewText       *string   `json:"review_text"`
	WatchedDate      *string   `json:"watched_date"`
	IsFavorite       bool      `json:"is_favorite"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ReviewForm 创建评分的请求体
// 四项子评分使用指针，区分“未提供”和合法的 0 分
type ReviewForm struct {
	TMDBID           int       `json:"tmdb_id" binding:"required"`
	MediaType        MediaKind `json:"media_type" binding:"omitempty,oneof=movie tv"`
	Title            string    `json:"title" binding:"required"`
	OriginalTitle    *string   `json:"original_title"`
	PosterPath       *string   `json:"poster_path"`
	BackdropPath     *string   `json:"backdrop_path"`
	ReleaseDate      *string   `json:"release_date"`
	Overview         *string   `json:"overview"`
	Genres           []string  `json:"genres"`
	Runtime          *int      `json:"runtime"`
	NumberOfSeasons  *int      `json:"number_of_seasons"`
	NumberOfEpisodes *int      `json:"number_of_episodes"`
	RatingScenario   *float64  `json:"rating_scenario" binding:"required,min=0,max=10"`
	RatingVisual     *float64  `json:"rating_visual" binding:"required,min=0,max=10"`
	RatingMusic      *float64  `json:"rating_music" binding:"required,min=0,max=10"`
	RatingActing     *float64  `json:"rating_acting" binding:"required,min=0,max=10"`
	ReviewText       *string   `json:"review_text"`
	WatchedDate      *string   `json:"watched_date"`
	IsFavorite       bool      `json:"is_favorite"`
}

// ReviewPatch 部分更新的请求体
// 仅允许修改四项子评分、短评、观影日期和收藏标记；
// 标识符和 tmdb_id 不可修改
type ReviewPatch struct {
	RatingScenario *float64 `json:"rating_scenario" binding:"omitempty,min=0,max=10"`
	RatingVisual   *float64 `json:"rating_visual" binding:"omitempty,min=0,max=10"`
	RatingMusic    *float64 `json:"rating_music" binding:"omitempty,min=0,max=10"`
	RatingActing   *float64 `json:"rating_acting" binding:"omitempty,min=0,max=10"`
	ReviewText     *string  `json:"review_text"`
	WatchedDate    *string  `json:"watched_date"`
	IsFavorite     *bool    `json:"is_favorite"`
}

// HasRating 是否携带任一子评分（携带则需要重算综合评分）
func (p *ReviewPatch) HasRating() bool {
	return p.RatingScenario != nil || p.RatingVisual != nil ||
		p.RatingMusic != nil || p.RatingActing != nil
}

// UserStats 个人收藏统计
type UserStats struct {
	UserID         string     `json:"user_id"`
	TotalReviews   int        `json:"total_reviews"`
	AvgRating      float64    `json:"avg_rating"`
	FavoritesCount int        `json:"favorites_count"`
	LastReviewDate *time.Time `json:"last_review_date"`
	MonthlyCount   int        `json:"monthly_count"`
}
