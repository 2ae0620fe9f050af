package repository

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/store"
)

// 仓库哨兵错误，由 handler 映射为 404 / 409
var (
	ErrReviewNotFound = errors.New("评分记录不存在")
	ErrAlreadyRated   = errors.New("该影片已经评过分")
)

// ReviewRepository 评分仓库
// 每次调用都重新读取整个集合，不在内存中常驻缓存
type ReviewRepository struct {
	store *store.Store
	now   func() time.Time // 可注入时钟，月度统计的测试依赖它
}

// NewReviewRepository 创建评分仓库
func NewReviewRepository(s *store.Store) *ReviewRepository {
	return &ReviewRepository{
		store: s,
		now:   time.Now,
	}
}

// ListAll 返回全部评分，按创建时间倒序
func (r *ReviewRepository) ListAll() ([]model.Review, error) {
	c, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	reviews := c.Reviews
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

// GetByID 按标识符查找；未找到返回 nil，不视为错误
func (r *ReviewRepository) GetByID(id string) (*model.Review, error) {
	c, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	for i := range c.Reviews {
		if c.Reviews[i].ID == id {
			return &c.Reviews[i], nil
		}
	}
	return nil, nil
}

// GetByTMDBID 按 (外部媒体 ID, 媒体类型) 查找，用于“是否已评分”检查
func (r *ReviewRepository) GetByTMDBID(tmdbID int, kind model.MediaKind) (*model.Review, error) {
	c, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	kind = kind.OrDefault()
	for i := range c.Reviews {
		rev := &c.Reviews[i]
		if rev.TMDBID == tmdbID && rev.MediaType.OrDefault() == kind {
			return rev, nil
		}
	}
	return nil, nil
}

// Create 创建评分记录
// 同一 (tmdb_id, media_type) 只允许一条记录，重复创建返回 ErrAlreadyRated；
// 媒体类型缺省为电影，兼容多类型支持之前的旧数据
func (r *ReviewRepository) Create(form *model.ReviewForm) (*model.Review, error) {
	var created model.Review

	err := r.store.Mutate(func(c *store.Collection) error {
		kind := form.MediaType.OrDefault()
		for i := range c.Reviews {
			rev := &c.Reviews[i]
			if rev.TMDBID == form.TMDBID && rev.MediaType.OrDefault() == kind {
				return ErrAlreadyRated
			}
		}

		now := r.now()
		watched := form.WatchedDate
		if watched == nil || *watched == "" {
			d := now.Format("2006-01-02")
			watched = &d
		}
		genres := form.Genres
		if genres == nil {
			genres = []string{}
		}

		created = model.Review{
			ID:               uuid.NewString(),
			UserID:           model.LocalUserID,
			TMDBID:           form.TMDBID,
			MediaType:        kind,
			Title:            form.Title,
			OriginalTitle:    form.OriginalTitle,
			PosterPath:       form.PosterPath,
			BackdropPath:     form.BackdropPath,
			ReleaseDate:      form.ReleaseDate,
			Overview:         form.Overview,
			Genres:           genres,
			Runtime:          form.Runtime,
			NumberOfSeasons:  form.NumberOfSeasons,
			NumberOfEpisodes: form.NumberOfEpisodes,
			RatingScenario:   *form.RatingScenario,
			RatingVisual:     *form.RatingVisual,
			RatingMusic:      *form.RatingMusic,
			RatingActing:     *form.RatingActing,
			RatingGlobal: model.OverallRating(
				*form.RatingScenario, *form.RatingVisual,
				*form.RatingMusic, *form.RatingActing,
			),
			ReviewText:  form.ReviewText,
			WatchedDate: watched,
			IsFavorite:  form.IsFavorite,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		c.Reviews = append(c.Reviews, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update 部分更新
// 提供的字段覆盖旧值；只要携带任一子评分，就用合并后的四项重算综合评分。
// 创建时间不变，更新时间重新打点。不重查唯一性约束（补丁里无法携带 tmdb_id）
func (r *ReviewRepository) Update(id string, patch *model.ReviewPatch) (*model.Review, error) {
	var updated model.Review

	err := r.store.Mutate(func(c *store.Collection) error {
		idx := -1
		for i := range c.Reviews {
			if c.Reviews[i].ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return ErrReviewNotFound
		}

		rev := &c.Reviews[idx]
		if patch.RatingScenario != nil {
			rev.RatingScenario = *patch.RatingScenario
		}
		if patch.RatingVisual != nil {
			rev.RatingVisual = *patch.RatingVisual
		}
		if patch.RatingMusic != nil {
			rev.RatingMusic = *patch.RatingMusic
		}
		if patch.RatingActing != nil {
			rev.RatingActing = *patch.RatingActing
		}
		if patch.HasRating() {
			rev.RatingGlobal = model.OverallRating(
				rev.RatingScenario, rev.RatingVisual,
				rev.RatingMusic, rev.RatingActing,
			)
		}
		if patch.ReviewText != nil {
			rev.ReviewText = patch.ReviewText
		}
		if patch.WatchedDate != nil {
			rev.WatchedDate = patch.WatchedDate
		}
		if patch.IsFavorite != nil {
			rev.IsFavorite = *patch.IsFavorite
		}
		rev.UpdatedAt = r.now()

		updated = *rev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete 删除评分记录
func (r *ReviewRepository) Delete(id string) error {
	return r.store.Mutate(func(c *store.Collection) error {
		for i := range c.Reviews {
			if c.Reviews[i].ID == id {
				c.Reviews = append(c.Reviews[:i], c.Reviews[i+1:]...)
				return nil
			}
		}
		return ErrReviewNotFound
	})
}

// ToggleFavorite 设置收藏标记（Update 的便捷封装）
func (r *ReviewRepository) ToggleFavorite(id string, value bool) (*model.Review, error) {
	return r.Update(id, &model.ReviewPatch{IsFavorite: &value})
}

// Stats 收藏统计：总数、综合评分均值（保留两位）、收藏数、最近创建时间
func (r *ReviewRepository) Stats() (*model.UserStats, error) {
	c, err := r.store.Read()
	if err != nil {
		return nil, err
	}

	stats := &model.UserStats{UserID: model.LocalUserID}
	if len(c.Reviews) == 0 {
		return stats, nil
	}

	var sum float64
	var last time.Time
	for i := range c.Reviews {
		rev := &c.Reviews[i]
		sum += rev.RatingGlobal
		if rev.IsFavorite {
			stats.FavoritesCount++
		}
		if rev.CreatedAt.After(last) {
			last = rev.CreatedAt
		}
	}

	stats.TotalReviews = len(c.Reviews)
	stats.AvgRating = model.RoundTo(sum/float64(len(c.Reviews)), 2)
	stats.LastReviewDate = &last
	return stats, nil
}

// MonthlyReviews 本月（服务器本地时间，自然月 1 号起）创建的评分
func (r *ReviewRepository) MonthlyReviews() ([]model.Review, error) {
	c, err := r.store.Read()
	if err != nil {
		return nil, err
	}

	now := r.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	monthly := []model.Review{}
	for _, rev := range c.Reviews {
		if !rev.CreatedAt.Before(startOfMonth) {
			monthly = append(monthly, rev)
		}
	}
	return monthly, nil
}

// TopRated 综合评分最高的前 limit 条
func (r *ReviewRepository) TopRated(limit int) ([]model.Review, error) {
	c, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	reviews := c.Reviews
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].RatingGlobal > reviews[j].RatingGlobal
	})
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

// Recent 最近创建的前 limit 条
func (r *ReviewRepository) Recent(limit int) ([]model.Review, error) {
	reviews, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

// Favorites 收藏的评分，按综合评分倒序
func (r *ReviewRepository) Favorites() ([]model.Review, error) {
	c, err := r.store.Read()
	if err != nil {
		return nil, err
	}
	favorites := []model.Review{}
	for _, rev := range c.Reviews {
		if rev.IsFavorite {
			favorites = append(favorites, rev)
		}
	}
	sort.SliceStable(favorites, func(i, j int) bool {
		return favorites[i].RatingGlobal > favorites[j].RatingGlobal
	})
	return favorites, nil
}
