package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/handler"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/router"
	"github.com/user/cinelog/internal/service"
	"github.com/user/cinelog/internal/store"
	"github.com/user/cinelog/internal/utils"
)

// newTestServer 搭建完整路由的测试服务器，存储落在临时目录
func newTestServer(t *testing.T, upstreamURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:              "test",
		Port:             "0",
		DataDir:          t.TempDir(),
		TMDBBaseURL:      upstreamURL,
		TMDBImageBaseURL: "https://image.tmdb.org/t/p",
		TMDBLanguage:     "fr-FR",
		TMDBTimeout:      2 * time.Second,
	}

	st := store.New(cfg.DataFile())
	repos := repository.NewRepositories(st)

	// 重置全局缓存，避免测试之间互相污染
	utils.InitCache()
	tmdb := service.NewTMDBService(cfg)

	r := gin.New()
	router.RegisterRoutes(r, handler.NewHandler(repos, cfg, tmdb))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func fightClubForm() map[string]any {
	return map[string]any{
		"tmdb_id":         550,
		"media_type":      "movie",
		"title":           "Fight Club",
		"rating_scenario": 8,
		"rating_visual":   9,
		"rating_music":    7,
		"rating_acting":   9,
	}
}

func TestReviewLifecycle(t *testing.T) {
	r := newTestServer(t, "http://127.0.0.1:0")

	// 创建
	w, body := doJSON(t, r, http.MethodPost, "/reviews", fightClubForm())
	require.Equal(t, http.StatusCreated, w.Code)
	review, ok := body["review"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 8.3, review["rating_global"], 1e-9)
	assert.Equal(t, "local-user", review["user_id"])
	id, ok := review["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	// 重复创建被拒绝
	w, body = doJSON(t, r, http.MethodPost, "/reviews", fightClubForm())
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "该电影已经评过分了", body["error"])

	// 仅修改收藏标记，评分不变
	w, body = doJSON(t, r, http.MethodPatch, "/reviews/"+id, map[string]any{"is_favorite": true})
	require.Equal(t, http.StatusOK, w.Code)
	review = body["review"].(map[string]any)
	assert.Equal(t, true, review["is_favorite"])
	assert.InDelta(t, 8.3, review["rating_global"], 1e-9)

	// 修改子评分触发综合评分重算：(8,9,10,9) -> 9.0
	w, body = doJSON(t, r, http.MethodPatch, "/reviews/"+id, map[string]any{"rating_music": 10})
	require.Equal(t, http.StatusOK, w.Code)
	review = body["review"].(map[string]any)
	assert.InDelta(t, 9.0, review["rating_global"], 1e-9)

	// 删除
	w, body = doJSON(t, r, http.MethodDelete, "/reviews/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	// 删除后再查为 404
	w, body = doJSON(t, r, http.MethodGet, "/reviews/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "评分记录不存在", body["error"])
}

func TestCreateReviewValidation(t *testing.T) {
	r := newTestServer(t, "http://127.0.0.1:0")

	// 缺少标题
	form := fightClubForm()
	delete(form, "title")
	w, body := doJSON(t, r, http.MethodPost, "/reviews", form)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, body["error"])

	// 缺少子评分
	form = fightClubForm()
	delete(form, "rating_music")
	w, _ = doJSON(t, r, http.MethodPost, "/reviews", form)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 子评分超出 0-10
	form = fightClubForm()
	form["rating_acting"] = 11
	w, _ = doJSON(t, r, http.MethodPost, "/reviews", form)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 非法媒体类型
	form = fightClubForm()
	form["media_type"] = "book"
	w, _ = doJSON(t, r, http.MethodPost, "/reviews", form)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReviewAcceptsZeroRating(t *testing.T) {
	r := newTestServer(t, "http://127.0.0.1:0")

	// 0 是合法评分，必填校验针对字段缺失而不是零值
	form := fightClubForm()
	form["rating_scenario"] = 0
	form["rating_visual"] = 0
	form["rating_music"] = 0
	form["rating_acting"] = 1

	w, body := doJSON(t, r, http.MethodPost, "/reviews", form)
	require.Equal(t, http.StatusCreated, w.Code)
	review := body["review"].(map[string]any)
	assert.InDelta(t, 0.3, review["rating_global"], 1e-9)
}

func TestCheckReviewByExternalID(t *testing.T) {
	r := newTestServer(t, "http://127.0.0.1:0")

	w, body := doJSON(t, r, http.MethodGet, "/reviews/by-external-id/550", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["exists"])
	assert.Nil(t, body["review"])

	w, _ = doJSON(t, r, http.MethodPost, "/reviews", fightClubForm())
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = doJSON(t, r, http.MethodGet, "/reviews/by-external-id/550?media_type=movie", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["exists"])
	require.NotNil(t, body["review"])

	// 相同 ID 的剧集没有评分
	w, body = doJSON(t, r, http.MethodGet, "/reviews/by-external-id/550?media_type=tv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["exists"])

	// 非数字 ID
	w, body = doJSON(t, r, http.MethodGet, "/reviews/by-external-id/abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "无效的媒体 ID", body["error"])

	// 非法媒体类型
	w, body = doJSON(t, r, http.MethodGet, "/reviews/by-external-id/550?media_type=book", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "无效的媒体类型", body["error"])
}

func TestListReviewsWithStats(t *testing.T) {
	r := newTestServer(t, "http://127.0.0.1:0")

	// 无统计参数时只返回列表
	w, body := doJSON(t, r, http.MethodGet, "/reviews", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reviews, ok := body["reviews"].([]any)
	require.True(t, ok)
	assert.Empty(t, reviews)
	_, hasStats := body["stats"]
	assert.False(t, hasStats)

	w, _ = doJSON(t, r, http.MethodPost, "/reviews", fightClubForm())
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = doJSON(t, r, http.MethodGet, "/reviews?stats=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reviews = body["reviews"].([]any)
	require.Len(t, reviews, 1)

	stats, ok := body["stats"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 1, stats["total_reviews"], 1e-9)
	assert.InDelta(t, 8.3, stats["avg_rating"], 1e-9)
	assert.InDelta(t, 1, stats["monthly_count"], 1e-9)
}

func TestUpdateReviewNotFound(t *testing.T) {
	r := newTestServer(t, "http://127.0.0.1:0")

	w, body := doJSON(t, r, http.MethodPatch, "/reviews/nope", map[string]any{"is_favorite": true})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "评分记录不存在", body["error"])

	w, body = doJSON(t, r, http.MethodDelete, "/reviews/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "评分记录不存在", body["error"])
}

func TestAggregateReviewRoutes(t *testing.T) {
	r := newTestServer(t, "http://127.0.0.1:0")

	form := fightClubForm()
	form["is_favorite"] = true
	w, _ := doJSON(t, r, http.MethodPost, "/reviews", form)
	require.Equal(t, http.StatusCreated, w.Code)

	second := map[string]any{
		"tmdb_id": 603, "media_type": "movie", "title": "The Matrix",
		"rating_scenario": 10, "rating_visual": 10, "rating_music": 10, "rating_acting": 10,
	}
	w, _ = doJSON(t, r, http.MethodPost, "/reviews", second)
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := doJSON(t, r, http.MethodGet, "/reviews/favorites", nil)
	require.Equal(t, http.StatusOK, w.Code)
	favorites := body["reviews"].([]any)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Fight Club", favorites[0].(map[string]any)["title"])

	w, body = doJSON(t, r, http.MethodGet, "/reviews/top-rated?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	top := body["reviews"].([]any)
	require.Len(t, top, 1)
	assert.Equal(t, "The Matrix", top[0].(map[string]any)["title"])

	w, body = doJSON(t, r, http.MethodGet, "/reviews/recent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["reviews"].([]any), 2)
}

func TestHealth(t *testing.T) {
	r := newTestServer(t, "http://127.0.0.1:0")

	w, body := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}
