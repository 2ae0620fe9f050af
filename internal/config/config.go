package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env              string
	Port             string
	DataDir          string
	TMDBToken        string // Bearer Token（优先使用）
	TMDBAPIKey       string // api_key 查询参数（备用方案）
	TMDBBaseURL      string
	TMDBImageBaseURL string
	TMDBLanguage     string
	TMDBTimeout      time.Duration
	SiteName         string
}

// Load 加载配置
func Load() *Config {
	timeoutSecs, _ := strconv.Atoi(getEnv("TMDB_TIMEOUT_SECONDS", "30"))

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "5007"),
		DataDir:          getEnv("DATA_DIR", "./data"),
		TMDBToken:        getEnv("TMDB_API_READ_ACCESS_TOKEN", ""),
		TMDBAPIKey:       getEnv("TMDB_API_KEY", ""),
		TMDBBaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
		TMDBLanguage:     getEnv("TMDB_LANGUAGE", "fr-FR"),
		TMDBTimeout:      time.Duration(timeoutSecs) * time.Second,
		SiteName:         getEnv("SITE_NAME", "CineLog"),
	}

	if cfg.TMDBToken == "" && cfg.TMDBAPIKey == "" {
		fmt.Println("【警告】未配置 TMDB API 凭证，媒体目录代理接口将不可用")
	}

	return cfg
}

// DataFile 返回评分数据文件的完整路径
func (c *Config) DataFile() string {
	return filepath.Join(c.DataDir, "reviews.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
