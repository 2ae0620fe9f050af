package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Repos  *repository.Repositories
	Config *config.Config
	TMDB   *service.TMDBService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, tmdb *service.TMDBService) *Handler {
	return &Handler{
		Repos:  repos,
		Config: cfg,
		TMDB:   tmdb,
	}
}

// bindErrorMessage 将请求体绑定错误转为面向用户的字段级提示
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("缺少必填字段 %s", fe.Field())
		case "min", "max":
			return fmt.Sprintf("字段 %s 超出取值范围", fe.Field())
		case "oneof":
			return fmt.Sprintf("字段 %s 取值无效", fe.Field())
		}
		return fmt.Sprintf("字段 %s 无效", fe.Field())
	}
	return "无效的请求数据"
}
