package router

import (
	"github.com/gin-gonic/gin"

	"octa-bazi-api/internal/interfaces/http/handler"
	"octa-bazi-api/internal/interfaces/http/middleware"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	baziHandler *handler.BaziHandler,
	profileHandler *handler.ProfileHandler,
) {
	// 排盘
	if baziHandler != nil {
		bazi := v1.Group("/bazi")
		{
			bazi.POST("/chart", baziHandler.Chart)
			bazi.POST("/strength", baziHandler.Strength)
			bazi.POST("/luck", baziHandler.Luck)
			bazi.POST("/analysis", baziHandler.Analysis)
			bazi.GET("/narratives/:day_pillar/:label", baziHandler.Narrative)
		}
	}

	// 档案管理
	if profileHandler != nil {
		profiles := v1.Group("/profiles", middleware.RequireUser())
		{
			profiles.GET("", profileHandler.ListProfiles)
			profiles.POST("", profileHandler.CreateProfile)
			profiles.GET("/:id", profileHandler.GetProfile)
			profiles.PATCH("/:id", profileHandler.UpdateProfile)
			profiles.DELETE("/:id", profileHandler.DeleteProfile)
			profiles.POST("/:id/activate", profileHandler.ActivateProfile)
		}
	}
}
