package routes

import (
	"ChipBook/controllers"
	"ChipBook/middleware"
	"ChipBook/services/ledger"
	"ChipBook/services/redcache"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes. cache may be nil when report
// caching is disabled.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cache *redcache.Client) {
	svc := ledger.New(db, cache)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)
	api.POST("/login", controllers.Login(db))

	auth := api.Group("/")
	auth.Use(middleware.AuthRequired(db))
	{
		auth.DELETE("/auth/logout", controllers.Logout)
		auth.GET("/auth/me", controllers.Me)

		auth.GET("/sessions", controllers.ListSessions(svc))
		auth.POST("/sessions", controllers.CreateSession(svc))
		auth.GET("/sessions/:id", controllers.GetSession(svc))
		auth.PATCH("/sessions/:id", controllers.UpdateSessionStatus(svc))

		auth.GET("/buyins", controllers.ListBuyIns(svc))
		auth.POST("/buyins", controllers.RequestBuyIn(svc))
		auth.PATCH("/buyins/:id/approve", controllers.ApproveBuyIn(svc))
		auth.PATCH("/buyins/:id/reject", controllers.RejectBuyIn(svc))

		auth.GET("/sessions/:id/cashout", controllers.GetCashOut(svc))
		auth.POST("/sessions/:id/cashout", controllers.RequestCashOut(svc))
		auth.GET("/sessions/:id/cashouts", controllers.ListCashOuts(svc))
		auth.PATCH("/sessions/:id/cashout/approve", controllers.ApproveCashOut(svc))
		auth.PATCH("/sessions/:id/cashout/reject", controllers.RejectCashOut(svc))

		auth.GET("/players", controllers.ListPlayers(svc))
		auth.POST("/players", controllers.CreatePlayer(svc))
		auth.DELETE("/players/:id", controllers.DeletePlayer(svc))
		auth.PATCH("/players/:id/active", controllers.SetPlayerActive(svc))

		auth.GET("/settlements", controllers.ListSettlements(svc))
		auth.POST("/settlements", controllers.RecordSettlement(svc))

		auth.GET("/reports/players/:id", controllers.PlayerSummary(svc))
	}
}
