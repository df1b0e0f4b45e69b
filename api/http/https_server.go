package http

import (
	"NotiFlow/internal/config"
	"NotiFlow/internal/initial"
	jwtMiddleware "NotiFlow/internal/middleware/jwt"
	"NotiFlow/internal/modules/notification/application/service"
	"NotiFlow/internal/modules/notification/infrastructure/cache"
	"NotiFlow/internal/modules/notification/infrastructure/email"
	"NotiFlow/internal/modules/notification/infrastructure/persistence"
	"NotiFlow/internal/modules/notification/infrastructure/push"
	"NotiFlow/internal/modules/notification/infrastructure/realtime"
	notificationHandler "NotiFlow/internal/modules/notification/interface/http"
	"NotiFlow/internal/modules/notification/interface/scheduler"
	"NotiFlow/pkg/ssl"
	"NotiFlow/pkg/ws"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var GE *gin.Engine

// Scheduler 摘要调度器，由 main 启动和停止
var Scheduler *scheduler.DigestScheduler

func init() {
	conf := config.GetConfig()

	GE = gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))

	wsHub := ws.NewHub()

	notifRepo := persistence.NewNotificationRepository(initial.GormDB)
	prefRepo := persistence.NewPreferenceRepository(initial.GormDB)
	subRepo := persistence.NewPushSubscriptionRepository(initial.GormDB)

	mailer := email.NewSmtpSender(conf.SmtpConfig)
	transport := push.NewWebPushTransport(conf.WebPushConfig)
	countCache := cache.NewRedisCountCache()
	rtGateway := realtime.NewHubGateway(wsHub)

	pushSvc := service.NewPushService(subRepo, transport)
	prefSvc := service.NewPreferenceService(prefRepo)
	notifSvc := service.NewNotificationService(notifRepo, prefRepo, pushSvc, mailer, rtGateway, countCache)
	digestSvc := service.NewDigestService(notifRepo, prefRepo, mailer)

	if conf.DigestConfig.Enabled {
		Scheduler = scheduler.NewDigestScheduler(digestSvc, conf.DigestConfig.Timezone)
	}

	notifH := notificationHandler.NewNotificationHandler(notifSvc)
	prefH := notificationHandler.NewPreferenceHandler(prefSvc)
	pushH := notificationHandler.NewPushHandler(pushSvc)
	wsH := notificationHandler.NewWsHandler(wsHub)

	GE.POST("/login", notificationHandler.Login)
	GE.GET("/wss", wsH.Connect)

	authed := GE.Group("/")
	authed.Use(jwtMiddleware.Auth())
	authed.GET("/auth/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"uuid":     c.GetString("uuid"),
			"username": c.GetString("username"),
		})
	})
	authed.POST("/notification/send", notifH.Send)
	authed.POST("/notification/sendBulk", notifH.SendBulk)
	authed.POST("/notification/list", notifH.List)
	authed.POST("/notification/listGrouped", notifH.ListGrouped)
	authed.POST("/notification/markAsRead", notifH.MarkAsRead)
	authed.POST("/notification/markAllAsRead", notifH.MarkAllAsRead)
	authed.POST("/notification/archive", notifH.Archive)
	authed.POST("/notification/dismiss", notifH.Dismiss)
	authed.POST("/notification/unreadCount", notifH.UnreadCount)
	authed.POST("/preference/get", prefH.Get)
	authed.POST("/preference/update", prefH.Update)
	authed.POST("/push/subscribe", pushH.Subscribe)
	authed.POST("/push/unsubscribe", pushH.Unsubscribe)
}
