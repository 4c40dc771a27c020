package main

import (
	appcontext "github.com/SeakMengs/MailBlast/internal/app_context"
	"github.com/SeakMengs/MailBlast/internal/config"
	"github.com/SeakMengs/MailBlast/internal/controller"
	"github.com/SeakMengs/MailBlast/internal/env"
	filestorage "github.com/SeakMengs/MailBlast/internal/file_storage"
	"github.com/SeakMengs/MailBlast/internal/mailer"
	"github.com/SeakMengs/MailBlast/internal/middleware"
	ratelimiter "github.com/SeakMengs/MailBlast/internal/rate_limiter"
	"github.com/SeakMengs/MailBlast/internal/repository"
	"github.com/SeakMengs/MailBlast/internal/resolver"
	"github.com/SeakMengs/MailBlast/internal/route"
	"github.com/SeakMengs/MailBlast/internal/spreadsheet"
	"github.com/SeakMengs/MailBlast/internal/util"
	"github.com/SeakMengs/MailBlast/pkg/broadcast"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	// Flush buffered log entries on shutdown.
	defer logger.Sync()
	logger.Debugf("Configuration: %+v \n", cfg)

	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("strNotEmpty", util.StrNotEmpty); err != nil {
			return
		}
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)

	var mail mailer.Client
	switch cfg.Mail.Provider {
	case "sendgrid":
		mail = mailer.NewSendgrid(cfg.Mail.SendGrid.API_KEY, cfg.Mail.SendGrid.FROM_EMAIL, cfg.IsProduction(), logger)
	default:
		mail = mailer.NewGmailMailer(cfg.Mail.SMTP.HOST, cfg.Mail.SMTP.PORT, logger)
	}

	driveResolver := resolver.NewDriveResolver(cfg.Broadcast.ResolveTimeout, logger)
	broadcaster := broadcast.NewBroadcaster(mail, driveResolver, cfg.Broadcast.SendDelay, logger)
	sheetLoader := spreadsheet.NewLoader(cfg.Sheet.FetchTimeout)

	var archive *filestorage.Archive
	if cfg.ArchiveEnabled() {
		s3, err := filestorage.NewMinioClient(&cfg.Minio)
		if err != nil {
			logger.Error("Error connecting to minio")
			logger.Panic(err)
		}
		archive = filestorage.NewArchive(s3, cfg.Minio.BUCKET)
		logger.Info("Upload archiving enabled \n")
	}

	repo := repository.NewRepository(logger)
	app := appcontext.Application{
		Config:      &cfg,
		Logger:      logger,
		Repository:  repo,
		Broadcaster: broadcaster,
		SheetLoader: sheetLoader,
		Archive:     archive,
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.ENV == "production" {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept"}
	r.Use(cors.New(corsConfig))
	r.Use(_middleware.RateLimiterMiddleware)

	_controller := controller.NewController(&app)

	r.GET("/", _controller.Index.Index)

	rApi := r.Group("/api")

	route.V1_Datasets(rApi, _controller.Dataset)
	route.V1_Broadcasts(rApi, _controller.Broadcast)

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panic("Error running server: %v \n", err)
	}
}
