package config

import (
	"strings"
	"time"

	"github.com/SeakMengs/MailBlast/internal/env"
)

type Config struct {
	Port        string
	ENV         string
	RateLimiter RateLimiterConfig
	Mail        MailConfig
	Broadcast   BroadcastConfig
	Sheet       SheetConfig
	Minio       MinioConfig
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

type MailConfig struct {
	// Provider selects the outbound delivery implementation: "gmail" uses
	// the SMTP relay with per-job credentials, "sendgrid" uses the API key.
	Provider string
	SMTP     SMTPConfig
	SendGrid SendGridConfig
}

type SMTPConfig struct {
	HOST string
	PORT int
}

type SendGridConfig struct {
	API_KEY    string
	FROM_EMAIL string
}

type BroadcastConfig struct {
	// SendDelay paces consecutive sends to stay under the relay rate limit.
	SendDelay time.Duration
	// ResolveTimeout bounds each step of the attachment download handshake.
	ResolveTimeout time.Duration
}

type SheetConfig struct {
	FetchTimeout time.Duration
}

type MinioConfig struct {
	ENDPOINT   string
	ACCESS_KEY string
	SECRET_KEY string
	BUCKET     string
	USE_SSL    bool
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

// ArchiveEnabled reports whether uploaded dataset files should be archived to
// object storage.
func (c Config) ArchiveEnabled() bool {
	return c.Minio.ENDPOINT != ""
}

func GetConfig() Config {
	return Config{
		Port: env.GetString("PORT", "8080"),
		ENV:  env.GetString("ENV", "development"),
		// By default if not specified, we allow 5000 requests per minute on all routes
		RateLimiter: RateLimiterConfig{
			RequestsPerTimeFrame: env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 5000),
			TimeFrame:            env.GetDuration("RATE_LIMIT_TIME_FRAME", time.Minute),
			Enabled:              env.GetBool("RATE_LIMIT_ENABLED", true),
		},
		Mail: MailConfig{
			Provider: env.GetString("MAIL_PROVIDER", "gmail"),
			SMTP: SMTPConfig{
				HOST: env.GetString("MAIL_SMTP_HOST", "smtp.gmail.com"),
				PORT: env.GetInt("MAIL_SMTP_PORT", 587),
			},
			SendGrid: SendGridConfig{
				API_KEY:    env.GetString("MAIL_SEND_GRID_API_KEY", ""),
				FROM_EMAIL: env.GetString("MAIL_FROM_MAIL", ""),
			},
		},
		Broadcast: BroadcastConfig{
			SendDelay:      env.GetDuration("BROADCAST_SEND_DELAY", 500*time.Millisecond),
			ResolveTimeout: env.GetDuration("BROADCAST_RESOLVE_TIMEOUT", 10*time.Second),
		},
		Sheet: SheetConfig{
			FetchTimeout: env.GetDuration("SHEET_FETCH_TIMEOUT", 15*time.Second),
		},
		Minio: MinioConfig{
			ENDPOINT:   env.GetString("MINIO_ENDPOINT", ""),
			ACCESS_KEY: env.GetString("MINIO_ACCESS_KEY", ""),
			SECRET_KEY: env.GetString("MINIO_SECRET_KEY", ""),
			BUCKET:     env.GetString("MINIO_BUCKET", "mailblast-uploads"),
			USE_SSL:    env.GetBool("MINIO_USE_SSL", false),
		},
	}
}
