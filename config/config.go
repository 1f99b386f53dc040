package config

import (
	"strings"

	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"hr-portal" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecretKey  string `default:"change-me" env:"JWT_SECRET_KEY"`
		TokenTTLHours int    `default:"12" env:"JWT_TOKEN_TTL_HOURS"`
		// AdminUsers is a comma separated allow-list of admin emails.
		AdminUsers string `default:"" env:"ADMIN_USERS"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"hr-portal@example.com" env:"SMTP_FROM"`
		PortalURL  string `default:"http://localhost:8000" env:"PORTAL_URL"`
	}
	S3 struct {
		Endpoint  string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKey string `default:"" env:"S3_ACCESS_KEY"`
		SecretKey string `default:"" env:"S3_SECRET_KEY"`
		Bucket    string `default:"hr-portal" env:"S3_BUCKET"`
		UseSSL    *bool  `default:"false" env:"S3_USE_SSL"`
	}
	Workspace struct {
		BaseURL     string `default:"" env:"WORKSPACE_BASE_URL"`
		APIToken    string `default:"" env:"WORKSPACE_API_TOKEN"`
		Domain      string `default:"" env:"WORKSPACE_DOMAIN"`
		SyncOnStart *bool  `default:"false" env:"WORKSPACE_SYNC_ON_START"`
	}
	Calendar struct {
		BaseURL    string `default:"" env:"CALENDAR_BASE_URL"`
		APIToken   string `default:"" env:"CALENDAR_API_TOKEN"`
		CalendarID string `default:"team-absences" env:"CALENDAR_ID"`
	}
	Notification struct {
		Enabled     *bool `default:"true" env:"NOTIFICATION_ENABLED"`
		QueueSize   int   `default:"100" env:"NOTIFICATION_QUEUE_SIZE"`
		RetryDelay  int   `default:"30" env:"NOTIFICATION_RETRY_DELAY_SEC"`
		MaxAttempts int   `default:"3" env:"NOTIFICATION_MAX_ATTEMPTS"`
	}
}

// AdminList splits the configured admin allow-list into normalized emails.
func (c *Configuration) AdminList() []string {
	if c.Auth.AdminUsers == "" {
		return nil
	}
	parts := strings.Split(c.Auth.AdminUsers, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// IsAdminEmail reports whether the email is on the admin allow-list.
func (c *Configuration) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminList() {
		if admin == email {
			return true
		}
	}
	return false
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
