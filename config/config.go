package config

import (
	"time"

	"github.com/gotify/configor"
	"github.com/pkg/errors"
)

var ErrEmptyJWTSecret = errors.New("не задан JWT_ACCESS_SECRET")

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr   string `default:"" env:"APP_HOST"`
		Port         int    `default:"8080"  env:"APP_PORT"`
		CorsOrigins  string `default:"http://localhost:3000" env:"CORS_ORIGINS"`
		CookieDomain string `default:"localhost" env:"COOKIE_DOMAIN"`
		CookieSecure *bool  `default:"false" env:"COOKIE_SECURE"`
		BodyLimitMb  int    `default:"50" env:"APP_BODY_LIMIT_MB"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"expenses" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		Region          string `default:"us-east-1" env:"S3_REGION"`
		ReceiptsBucket  string `default:"expense-files" env:"S3_RECEIPTS_BUCKET"`
		AvatarsBucket   string `default:"avatars" env:"S3_AVATARS_BUCKET"`
	}
	Auth struct {
		JWTSecret             string `required:"true" env:"JWT_ACCESS_SECRET"`
		JWTRefreshSecret      string `default:"" env:"JWT_REFRESH_SECRET"`
		JWTExpireInSec        int64  `default:"3600" env:"JWT_ACCESS_EXPIRES_SEC"`
		JWTRefreshExpireInSec int64  `default:"604800" env:"JWT_REFRESH_EXPIRES_SEC"`
		AccessCookie          string `default:"sh_access" env:"AUTH_COOKIE_ACCESS"`
		RefreshCookie         string `default:"sh_refresh" env:"AUTH_COOKIE_REFRESH"`
	}
	Expense struct {
		SignTTLSec        int   `default:"3600" env:"EXPENSE_SIGN_TTL_SEC"`
		SignTimeoutMs     int   `default:"3000" env:"EXPENSE_SIGN_TIMEOUT_MS"`
		SignConcurrency   int   `default:"8" env:"EXPENSE_SIGN_CONCURRENCY"`
		MaxFileSizeMb     int64 `default:"10" env:"EXPENSE_MAX_FILE_SIZE_MB"`
		DetailOwnerScoped *bool `default:"false" env:"EXPENSE_DETAIL_OWNER_SCOPED"` // детальная карточка только владельцу/менеджеру/бухгалтерии
		AttachOwnerOnly   *bool `default:"false" env:"EXPENSE_ATTACH_OWNER_ONLY"`
		AttachOnlyCreated *bool `default:"false" env:"EXPENSE_ATTACH_ONLY_CREATED"` // запрет загрузки после выхода из CREATED
	}
	Manager struct {
		Email    string `default:"" env:"MANAGER_EMAIL"`
		Password string `default:"" env:"MANAGER_PASSWORD"`
	}
	Metrics struct {
		Enabled *bool  `default:"true" env:"METRICS_ENABLED"`
		Path    string `default:"/metrics" env:"METRICS_PATH"`
	}
}

func (c Configuration) SignTTL() time.Duration {
	return time.Duration(c.Expense.SignTTLSec) * time.Second
}

func (c Configuration) SignTimeout() time.Duration {
	return time.Duration(c.Expense.SignTimeoutMs) * time.Millisecond
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
	if err = conf.Validate(); err != nil {
		panic(err)
	}
	Conf = conf
}

// Validate - без секрета HS256 подпись проверяется пустым ключом
func (c Configuration) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrEmptyJWTSecret
	}
	return nil
}
