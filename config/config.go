package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	OSS        OSSConfig        `mapstructure:"oss"`
	OAuth      OAuthConfig      `mapstructure:"oauth"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	Email      EmailConfig      `mapstructure:"email"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Cron       CronConfig       `mapstructure:"cron"`
	Invitation InvitationConfig `mapstructure:"invitation"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type OAuthConfig struct {
	Meta MetaOAuthConfig `mapstructure:"meta"`
}

// MetaOAuthConfig configures the Facebook Login (business) flow used to
// connect Instagram / Messenger / WhatsApp accounts.
type MetaOAuthConfig struct {
	AppID        string   `mapstructure:"app_id"`
	AppSecret    string   `mapstructure:"app_secret"`
	RedirectURI  string   `mapstructure:"redirect_uri"`
	ConfigID     string   `mapstructure:"config_id"`
	GraphVersion string   `mapstructure:"graph_version"`
	Scopes       []string `mapstructure:"scopes"`
}

type WebhookConfig struct {
	VerifyToken string `mapstructure:"verify_token"`
	AppSecret   string `mapstructure:"app_secret"`
	Queue       string `mapstructure:"queue"`
	MaxWorkers  int    `mapstructure:"max_workers"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type CronConfig struct {
	PlanExpirySpec        string `mapstructure:"plan_expiry_spec"`
	InvitationCleanupSpec string `mapstructure:"invitation_cleanup_spec"`
}

type InvitationConfig struct {
	ExpireHours int    `mapstructure:"expire_hours"`
	AcceptURL   string `mapstructure:"accept_url"`
}

func Load(configPath string) (*Config, error) {
	// config.local.yaml carries real secrets and is not committed
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// PathFromEnv returns CONFIG_PATH or the default config.yaml.
func PathFromEnv() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("jwt.expire_hours", 72)
	v.SetDefault("oauth.meta.graph_version", "v19.0")
	v.SetDefault("oauth.meta.scopes", []string{
		"pages_show_list",
		"pages_messaging",
		"instagram_basic",
		"instagram_manage_messages",
		"business_management",
	})
	v.SetDefault("webhook.queue", "inboop:webhook_events")
	v.SetDefault("webhook.max_workers", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("cron.plan_expiry_spec", "*/10 * * * *")
	v.SetDefault("cron.invitation_cleanup_spec", "0 3 * * *")
	v.SetDefault("invitation.expire_hours", 72)
}
