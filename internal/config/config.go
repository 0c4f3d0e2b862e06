// internal/config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JWTConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// CorpusConfig は埋め込みコーパスの読み込み設定です
type CorpusConfig struct {
	Path string `mapstructure:"path"`
}

// LemmatizerConfig は形態素解析 (レンマ化) の実装選択です ("kagome" / "static")
type LemmatizerConfig struct {
	Type string `mapstructure:"type"`
}

// GameConfig はゲーム進行のチューニング項目です
type GameConfig struct {
	// Coop/Versus で Open -> Active に遷移するために必要な、作成者以外の参加者数
	MinOpponents int `mapstructure:"min_opponents"`
	// 勝者に加算するポイント
	WinPoints int `mapstructure:"win_points"`
	// 終端状態のセッションを保持する期間 (分)
	RetentionMinutes int `mapstructure:"retention_minutes"`
	// ディレクトリ掃除の間隔 (分)
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes"`
}

func (g GameConfig) Retention() time.Duration {
	return time.Duration(g.RetentionMinutes) * time.Minute
}

func (g GameConfig) SweepInterval() time.Duration {
	return time.Duration(g.SweepIntervalMinutes) * time.Minute
}

type MailerConfig struct {
	Type string `mapstructure:"type"` // "log" / "smtp" / "ses"
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	From            string `mapstructure:"from"`
	AuthType        string `mapstructure:"auth_type"` // "iam_role" / "static_credentials"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Auth       AuthConfig       `mapstructure:"auth"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Corpus     CorpusConfig     `mapstructure:"corpus"`
	Lemmatizer LemmatizerConfig `mapstructure:"lemmatizer"`
	Game       GameConfig       `mapstructure:"game"`
	Mailer     MailerConfig     `mapstructure:"mailer"`
	SMTP       SMTPConfig       `mapstructure:"smtp"`
	SES        SESConfig        `mapstructure:"ses"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	// 環境変数での上書きを許可 (例: APP_DATABASE_URL, AUTH_ENABLED)
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("auth.enabled", "AUTH_ENABLED")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("corpus.path", "CORPUS_PATH")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	err := viper.Unmarshal(&Cfg)
	if err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.Log.Level == "" {
		Cfg.Log.Level = DefaultLogLevel
	}
	if Cfg.Lemmatizer.Type == "" {
		Cfg.Lemmatizer.Type = DefaultLemmatizerType
	}
	if Cfg.Game.MinOpponents <= 0 {
		Cfg.Game.MinOpponents = DefaultMinOpponents
	}
	if Cfg.Game.WinPoints <= 0 {
		Cfg.Game.WinPoints = DefaultWinPoints
	}
	if Cfg.Game.RetentionMinutes <= 0 {
		Cfg.Game.RetentionMinutes = DefaultRetentionMinutes
	}
	if Cfg.Game.SweepIntervalMinutes <= 0 {
		Cfg.Game.SweepIntervalMinutes = DefaultSweepIntervalMinutes
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}

	// 未設定なら認証は有効に倒す
	if !viper.IsSet("auth.enabled") {
		Cfg.Auth.Enabled = true
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Lemmatizer: %s", Cfg.Lemmatizer.Type)
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)

	return nil
}
