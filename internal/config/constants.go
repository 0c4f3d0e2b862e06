// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "semantus"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort           = ":8080"
	DefaultLogLevel             = "info"
	DefaultLemmatizerType       = "kagome"
	DefaultMinOpponents         = 1
	DefaultWinPoints            = 100
	DefaultRetentionMinutes     = 24 * 60
	DefaultSweepIntervalMinutes = 30
)
