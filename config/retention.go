package config

type Retention struct {
	Enabled bool `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	// 保留天數，超過即由 sweeper 刪除
	Days int `mapstructure:"DAYS" json:"days" yaml:"days"`
	// cron spec（含秒），預設每日 03:00
	Schedule string `mapstructure:"SCHEDULE" json:"schedule" yaml:"schedule"`
}
