package config

type Storage struct {
	// Captured request 檔案存放根目錄
	Root string `mapstructure:"ROOT" json:"root" yaml:"root"`
}
