package config

type Configuration struct {
	App       App             `mapstructure:"APP" json:"app" yaml:"app"`
	Log       Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	Capture   Capture         `mapstructure:"CAPTURE" json:"capture" yaml:"capture"`
	Gate      Gate            `mapstructure:"GATE" json:"gate" yaml:"gate"`
	Storage   Storage         `mapstructure:"STORAGE" json:"storage" yaml:"storage"`
	Retention Retention       `mapstructure:"RETENTION" json:"retention" yaml:"retention"`
	Telemetry TelemetryConfig `mapstructure:"TELEMETRY" yaml:"telemetry"`
	Fluentd   Fluentd         `mapstructure:"FLUENTD" yaml:"fluentd"`
}
