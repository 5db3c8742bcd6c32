package config

type ServerConfig struct {
	HTTP HTTPConfig `mapstructure:"http" yaml:"http"`
	GRPC GRPCConfig `mapstructure:"grpc" yaml:"grpc"`
}

type HTTPConfig struct {
	Host         string   `mapstructure:"host" yaml:"host"`
	Port         int      `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
	AllowOrigins []string `mapstructure:"allow_origins" yaml:"allow_origins"`
}

// GRPCConfig configures the health server; port 0 disables it.
type GRPCConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port" validate:"min=0,max=65535"`
}

func (c GRPCConfig) Enabled() bool {
	return c.Port > 0
}
