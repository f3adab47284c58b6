package configs

// Metrics controls the prometheus endpoint. When disabled the counters are
// still collected but not served.
type Metrics struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Path    string `env:"PATH" envDefault:"/metrics"`
}
