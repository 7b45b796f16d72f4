package server

// Config holds configuration for the HTTP inspector server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables
	// authentication.
	ApiKey string `mapstructure:"api_key" default:""`
	// Policy selects the reconciliation policy driving the surface
	// (sequential or batched).
	Policy string `mapstructure:"policy" default:"sequential"`
}

const (
	PolicySequential = "sequential"
	PolicyBatched    = "batched"
)

// IsValidPolicy checks if the configured reconciliation policy is valid.
func (c Config) IsValidPolicy() bool {
	switch c.Policy {
	case PolicySequential, PolicyBatched:
		return true
	default:
		return false
	}
}
