// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr = "127.0.0.1:5580"

	DefaultDataDir           = "/var/lib/airsig-server/data"
	DefaultArchiveGCInterval = 10 * time.Minute
	DefaultSweepInterval     = 5 * time.Second

	DefaultMatchRatePerSecond = 2.0
	DefaultMatchBurst         = 5

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:        DefaultHTTPAddr,
				CORSOrigins: []string{"*"},
			},
		},
		Storage: StorageSection{
			DataDir:           DefaultDataDir,
			ArchiveSyncWrites: false,
			ArchiveGCInterval: DefaultArchiveGCInterval,
			SweepInterval:     DefaultSweepInterval,
		},
		Match: MatchSection{
			RatePerSecond: DefaultMatchRatePerSecond,
			Burst:         DefaultMatchBurst,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
