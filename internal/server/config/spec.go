// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for airsig-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Match   MatchSection   `koanf:"match"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// CORSOrigins lists allowed cross-origin hosts; "*" allows all.
	CORSOrigins []string `koanf:"cors_origins"`
}

// StorageSection configures storage behavior.
type StorageSection struct {
	// DataDir is the directory for the durable session archive. Empty
	// disables the archive; the server then runs memory-only.
	DataDir string `koanf:"data_dir"`

	// ArchiveSyncWrites forces fsync on every archive write.
	ArchiveSyncWrites bool `koanf:"archive_sync_writes"`

	// ArchiveGCInterval is the Badger value log GC cadence.
	ArchiveGCInterval time.Duration `koanf:"archive_gc_interval"`

	// SweepInterval is the cadence of the expired-session sweep.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// MatchSection configures match-attempt throttling.
type MatchSection struct {
	// RatePerSecond is the sustained match attempts allowed per device.
	RatePerSecond float64 `koanf:"rate_per_second"`

	// Burst is the short-term allowance per device.
	Burst int `koanf:"burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
