// Package config defines the server configuration structure.
package config

import (
	"errors"
	"net"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyMatch(&cfg.Match); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return errors.New("server.http.addr is not host:port: " + err.Error())
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http tls_cert_file and tls_key_file must be set together")
	}
	if cfg.HTTP.TLSCertFile != "" {
		if _, err := os.Stat(cfg.HTTP.TLSCertFile); err != nil {
			return errors.New("server.http.tls_cert_file: " + err.Error())
		}
		if _, err := os.Stat(cfg.HTTP.TLSKeyFile); err != nil {
			return errors.New("server.http.tls_key_file: " + err.Error())
		}
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	// Empty data_dir means memory-only; nothing to check.
	if cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return errors.New("cannot create data directory: " + err.Error())
		}
	}
	if cfg.SweepInterval <= 0 {
		return errors.New("storage.sweep_interval must be positive")
	}
	return nil
}

func verifyMatch(cfg *MatchSection) error {
	if cfg.RatePerSecond <= 0 {
		return errors.New("match.rate_per_second must be positive")
	}
	if cfg.Burst < 1 {
		return errors.New("match.burst must be at least 1")
	}
	return nil
}
