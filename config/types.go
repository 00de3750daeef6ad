package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// RPCConfig points the client at the HTTP relay in front of the ledger node.
type RPCConfig struct {
	URL            string        `yaml:"url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

func (c *RPCConfig) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		URL            string `yaml:"url"`
		RequestTimeout string `yaml:"request_timeout"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	if aux.URL != "" {
		c.URL = aux.URL
	}
	return setDuration(&c.RequestTimeout, aux.RequestTimeout)
}

// WalletConfig locates the wallet keypair on disk.
type WalletConfig struct {
	KeyFile string `yaml:"key_file"`
}

// TuningConfig holds scheduler and cache knobs. Values also accept INI
// overrides, which deployments use without touching the main config file.
type TuningConfig struct {
	ChunkSize     int           `yaml:"chunk_size" ini:"chunk_size"`
	SubmitTimeout time.Duration `yaml:"submit_timeout" ini:"submit_timeout"`
	StateTTL      time.Duration `yaml:"state_ttl" ini:"state_ttl"`
	PendingTTL    time.Duration `yaml:"pending_ttl" ini:"pending_ttl"`
	HistoryLimit  int           `yaml:"history_limit" ini:"history_limit"`
}

func (c *TuningConfig) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		ChunkSize     int    `yaml:"chunk_size"`
		SubmitTimeout string `yaml:"submit_timeout"`
		StateTTL      string `yaml:"state_ttl"`
		PendingTTL    string `yaml:"pending_ttl"`
		HistoryLimit  int    `yaml:"history_limit"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	if aux.ChunkSize > 0 {
		c.ChunkSize = aux.ChunkSize
	}
	if aux.HistoryLimit > 0 {
		c.HistoryLimit = aux.HistoryLimit
	}
	if err := setDuration(&c.SubmitTimeout, aux.SubmitTimeout); err != nil {
		return err
	}
	if err := setDuration(&c.StateTTL, aux.StateTTL); err != nil {
		return err
	}
	return setDuration(&c.PendingTTL, aux.PendingTTL)
}

// setDuration parses a duration string into dst, leaving dst untouched when
// the string is empty.
func setDuration(dst *time.Duration, s string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

// MetricsConfig controls the optional prometheus listener.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// ClientConfig is the top-level client configuration.
type ClientConfig struct {
	RPC     RPCConfig     `yaml:"rpc"`
	Wallet  WalletConfig  `yaml:"wallet"`
	Tuning  TuningConfig  `yaml:"tuning"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ConfigFile is the top-level structure for config.yml
type ConfigFile struct {
	Config ClientConfig `yaml:"config"`
}
