package config

import (
	"os"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/robynasuro/octra-client/logx"
)

// DefaultConfig returns a configuration usable with no files present.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		RPC: RPCConfig{
			URL:            DefaultRPCURL,
			RequestTimeout: DefaultRequestTimeout,
		},
		Wallet: WalletConfig{
			KeyFile: "wallet.key",
		},
		Tuning: TuningConfig{
			ChunkSize:     DefaultChunkSize,
			SubmitTimeout: DefaultSubmitTimeout,
			StateTTL:      DefaultStateTTL,
			PendingTTL:    DefaultPendingTTL,
			HistoryLimit:  DefaultHistoryLimit,
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: ":9464",
		},
	}
}

// LoadClientConfig reads and parses the config.yml file, filling unset fields
// with defaults. A missing file is not an error; defaults apply.
func LoadClientConfig(path string) (*ClientConfig, error) {
	cfg := DefaultConfig()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logx.Debug("CONFIG", "No config file at ", path, ", using defaults")
			return cfg, nil
		}
		logx.Error("CONFIG", "Failed to open file: ", err)
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	cfgFile.Config = *cfg
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		logx.Error("CONFIG", "Failed to decode YAML: ", err)
		return nil, err
	}
	loaded := cfgFile.Config
	fillTuningDefaults(&loaded.Tuning)
	logx.Info("CONFIG", "Loaded config: rpc=", loaded.RPC.URL, " chunk_size=", loaded.Tuning.ChunkSize)
	return &loaded, nil
}

// ApplyTuningOverrides overlays scheduler/cache knobs from an INI file onto
// cfg. A missing file leaves cfg untouched.
func ApplyTuningOverrides(cfg *ClientConfig, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	file, err := ini.Load(path)
	if err != nil {
		return err
	}
	if err := file.Section("tuning").MapTo(&cfg.Tuning); err != nil {
		return err
	}
	fillTuningDefaults(&cfg.Tuning)
	logx.Info("CONFIG", "Applied tuning overrides from ", path)
	return nil
}

func fillTuningDefaults(t *TuningConfig) {
	if t.ChunkSize <= 0 {
		t.ChunkSize = DefaultChunkSize
	}
	if t.SubmitTimeout <= 0 {
		t.SubmitTimeout = DefaultSubmitTimeout
	}
	if t.StateTTL <= 0 {
		t.StateTTL = DefaultStateTTL
	}
	if t.PendingTTL <= 0 {
		t.PendingTTL = DefaultPendingTTL
	}
	if t.HistoryLimit <= 0 {
		t.HistoryLimit = DefaultHistoryLimit
	}
}
