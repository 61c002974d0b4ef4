package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/casekanban/internal/paths"
	"github.com/mesh-intelligence/casekanban/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "KANBAN"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyKey        = "key"
	cfgKeyRedisURL   = "redis_url"
	cfgKeyServerAddr = "server.addr"

	defaultServerAddr = ":8080"
)

// configFile is the structure written to config.yaml by init.
type configFile struct {
	Backend  string       `yaml:"backend"`
	DataDir  string       `yaml:"data_dir,omitempty"`
	Key      string       `yaml:"key"`
	RedisURL string       `yaml:"redis_url,omitempty"`
	Server   serverConfig `yaml:"server"`
}

type serverConfig struct {
	Addr string `yaml:"addr"`
}

// loadDotenv reads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotenv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	_ = godotenv.Load(".env")
}

// loadConfig reads config.yaml from configDir using viper. A missing
// directory or file is not an error; defaults apply. KANBAN_BACKEND,
// KANBAN_KEY, KANBAN_REDIS_URL and KANBAN_SERVER_ADDR override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendFile)
	v.SetDefault(cfgKeyKey, types.DefaultKey)
	v.SetDefault(cfgKeyServerAddr, defaultServerAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	// data_dir is left out: KANBAN_DATA_DIR ranks below config.yaml and is
	// handled by paths.ResolveDataDir.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{cfgKeyBackend, cfgKeyKey, cfgKeyRedisURL, cfgKeyServerAddr} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// storeConfig resolves the store configuration from viper and the global
// flags, and validates it.
func storeConfig(v *viper.Viper, flags rootFlags) (types.Config, error) {
	backend := v.GetString(cfgKeyBackend)
	if flags.backend != "" {
		backend = flags.backend
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:  backend,
		DataDir:  dataDir,
		Key:      v.GetString(cfgKeyKey),
		RedisURL: v.GetString(cfgKeyRedisURL),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// writeConfigIfMissing writes config.yaml with the given values unless the
// file already exists. Reports whether a file was written.
func writeConfigIfMissing(configDir string, cfg configFile) (bool, error) {
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# kanban configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
