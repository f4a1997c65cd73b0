package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "TRIPSEED"

	KeyDBPath   = "db_path"
	KeyDataDir  = "data_dir"
	KeyLogLevel = "log_level"
	KeyHostAddr = "host_addr"

	AppIdentifier = "com.trip-scheduler.app"
	DBFileName    = "trip-scheduler.db"

	DefaultLogLevel = "info"
	DefaultHostAddr = "127.0.0.1:7878"
)

// Config is the resolved runtime configuration shared by the CLI and the host.
type Config struct {
	DBPath   string
	LogLevel string
	HostAddr string
}

// userConfigDir is swapped in tests.
var userConfigDir = os.UserConfigDir

// New returns a viper instance bound to TRIPSEED_* environment variables,
// after loading a .env file from the working directory when one exists.
func New() *viper.Viper {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "config: ignoring unreadable .env: %v\n", err)
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyHostAddr, DefaultHostAddr)
	return v
}

// Load resolves a Config from v.
func Load(v *viper.Viper) (Config, error) {
	path, err := ResolveDBPath(v.GetString(KeyDBPath), v.GetString(KeyDataDir))
	if err != nil {
		return Config{}, err
	}
	return Config{
		DBPath:   path,
		LogLevel: v.GetString(KeyLogLevel),
		HostAddr: v.GetString(KeyHostAddr),
	}, nil
}

// ResolveDBPath locates the per-user store. An explicit path wins, then a
// data directory, then <user config dir>/com.trip-scheduler.app.
func ResolveDBPath(explicit, dataDir string) (string, error) {
	if explicit != "" {
		if explicit == ":memory:" {
			return explicit, nil
		}
		return filepath.Clean(explicit), nil
	}
	if dataDir == "" {
		base, err := userConfigDir()
		if err != nil {
			return "", fmt.Errorf("config: cannot locate user config directory: %w", err)
		}
		dataDir = filepath.Join(base, AppIdentifier)
	}
	return filepath.Join(dataDir, DBFileName), nil
}

// EnsureParentDir creates the directory that will hold the store file.
func EnsureParentDir(dbPath string) error {
	if dbPath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create data directory %s: %w", dir, err)
	}
	return nil
}
