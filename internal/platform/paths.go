// Package platform resolves per-user file locations.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	defaultAppName = "shuttle"
	devSuffix      = "-dev"
	configFileName = "config.toml"
	seedFileName   = "seed.yaml"
)

// Paths holds the per-user locations shuttle reads from.
type Paths struct {
	ConfigPath string
	DataDir    string
	SeedPath   string
}

// Options selects the app name and whether dev-mode directories are used.
type Options struct {
	AppName string
	DevMode bool
}

// DefaultPaths resolves paths for the default app name.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{})
}

// DefaultPathsWithOptions resolves paths for the running platform.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataDir, err := userDataDir(runtime.GOOS, configDir)
	if err != nil {
		return Paths{}, err
	}
	return PathsFor(runtime.GOOS, lookupEnv(), configDir, dataDir, appDirName(opts))
}

// appDirName applies the default name and the dev suffix.
func appDirName(opts Options) string {
	name := strings.TrimSpace(opts.AppName)
	if name == "" {
		name = defaultAppName
	}
	if opts.DevMode {
		name += devSuffix
	}
	return name
}

// userDataDir picks the base data dir before env overrides apply.
func userDataDir(goos, configDir string) (string, error) {
	switch goos {
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("user home dir: %w", err)
		}
		return filepath.Join(home, ".local", "share"), nil
	case "windows":
		if v := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); v != "" {
			return v, nil
		}
	}
	return configDir, nil
}

func lookupEnv() map[string]string {
	env := map[string]string{}
	for _, key := range []string{"XDG_CONFIG_HOME", "XDG_DATA_HOME", "APPDATA", "LOCALAPPDATA"} {
		env[key] = os.Getenv(key)
	}
	return env
}

// PathsFor resolves paths for goos given env overrides and base dirs.
// Linux honors XDG_CONFIG_HOME/XDG_DATA_HOME, Windows APPDATA/LOCALAPPDATA;
// other platforms use the base dirs as given.
func PathsFor(goos string, env map[string]string, userConfigDir, userDataDir, appName string) (Paths, error) {
	if userConfigDir == "" || userDataDir == "" {
		return Paths{}, errors.New("empty base dirs")
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, errors.New("empty app name")
	}

	configKey, dataKey := "", ""
	switch goos {
	case "linux":
		configKey, dataKey = "XDG_CONFIG_HOME", "XDG_DATA_HOME"
	case "windows":
		configKey, dataKey = "APPDATA", "LOCALAPPDATA"
	}
	configBase := override(env, configKey, userConfigDir)
	dataBase := override(env, dataKey, userDataDir)

	dataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath: filepath.Join(configBase, appName, configFileName),
		DataDir:    dataDir,
		SeedPath:   filepath.Join(dataDir, seedFileName),
	}, nil
}

func override(env map[string]string, key, fallback string) string {
	if key == "" {
		return fallback
	}
	if v := env[key]; v != "" {
		return v
	}
	return fallback
}
