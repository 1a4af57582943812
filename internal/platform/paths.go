// Package platform resolves per-user config, data, and log locations.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Paths locates the per-user files of one app instance.
type Paths struct {
	ConfigPath string
	DataDir    string
	LogDir     string
}

// Options selects the app instance whose paths are resolved.
type Options struct {
	AppName string
	DevMode bool
}

// InstanceName returns the directory name for the options, suffixed in dev mode.
func (o Options) InstanceName() string {
	name := strings.TrimSpace(o.AppName)
	if name == "" {
		name = "tagboard"
	}
	if o.DevMode {
		name += "-dev"
	}
	return name
}

// BaseDirs are the per-user roots app directories are created under.
type BaseDirs struct {
	Config string
	Data   string
}

// overrideVars names the environment variables that replace base dirs per OS.
var overrideVars = map[string]struct{ config, data string }{
	"linux":   {config: "XDG_CONFIG_HOME", data: "XDG_DATA_HOME"},
	"windows": {config: "APPDATA", data: "LOCALAPPDATA"},
}

// DefaultPathsWithOptions resolves paths for the running OS and user.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	base, err := userBaseDirs(runtime.GOOS)
	if err != nil {
		return Paths{}, err
	}
	return PathsFor(runtime.GOOS, os.Getenv, base, opts.InstanceName())
}

// userBaseDirs reads the OS defaults before any environment override.
func userBaseDirs(goos string) (BaseDirs, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return BaseDirs{}, fmt.Errorf("user config dir: %w", err)
	}
	base := BaseDirs{Config: configDir, Data: configDir}
	if goos == "linux" {
		home, err := os.UserHomeDir()
		if err != nil {
			return BaseDirs{}, fmt.Errorf("user home dir: %w", err)
		}
		base.Data = filepath.Join(home, ".local", "share")
	}
	return base, nil
}

// PathsFor resolves app paths for goos. getenv may be nil when no overrides apply.
func PathsFor(goos string, getenv func(string) string, base BaseDirs, instance string) (Paths, error) {
	if base.Config == "" || base.Data == "" {
		return Paths{}, fmt.Errorf("empty base dirs")
	}
	instance = strings.TrimSpace(instance)
	if instance == "" {
		return Paths{}, fmt.Errorf("empty app name")
	}
	if vars, ok := overrideVars[goos]; ok && getenv != nil {
		if v := strings.TrimSpace(getenv(vars.config)); v != "" {
			base.Config = v
		}
		if v := strings.TrimSpace(getenv(vars.data)); v != "" {
			base.Data = v
		}
	}

	dataDir := filepath.Join(base.Data, instance)
	return Paths{
		ConfigPath: filepath.Join(base.Config, instance, "config.toml"),
		DataDir:    dataDir,
		LogDir:     filepath.Join(dataDir, "log"),
	}, nil
}
