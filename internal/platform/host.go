package platform

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notebook/pkg/core"
)

const (
	// HostConfigFile is the default name of the host configuration resource.
	HostConfigFile = "notebook.host.yaml"

	URLKey  = "HOST_URL"
	PortKey = "HOST_PORT"

	DefaultHostURL  = "localhost"
	DefaultHostPort = 8080
)

// HostConfig addresses the remote note store.
type HostConfig struct {
	URL  string
	Port int
}

// DefaultHost is used whenever no configuration can be loaded.
func DefaultHost() HostConfig {
	return HostConfig{URL: DefaultHostURL, Port: DefaultHostPort}
}

// HostWithPort returns "host:port". HOST_URL may carry a scheme, which is kept.
func (h HostConfig) HostWithPort() string {
	return h.URL + ":" + strconv.Itoa(h.Port)
}

// LoadHostConfig reads HOST_URL and HOST_PORT from the YAML file at path.
// Every failure wraps core.ErrConfiguration.
func LoadHostConfig(path string) (HostConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HostConfig{}, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return HostConfig{}, fmt.Errorf("%w: parse %s: %w", core.ErrConfiguration, path, err)
	}

	url := scalar(raw[URLKey])
	portText := scalar(raw[PortKey])
	if url == "" || portText == "" {
		return HostConfig{}, fmt.Errorf("%w: %s needs %s and %s", core.ErrConfiguration, path, URLKey, PortKey)
	}
	port, err := strconv.Atoi(portText)
	if err != nil || port <= 0 || port > 65535 {
		return HostConfig{}, fmt.Errorf("%w: %s is not a port: %q", core.ErrConfiguration, PortKey, portText)
	}
	return HostConfig{URL: url, Port: port}, nil
}

// ResolveHost loads the host configuration once and falls back to
// localhost:8080 on any failure. An empty path searches HostConfigFile
// upwards from the working directory.
func ResolveHost(path string, logger *slog.Logger) HostConfig {
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path, _ = FindFile(wd, HostConfigFile)
		}
	}

	var (
		host HostConfig
		err  error
	)
	if path == "" {
		err = fmt.Errorf("%w: %s not found", core.ErrConfiguration, HostConfigFile)
	} else {
		host, err = LoadHostConfig(path)
	}

	if err != nil {
		host = DefaultHost()
		if logger != nil {
			logger.Warn("host configuration couldn't be loaded, using default",
				"error", err, "host", host.HostWithPort())
		}
		return host
	}

	if logger != nil {
		logger.Info("host configuration loaded", "path", path, "host", host.HostWithPort())
	}
	return host
}

func scalar(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
