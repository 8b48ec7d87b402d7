// Package config manages this client's persisted settings. Grounded on
// _examples/aluo96078-vkvm/internal/config/config.go's mutex-guarded
// Manager, trimmed to a Linux-only config path and re-keyed to the fields
// original_source/packages/pynergy_client/src/pynergy_client/config.py's
// Config dataclass exposes.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config is this client's full settings surface, per SPEC_FULL.md §3's
// configuration table.
type Config struct {
	Server     string `json:"server"`
	Port       int    `json:"port"`
	ClientName string `json:"client_name"`

	ScreenWidth  int `json:"screen_width"`
	ScreenHeight int `json:"screen_height"`

	AbsoluteMouse      bool `json:"abs_mouse_move"`
	MouseMoveThreshold int  `json:"mouse_move_threshold"`
	MousePosSyncFreq   int  `json:"mouse_pos_sync_freq"`

	TLS           bool   `json:"tls"`
	MTLS          bool   `json:"mtls"`
	TLSTrust      string `json:"tls_trust"` // "always" repins a changed server fingerprint; any other value pins on first use and rejects changes
	PemPath       string `json:"pem_path"`

	LogLevelStdout string `json:"log_level_stdout"`
	LogLevelFile   string `json:"log_level_file"`
	LogDir         string `json:"log_dir"`
	LogFile        string `json:"log_file"`

	EscapeHotkey string `json:"escape_hotkey"`
	Autostart    bool   `json:"autostart"`
	DiagPort     int    `json:"diag_port"`
}

// DefaultConfig mirrors config.py's dataclass defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:             "localhost",
		Port:               24800,
		ClientName:         defaultClientName(),
		ScreenWidth:        1920,
		ScreenHeight:       1080,
		AbsoluteMouse:      false,
		MouseMoveThreshold: 16, // ~60fps, matches dispatcher.py's throttle_interval
		MousePosSyncFreq:   32,
		TLS:                true,
		MTLS:               false,
		TLSTrust:           "on_first_use",
		PemPath:            defaultPemPath(),
		LogLevelStdout:     "info",
		LogLevelFile:       "debug",
		LogDir:             defaultLogDir(),
		LogFile:            "synergyclient.log",
		EscapeHotkey:       "LEFTCTRL+LEFTALT+LEFTSHIFT+F12",
		Autostart:          false,
		DiagPort:           24801,
	}
}

func defaultClientName() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "synergyclient"
	}
	return name
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "synergyclient"), nil
}

func defaultPemPath() string {
	dir, err := configDir()
	if err != nil {
		return "client.pem"
	}
	return filepath.Join(dir, "client.pem")
}

func defaultLogDir() string {
	dir, err := configDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "logs")
}

// KnownHostsPath is derived from PemPath's directory rather than stored
// separately, since it is always colocated with the client certificate.
func (c *Config) KnownHostsPath() string {
	return filepath.Join(filepath.Dir(c.PemPath), "known_hosts.json")
}

// Manager loads, persists, and hands out the live Config, mirroring the
// teacher's Manager shape (mutex + onChanged callback) from
// internal/config/config.go.
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
	onChanged  func()
}

// NewManager creates a Manager rooted at ~/.config/synergyclient/config.json,
// or at overridePath if one is given (e.g. from the -config flag).
func NewManager(overridePath ...string) (*Manager, error) {
	path := ""
	if len(overridePath) > 0 && overridePath[0] != "" {
		path = overridePath[0]
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.json")
	}
	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
	}, nil
}

// Load reads the configuration from disk, leaving defaults in place if no
// file exists yet.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, m.config); err != nil {
		return err
	}
	if m.onChanged != nil {
		m.onChanged()
	}
	return nil
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.configPath, data, 0o600)
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Set replaces the current configuration and notifies any registered
// callback.
func (m *Manager) Set(cfg *Config) {
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	if m.onChanged != nil {
		m.onChanged()
	}
}

// RegisterChangeCallback registers a function invoked after Load or Set.
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}

// MoveThrottle converts MouseMoveThreshold (milliseconds) into a
// time.Duration for internal/dispatcher.Config.
func (c *Config) MoveThrottle() time.Duration {
	return time.Duration(c.MouseMoveThreshold) * time.Millisecond
}
