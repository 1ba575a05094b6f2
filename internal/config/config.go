// internal/config/config.go
//
// This package handles configuration and the .diskseek directory structure.
// Every project that runs diskseek can carry a .diskseek/ folder holding the
// default simulation inputs, the playback cadence and server settings.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/diskseek/internal/engine"
	"github.com/kingrea/diskseek/internal/requests"
)

const (
	// Dir is the name of the directory we create in each project
	Dir = ".diskseek"

	defaultInterval   = "300ms"
	defaultHost       = "127.0.0.1"
	defaultPort       = 8766
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
	defaultHead       = 53
	defaultPrevious   = 30
	defaultDirection  = string(engine.Up)
	defaultPolicyName = string(engine.FCFS)
)

const defaultProjectConfigYAML = `# diskseek project configuration
version: 1

# Inputs used when a command or the simulator starts without explicit flags.
simulation:
  num_tracks: 200
  head: 53
  previous: 30
  direction: up
  policy: FCFS
  requests: "98, 183, 37, 122, 14, 124, 65, 67"

# Auto-advance cadence for playback.
playback:
  interval: 300ms

# HTTP API started by 'diskseek serve'.
server:
  host: 127.0.0.1
  port: 8766

logging:
  level: info
  format: text
`

// SimulationConfig holds the default simulation inputs.
type SimulationConfig struct {
	NumTracks int    `yaml:"num_tracks"`
	Head      int    `yaml:"head"`
	Previous  int    `yaml:"previous"`
	Direction string `yaml:"direction"`
	Policy    string `yaml:"policy"`
	Requests  string `yaml:"requests"`
}

// PlaybackConfig controls auto-advance.
type PlaybackConfig struct {
	Interval string `yaml:"interval"`
}

// ServerConfig captures the HTTP API settings.
type ServerConfig struct {
	Enabled      *bool  `yaml:"enabled,omitempty"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	MaxBodyBytes int64  `yaml:"max_body_bytes,omitempty"`
}

// LoggingConfig selects the diagnostic log level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProjectConfig models .diskseek/config.yaml.
type ProjectConfig struct {
	Version    int              `yaml:"version"`
	Simulation SimulationConfig `yaml:"simulation"`
	Playback   PlaybackConfig   `yaml:"playback"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Config holds the runtime configuration for diskseek.
type Config struct {
	// ProjectDir is the directory diskseek was started from
	ProjectDir string

	// StateDir is ProjectDir/.diskseek
	StateDir string

	Project ProjectConfig
}

// InitDir creates the .diskseek directory structure in the given project
// directory and writes a commented config.yaml if none exists.
//
// Structure created:
// .diskseek/
// ├── config.yaml
// └── logs/       <- journey.log, the run journal
func InitDir(projectDir string) error {
	stateDir := filepath.Join(projectDir, Dir)
	if err := os.MkdirAll(filepath.Join(stateDir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(stateDir, "config.yaml"))
}

// NewConfig loads the project config, falling back to defaults when the
// file is missing, and applies DISKSEEK_* environment overrides.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		StateDir:   filepath.Join(projectDir, Dir),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	cfg.Project.applyEnvOverrides()
	cfg.Project.normalize()
	if err := cfg.Project.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Default returns a config that never touches the filesystem.
func Default(projectDir string) *Config {
	return &Config{
		ProjectDir: projectDir,
		StateDir:   filepath.Join(projectDir, Dir),
		Project:    defaultProjectConfig(),
	}
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// JournalPath is the logbook file shown in the simulator's log panel.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journey.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.StateDir, "config.yaml")
}

// Simulation returns the configured default inputs.
func (c *Config) Simulation() SimulationConfig {
	return c.Project.Simulation
}

// NumTracks is the configured track count.
func (c *Config) NumTracks() int {
	return c.Project.Simulation.NumTracks
}

// Policy is the configured default policy. Values are validated on load.
func (c *Config) Policy() engine.Policy {
	p, err := engine.ParsePolicy(c.Project.Simulation.Policy)
	if err != nil {
		return engine.FCFS
	}
	return p
}

// Direction is the configured default sweep direction.
func (c *Config) Direction() engine.Direction {
	d, err := engine.ParseDirection(c.Project.Simulation.Direction)
	if err != nil {
		return engine.Up
	}
	return d
}

// Interval is the playback cadence.
func (c *Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.Project.Playback.Interval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultInterval)
	}
	return d
}

// RememberSimulation stores sim as the new default inputs and persists the
// value back to .diskseek/config.yaml.
func (c *Config) RememberSimulation(sim SimulationConfig) error {
	previous := c.Project.Simulation
	c.Project.Simulation = sim
	if err := c.saveProjectConfig(); err != nil {
		c.Project.Simulation = previous
		return err
	}
	return nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Simulation: SimulationConfig{
			NumTracks: engine.DefaultNumTracks,
			Head:      defaultHead,
			Previous:  defaultPrevious,
			Direction: defaultDirection,
			Policy:    defaultPolicyName,
			Requests:  requests.DefaultQueue,
		},
		Playback: PlaybackConfig{Interval: defaultInterval},
		Server:   ServerConfig{Host: defaultHost, Port: defaultPort},
		Logging:  LoggingConfig{Level: defaultLogLevel, Format: defaultLogFormat},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Simulation.NumTracks == 0 {
		pc.Simulation.NumTracks = engine.DefaultNumTracks
	}
	if strings.TrimSpace(pc.Playback.Interval) == "" {
		pc.Playback.Interval = defaultInterval
	}
	if pc.Server.Port == 0 {
		pc.Server.Port = defaultPort
	}
}

func (pc *ProjectConfig) applyEnvOverrides() {
	if value := strings.TrimSpace(os.Getenv("DISKSEEK_TRACKS")); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			pc.Simulation.NumTracks = parsed
		}
	}
	if value := strings.TrimSpace(os.Getenv("DISKSEEK_INTERVAL")); value != "" {
		pc.Playback.Interval = value
	}
	if host := strings.TrimSpace(os.Getenv("DISKSEEK_SERVER_HOST")); host != "" {
		pc.Server.Host = host
	}
	if port := strings.TrimSpace(os.Getenv("DISKSEEK_SERVER_PORT")); port != "" {
		if parsed, err := strconv.Atoi(port); err == nil {
			pc.Server.Port = parsed
		}
	}
	if level := strings.TrimSpace(os.Getenv("DISKSEEK_LOG_LEVEL")); level != "" {
		pc.Logging.Level = level
	}
}

func (pc *ProjectConfig) normalize() {
	sim := &pc.Simulation
	sim.Direction = strings.ToLower(strings.TrimSpace(sim.Direction))
	if sim.Direction == "" {
		sim.Direction = defaultDirection
	}
	sim.Policy = strings.TrimSpace(sim.Policy)
	if sim.Policy == "" {
		sim.Policy = defaultPolicyName
	}
	if p, err := engine.ParsePolicy(sim.Policy); err == nil {
		sim.Policy = string(p)
	}
	sim.Requests = strings.TrimSpace(sim.Requests)
	pc.Playback.Interval = strings.TrimSpace(pc.Playback.Interval)
	pc.Server.Host = strings.TrimSpace(pc.Server.Host)
	if pc.Server.Host == "" {
		pc.Server.Host = defaultHost
	}
	pc.Logging.Level = strings.ToLower(strings.TrimSpace(pc.Logging.Level))
	if pc.Logging.Level == "" {
		pc.Logging.Level = defaultLogLevel
	}
	pc.Logging.Format = strings.ToLower(strings.TrimSpace(pc.Logging.Format))
	if pc.Logging.Format == "" {
		pc.Logging.Format = defaultLogFormat
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	sim := pc.Simulation
	if sim.NumTracks < 1 {
		return fmt.Errorf("simulation.num_tracks must be positive")
	}
	if sim.Head < 0 || sim.Head >= sim.NumTracks {
		return fmt.Errorf("simulation.head %d outside [0, %d)", sim.Head, sim.NumTracks)
	}
	if sim.Previous < 0 || sim.Previous >= sim.NumTracks {
		return fmt.Errorf("simulation.previous %d outside [0, %d)", sim.Previous, sim.NumTracks)
	}
	if _, err := engine.ParseDirection(sim.Direction); err != nil {
		return fmt.Errorf("simulation.direction: %w", err)
	}
	if _, err := engine.ParsePolicy(sim.Policy); err != nil {
		return fmt.Errorf("simulation.policy: %w", err)
	}
	interval, err := time.ParseDuration(pc.Playback.Interval)
	if err != nil {
		return fmt.Errorf("playback.interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("playback.interval must be positive")
	}
	if pc.Server.Port < 1 || pc.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is not a valid TCP port", pc.Server.Port)
	}
	switch pc.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error")
	}
	switch pc.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.StateDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure state dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
