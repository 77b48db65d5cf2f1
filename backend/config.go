package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AndyCforreal/gomoku-game/engine"
)

type Config struct {
	ComputerDelayMs int                    `json:"computer_delay_ms"`
	EngineLog       bool                   `json:"engine_log"`
	Heuristics      engine.HeuristicConfig `json:"heuristics"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		ComputerDelayMs: int(engine.DefaultComputerDelay / time.Millisecond),
		EngineLog:       false,
		Heuristics:      engine.DefaultHeuristics(),
	}
}

func (c Config) Validate() error {
	if c.ComputerDelayMs < 0 {
		return fmt.Errorf("computer_delay_ms %d must not be negative", c.ComputerDelayMs)
	}
	h := c.Heuristics
	for name, value := range map[string]float64{
		"five":           h.Five,
		"open_4":         h.Open4,
		"closed_4":       h.Closed4,
		"open_3":         h.Open3,
		"closed_3":       h.Closed3,
		"open_2":         h.Open2,
		"closed_2":       h.Closed2,
		"defense_weight": h.DefenseWeight,
		"center_weight":  h.CenterWeight,
	} {
		if value < 0 {
			return fmt.Errorf("heuristics.%s %.2f must not be negative", name, value)
		}
	}
	return nil
}

func (c Config) ComputerDelay() time.Duration {
	return time.Duration(c.ComputerDelayMs) * time.Millisecond
}

// LoadConfigFile overlays the JSON file at path on the defaults.
func LoadConfigFile(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("decode config %s: %w", path, err)
	}
	config.Heuristics = config.Heuristics.Resolve()
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
