// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls the reporting observers.
type Config struct {
	// Namespace prefixes the prometheus metric names. Defaults to "cond".
	Namespace string `yaml:"namespace"`
	// Verbose enables Debug entries for signal, dispatch, restart, and
	// unwind events. Unhandled fatal conditions are always logged.
	Verbose bool `yaml:"verbose"`
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("report: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("report: parse config: %w", err)
	}
	return cfg, nil
}
