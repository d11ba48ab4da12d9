// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML overlay loaded via --config. Any flag
// explicitly set on the command line takes precedence over the matching
// fileConfig field (applied in main.go's mergeFileConfig).
type fileConfig struct {
	Endpoint          string            `yaml:"endpoint"`
	SecurityPolicy    string            `yaml:"security_policy"`
	SecurityMode      string            `yaml:"security_mode"`
	AuthType          string            `yaml:"auth_type"`
	Username          string            `yaml:"username"`
	Password          string            `yaml:"password"`
	CertFile          string            `yaml:"cert_file"`
	KeyFile           string            `yaml:"key_file"`
	RequestTimeoutMs  int64             `yaml:"request_timeout_ms"`
	ConnectTimeoutMs  int64             `yaml:"connect_timeout_ms"`
	OutputFile        string            `yaml:"output_file"`
	StartingNodeIds   map[string]string `yaml:"starting_node_ids"`
	ParentStartNode   string            `yaml:"parent_start_node_replacer"`
	BatchSize         uint32            `yaml:"batch_size"`
	PerfTimerEnable   bool              `yaml:"perf_timer_enable"`
	NS0CustomReady    bool              `yaml:"ns0_custom_nodes_ready_to_work"`
	FlatEnable        bool              `yaml:"flat_enable"`
	FlatCreateMissing bool              `yaml:"flat_create_missing_start_node"`
	FlatAllowAbstract bool              `yaml:"flat_allow_abstract_variable"`
}

// loadFileConfig reads and parses a YAML config file.
func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}
