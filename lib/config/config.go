// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/netgridviz/netgridviz/internal/tui"
	"github.com/netgridviz/netgridviz/render"
)

// Config is the master configuration for the netgridviz viewer.
type Config struct {
	// Port is the default TCP listen port, used when --port is not
	// passed on the command line.
	Port int `yaml:"port"`

	// MetricsAddr is the address a Prometheus /metrics endpoint binds
	// to. Empty disables metrics serving entirely.
	MetricsAddr string `yaml:"metrics_addr"`

	// Advertise enables mDNS advertisement of the listening port.
	Advertise bool `yaml:"advertise"`

	// Theme overrides a subset of the built-in color palette.
	Theme ThemeConfig `yaml:"theme"`

	// KeyBindings overrides a subset of the built-in key bindings.
	KeyBindings KeyBindingsConfig `yaml:"key_bindings"`
}

// ThemeConfig holds optional hex color overrides for
// internal/tui.Theme fields. An empty string leaves the built-in
// default for that field untouched.
type ThemeConfig struct {
	NormalText         string `yaml:"normal_text,omitempty"`
	FaintText          string `yaml:"faint_text,omitempty"`
	SelectedBackground string `yaml:"selected_background,omitempty"`
	SelectedForeground string `yaml:"selected_foreground,omitempty"`
	StatusConnected    string `yaml:"status_connected,omitempty"`
	StatusWaiting      string `yaml:"status_waiting,omitempty"`
	StatusDisconnected string `yaml:"status_disconnected,omitempty"`
	HeaderForeground   string `yaml:"header_foreground,omitempty"`
	BorderColor        string `yaml:"border_color,omitempty"`
	HotAccentEvent     string `yaml:"hot_accent_event,omitempty"`
	HotAccentRun       string `yaml:"hot_accent_run,omitempty"`
}

// KeyBindingsConfig holds optional key overrides for render.KeyMap
// bindings. Each field, if non-empty, replaces the built-in key list
// for that action entirely (it does not append to it).
type KeyBindingsConfig struct {
	Up          []string `yaml:"up,omitempty"`
	Down        []string `yaml:"down,omitempty"`
	Left        []string `yaml:"left,omitempty"`
	Right       []string `yaml:"right,omitempty"`
	ResetOffset []string `yaml:"reset_offset,omitempty"`
	Search      []string `yaml:"search,omitempty"`
	RunPicker   []string `yaml:"run_picker,omitempty"`
	ExportPDF   []string `yaml:"export_pdf,omitempty"`
	Help        []string `yaml:"help,omitempty"`
	Quit        []string `yaml:"quit,omitempty"`
}

// Default returns the built-in configuration: port 41088, metrics
// disabled, advertisement disabled, and the stock theme/key bindings.
func Default() *Config {
	return &Config{
		Port:        41088,
		MetricsAddr: "",
		Advertise:   false,
	}
}

// Load loads configuration from the NETGRIDVIZ_CONFIG environment
// variable. If it is unset, [Default] is returned unmodified — unlike
// the teacher's BUREAU_CONFIG, an unset path is not an error here,
// since a viewer that has never been configured should still start.
func Load() (*Config, error) {
	path := os.Getenv("NETGRIDVIZ_CONFIG")
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging its
// contents onto [Default].
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range [1, 65535]", c.Port)
	}
	return nil
}

// ResolveTheme applies the configured theme overrides onto
// tui.DefaultTheme and returns the result. Fields left empty in the
// config keep their default value.
func (c *Config) ResolveTheme() tui.Theme {
	theme := tui.DefaultTheme
	t := c.Theme

	override(&theme.NormalText, t.NormalText)
	override(&theme.FaintText, t.FaintText)
	override(&theme.SelectedBackground, t.SelectedBackground)
	override(&theme.SelectedForeground, t.SelectedForeground)
	override(&theme.StatusConnected, t.StatusConnected)
	override(&theme.StatusWaiting, t.StatusWaiting)
	override(&theme.StatusDisconnected, t.StatusDisconnected)
	override(&theme.HeaderForeground, t.HeaderForeground)
	override(&theme.BorderColor, t.BorderColor)
	override(&theme.HotAccentEvent, t.HotAccentEvent)
	override(&theme.HotAccentRun, t.HotAccentRun)

	return theme
}

func override(field *lipgloss.Color, value string) {
	if value != "" {
		*field = lipgloss.Color(value)
	}
}

// ResolveKeyMap applies the configured key binding overrides onto
// render.DefaultKeyMap and returns the result.
func (c *Config) ResolveKeyMap() render.KeyMap {
	keys := render.DefaultKeyMap
	kb := c.KeyBindings

	setKeys(&keys.Up, kb.Up)
	setKeys(&keys.Down, kb.Down)
	setKeys(&keys.Left, kb.Left)
	setKeys(&keys.Right, kb.Right)
	setKeys(&keys.ResetOffset, kb.ResetOffset)
	setKeys(&keys.Search, kb.Search)
	setKeys(&keys.RunPicker, kb.RunPicker)
	setKeys(&keys.ExportPDF, kb.ExportPDF)
	setKeys(&keys.Help, kb.Help)
	setKeys(&keys.Quit, kb.Quit)

	return keys
}

func setKeys(binding *key.Binding, keys []string) {
	if len(keys) > 0 {
		binding.SetKeys(keys...)
	}
}
