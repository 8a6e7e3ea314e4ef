// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the
// netgridviz viewer.
//
// Configuration is loaded from a single file, specified by either the
// NETGRIDVIZ_CONFIG environment variable (via [Load]) or the --config
// flag (via [LoadFile]). There are no fallbacks and no ~/.config
// discovery: an unset --config and unset NETGRIDVIZ_CONFIG simply means
// [Default] is used as-is. This mirrors the teacher's config package,
// scoped down from a deployment-environment-aware config to the handful
// of things an operator of a single viewer process might want to
// override: the default listen port, the metrics address, mDNS
// advertisement, the terminal color theme, and key bindings.
//
// Key exports:
//
//   - [Config] -- Port, MetricsAddr, Advertise, Theme, KeyBindings
//   - [Default] -- the built-in configuration
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.ResolveTheme] and [Config.ResolveKeyMap] -- apply the
//     loaded overrides onto internal/tui.DefaultTheme and
//     render.DefaultKeyMap
package config
