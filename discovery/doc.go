// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package discovery advertises a listening netgridviz viewer on the
// local network via mDNS, so a client configured with a non-default
// host can find it without a hardcoded address. It is entirely
// optional and off by default: the protocol's default connect
// behavior stays loopback-only (spec.md §6), and nothing in this
// package changes how a client or server talks over the wire — it
// only helps one client locate one already-listening viewer.
package discovery
