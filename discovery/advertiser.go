// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service name netgridviz advertises and
// browses under.
const ServiceType = "_netgridviz._tcp"

// Advertiser wraps a running mDNS server advertising a viewer's
// listening port on the local network.
type Advertiser struct {
	server *mdns.Server
	logger *slog.Logger
}

// Advertise starts advertising port under ServiceType using the local
// hostname as the instance name. Call Close when the viewer shuts
// down.
func Advertise(port int, logger *slog.Logger) (*Advertiser, error) {
	if logger == nil {
		logger = slog.Default()
	}

	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("discovery: hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		ServiceType,
		"",   // domain: default to ".local"
		"",   // hostname: default to the OS hostname
		port,
		nil,  // IPs: auto-detect
		[]string{"netgridviz"},
	)
	if err != nil {
		return nil, fmt.Errorf("discovery: building mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("discovery: starting mDNS server: %w", err)
	}

	logger.Info("advertising viewer on the local network", "service", ServiceType, "port", port, "host", host)
	return &Advertiser{server: server, logger: logger}, nil
}

// Close stops advertising and releases the underlying mDNS server.
func (a *Advertiser) Close() error {
	return a.server.Shutdown()
}

// Browse looks for netgridviz viewers on the local network for up to
// timeout and returns their "host:port" addresses. It is a one-shot
// lookup, used by cmd/netgridviz-demo to find a viewer without
// requiring the caller to know its address in advance.
func Browse(timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 16)

	var addrs []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			addrs = append(addrs, fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()

	err := mdns.Query(&mdns.QueryParam{
		Service: ServiceType,
		Timeout: timeout,
		Entries: entries,
	})
	close(entries)
	<-done

	if err != nil {
		return nil, fmt.Errorf("discovery: browsing for %s: %w", ServiceType, err)
	}
	return addrs, nil
}
