// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// netgridviz-demo links the client emitter and drives it through a
// handful of named strokes and contexts, serving as executable
// documentation of the client API and a manual integration check
// against a running netgridviz-viewer.
//
// Without --port, it first tries mDNS to find a viewer advertising
// itself on the local network (netgridviz-viewer --advertise), falling
// back to the default port if none answers within the browse timeout.
package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/netgridviz/netgridviz/client"
	"github.com/netgridviz/netgridviz/discovery"
)

const defaultPort = 41088

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var port int
	var discover bool

	flagSet := pflag.NewFlagSet("netgridviz-demo", pflag.ContinueOnError)
	flagSet.IntVar(&port, "port", 0, "viewer port to connect to (default: discover via mDNS, else 41088)")
	flagSet.BoolVar(&discover, "discover", true, "try mDNS discovery before falling back to the default port")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if port == 0 {
		port = defaultPort
		if discover {
			if found := discoverPort(logger); found != 0 {
				port = found
			}
		}
	}

	emitter := client.New(logger)
	if err := emitter.Connect(port); err != nil {
		return fmt.Errorf("connecting to viewer on port %d: %w", port, err)
	}
	defer emitter.Disconnect()
	logger.Info("connected to viewer", "port", port)

	banner := emitter.CreateContext()
	emitter.SetFG(banner, 230, 230, 230)
	emitter.SetBG(banner, 20, 20, 40)

	emitter.StartStroke([]byte("banner"))
	emitter.DrawString(banner, 2, 1, "netgridviz demo")
	emitter.EndStroke()

	highlight := emitter.CreateContext()
	emitter.SetFG(highlight, 255, 200, 0)

	emitter.StartStroke([]byte("counter"))
	for i := 0; i < 10; i++ {
		emitter.DrawFmt(highlight, 2, 3, "tick %d", i)
		time.Sleep(150 * time.Millisecond)
	}
	emitter.EndStroke()

	ok := emitter.CreateContext()
	emitter.SetFG(ok, 0, 220, 0)
	emitter.StartStroke([]byte("done"))
	emitter.DrawString(ok, 2, 5, "done")
	emitter.EndStroke()

	return nil
}

// discoverPort browses for a netgridviz-viewer advertising itself via
// mDNS and returns the port of the first responder found, or 0 if none
// answered within the browse timeout.
func discoverPort(logger *slog.Logger) int {
	addrs, err := discovery.Browse(500 * time.Millisecond)
	if err != nil {
		logger.Warn("mDNS discovery failed", "error", err)
		return 0
	}
	if len(addrs) == 0 {
		return 0
	}

	_, portStr, err := net.SplitHostPort(addrs[0])
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	logger.Info("discovered viewer via mDNS", "addr", addrs[0])
	return port
}
