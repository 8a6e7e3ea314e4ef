// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.FramesDecoded.WithLabelValues("send_char").Inc()
	m.BytesReceived.Add(20)
	m.RunsCreated.Inc()
	m.StrokesCreated.Inc()
	m.EventsDecoded.Inc()
	m.ProtocolViolations.Inc()
	m.ClientsConnected.Set(1)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families, got none")
	}

	if got := testutil.ToFloat64(m.BytesReceived); got != 20 {
		t.Errorf("BytesReceived = %v, want 20", got)
	}
	if got := testutil.ToFloat64(m.RunsCreated); got != 1 {
		t.Errorf("RunsCreated = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ClientsConnected); got != 1 {
		t.Errorf("ClientsConnected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.FramesDecoded.WithLabelValues("send_char")); got != 1 {
		t.Errorf("FramesDecoded[send_char] = %v, want 1", got)
	}
}

func TestNoop_DoesNotPanicAndIsIsolated(t *testing.T) {
	a := Noop()
	b := Noop()

	a.RunsCreated.Inc()
	a.FramesDecoded.WithLabelValues("set_fg").Inc()

	if got := testutil.ToFloat64(b.RunsCreated); got != 0 {
		t.Errorf("b.RunsCreated = %v, want 0 (registries must be independent)", got)
	}
	if got := testutil.ToFloat64(a.RunsCreated); got != 1 {
		t.Errorf("a.RunsCreated = %v, want 1", got)
	}
}

func TestNew_PanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic registering the same collectors twice against one registry")
		}
	}()
	New(reg)
}
