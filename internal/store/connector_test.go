// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConnector_RetriesUntilConnected(t *testing.T) {
	fc := &fakeConnectable{failures: 2}
	c := NewConnector(fc, 10*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if n, _ := fc.state(); n >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("connector did not retry")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	n, disconnected := fc.state()
	if n != 3 {
		t.Errorf("connects = %d, want 3", n)
	}
	if !disconnected {
		t.Error("store should be disconnected on shutdown")
	}
}

func TestConnector_CanceledWhileRetrying(t *testing.T) {
	fc := &fakeConnectable{failures: 1000}
	c := NewConnector(fc, time.Hour, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if _, disconnected := fc.state(); disconnected {
		t.Error("a store that never connected should not be disconnected")
	}
}

func TestConnector_Defaults(t *testing.T) {
	c := NewConnector(&fakeConnectable{}, 0, 0)
	if c.interval != 5*time.Second || c.timeout != 10*time.Second {
		t.Errorf("defaults = (%v, %v)", c.interval, c.timeout)
	}
	if c.String() != "store-connector" {
		t.Errorf("String() = %q", c.String())
	}
}
