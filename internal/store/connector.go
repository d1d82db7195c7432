// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/photon/internal/logging"
)

// Connectable is a store with an explicit connection lifecycle.
type Connectable interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// Connector keeps a store connected for the lifetime of its Serve call.
// It retries Connect every interval until it succeeds, then waits for
// shutdown and disconnects. It satisfies suture.Service.
type Connector struct {
	store    Connectable
	interval time.Duration
	timeout  time.Duration
}

// NewConnector creates a Connector. timeout bounds each attempt and the final disconnect.
func NewConnector(store Connectable, interval, timeout time.Duration) *Connector {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Connector{store: store, interval: interval, timeout: timeout}
}

// Serve connects and blocks until ctx is canceled.
func (c *Connector) Serve(ctx context.Context) error {
	log := logging.WithComponent(c.String())
	if err := c.connect(ctx, &log); err != nil {
		return err
	}

	<-ctx.Done()

	dctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if err := c.store.Disconnect(dctx); err != nil {
		log.Warn().Err(err).Msg("MongoDB disconnect failed")
	}
	return ctx.Err()
}

func (c *Connector) connect(ctx context.Context, log *zerolog.Logger) error {
	for attempt := 1; ; attempt++ {
		actx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.store.Connect(actx)
		cancel()
		if err == nil {
			return nil
		}

		log.Error().Err(err).Int("attempt", attempt).Dur("retry_in", c.interval).Msg("MongoDB connection failed")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.interval):
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (c *Connector) String() string {
	return "store-connector"
}
