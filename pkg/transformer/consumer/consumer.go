// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package consumer runs the receive loop: it long-polls the queue while
// worker slots are free and the batcher is below its pending-byte high water
// mark, dispatches each message to the worker pool and settles it with an
// ack, a nack or a poison drop.
package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"
)

// controlCallTimeout bounds the ack, nack and visibility calls, which must
// not inherit the cancelled processing context during shutdown.
const controlCallTimeout = 10 * time.Second

// Processor handles one message. The worker implements it.
type Processor interface {
	Process(ctx context.Context, msg *message.Message) error
}

// PendingGauge reports the bytes awaiting publication. The sender implements
// it; the consumer reads it to decide when to pause receives.
type PendingGauge interface {
	PendingBytes() int64
}

// Config tunes the receive loop. Zero values fall back to the documented
// defaults.
type Config struct {
	// MaxMessagesPerReceive is the long-poll batch size, capped at 10 by the
	// queue API.
	MaxMessagesPerReceive int
	// WaitSeconds is the long-poll wait.
	WaitSeconds int
	// VisibilityTimeoutSeconds is the invisibility window requested at
	// receive time and added by every extension.
	VisibilityTimeoutSeconds int
	// VisibilityMaxExtensions caps how often one message may be extended.
	VisibilityMaxExtensions int
	// MaxConcurrentMessages is the worker pool size.
	MaxConcurrentMessages int
	// NackDelaySeconds is the visibility reset applied on nack.
	NackDelaySeconds int
	// MaxReceiveCount is the delivery ceiling after which a transiently
	// failing message is dropped as poison.
	MaxReceiveCount int
	// HighWaterBytes pauses receives while the sender reports at least this
	// many pending bytes.
	HighWaterBytes int64
	// Cooldown is the sleep slice between backpressure checks.
	Cooldown time.Duration
}

func (c *Config) normalize() {
	if c.MaxMessagesPerReceive < 1 || c.MaxMessagesPerReceive > 10 {
		c.MaxMessagesPerReceive = 10
	}
	if c.WaitSeconds < 0 || c.WaitSeconds > 20 {
		c.WaitSeconds = 20
	}
	if c.VisibilityTimeoutSeconds < 30 {
		c.VisibilityTimeoutSeconds = 120
	}
	if c.VisibilityMaxExtensions < 0 {
		c.VisibilityMaxExtensions = 8
	}
	if c.MaxConcurrentMessages < 1 {
		c.MaxConcurrentMessages = 10
	}
	if c.NackDelaySeconds < 0 || c.NackDelaySeconds > 900 {
		c.NackDelaySeconds = 0
	}
	if c.MaxReceiveCount < 1 {
		c.MaxReceiveCount = 5
	}
	if c.HighWaterBytes <= 0 {
		c.HighWaterBytes = 4 * 1024 * 1024 * 8 / 10
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 250 * time.Millisecond
	}
}

// Consumer owns the receive loop and the in-flight message handlers.
type Consumer struct {
	cfg       Config
	source    client.MessageSource
	processor Processor
	pending   PendingGauge
	clock     clock.Clock

	sem      *semaphore.Weighted
	wg       sync.WaitGroup
	inflight *atomic.Int64

	receiveCtx    context.Context
	stopReceiving context.CancelFunc
	procCtx       context.Context
	stopWork      context.CancelFunc
}

// New returns a consumer ready to Start.
func New(source client.MessageSource, processor Processor, pending PendingGauge, cfg Config) *Consumer {
	return newWithClock(source, processor, pending, cfg, clock.New())
}

func newWithClock(source client.MessageSource, processor Processor, pending PendingGauge, cfg Config, clk clock.Clock) *Consumer {
	cfg.normalize()
	receiveCtx, stopReceiving := context.WithCancel(context.Background())
	procCtx, stopWork := context.WithCancel(context.Background())
	return &Consumer{
		cfg:           cfg,
		source:        source,
		processor:     processor,
		pending:       pending,
		clock:         clk,
		sem:           semaphore.NewWeighted(int64(cfg.MaxConcurrentMessages)),
		inflight:      atomic.NewInt64(0),
		receiveCtx:    receiveCtx,
		stopReceiving: stopReceiving,
		procCtx:       procCtx,
		stopWork:      stopWork,
	}
}

// Start launches the receive loop.
func (c *Consumer) Start() {
	c.wg.Add(1)
	go c.run()
	log.Infof("consumer started: concurrency=%d wait=%ds visibility=%ds",
		c.cfg.MaxConcurrentMessages, c.cfg.WaitSeconds, c.cfg.VisibilityTimeoutSeconds)
}

// StopReceiving stops polling for new messages. In-flight messages keep
// processing until Drain.
func (c *Consumer) StopReceiving() {
	c.stopReceiving()
}

// Drain waits until every in-flight message has settled. When the context
// expires first, processing is cancelled, the still-running messages are
// counted lost and left unacked for redelivery, and the context error is
// returned.
func (c *Consumer) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		stranded := c.inflight.Load()
		c.stopWork()
		if stranded > 0 {
			metrics.LostOnShutdown.Add(stranded)
			metrics.TlmLostOnShutdown.Add(float64(stranded))
			log.Errorf("processing drain deadline passed with %d messages in flight, leaving them for redelivery", stranded)
		}
		return ctx.Err()
	}
}

// Inflight returns the number of messages currently being processed.
func (c *Consumer) Inflight() int64 {
	return c.inflight.Load()
}

func (c *Consumer) run() {
	defer c.wg.Done()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0
	bo.Reset()

	for {
		if c.receiveCtx.Err() != nil {
			return
		}
		c.waitForCapacity()

		// Hold one slot per message we may receive so a full pool never
		// over-fetches.
		if err := c.sem.Acquire(c.receiveCtx, 1); err != nil {
			return
		}
		slots := 1
		for slots < c.cfg.MaxMessagesPerReceive && c.sem.TryAcquire(1) {
			slots++
		}

		msgs, err := c.source.Receive(c.receiveCtx, slots, c.cfg.WaitSeconds, c.cfg.VisibilityTimeoutSeconds)
		if err != nil {
			c.sem.Release(int64(slots))
			if c.receiveCtx.Err() != nil {
				return
			}
			wait := bo.NextBackOff()
			log.Warnf("receive failed, backing off %s: %v", wait, err)
			select {
			case <-c.clock.After(wait):
			case <-c.receiveCtx.Done():
				return
			}
			continue
		}
		bo.Reset()

		if unused := slots - len(msgs); unused > 0 {
			c.sem.Release(int64(unused))
		}
		for _, msg := range msgs {
			metrics.MessagesReceived.Add(1)
			metrics.TlmMessagesReceived.Inc()
			c.wg.Add(1)
			go c.handle(msg)
		}
	}
}

func (c *Consumer) waitForCapacity() {
	paused := false
	for c.receiveCtx.Err() == nil && c.pending.PendingBytes() >= c.cfg.HighWaterBytes {
		if !paused {
			paused = true
			metrics.BackpressurePauses.Add(1)
			metrics.TlmBackpressurePauses.Inc()
			log.Debugf("pausing receives: %d pending bytes at or over the %d high water mark",
				c.pending.PendingBytes(), c.cfg.HighWaterBytes)
		}
		select {
		case <-c.clock.After(c.cfg.Cooldown):
		case <-c.receiveCtx.Done():
		}
	}
}

// handle settles one message: process, then ack, nack or drop.
func (c *Consumer) handle(msg *message.Message) {
	defer c.wg.Done()
	defer c.sem.Release(1)

	c.inflight.Inc()
	metrics.InflightMessages.Add(1)
	metrics.TlmInflightMessages.Inc()
	defer func() {
		c.inflight.Dec()
		metrics.InflightMessages.Add(-1)
		metrics.TlmInflightMessages.Dec()
	}()

	stopWatchdog := c.startWatchdog(msg)
	err := c.processor.Process(c.procCtx, msg)
	stopWatchdog()

	switch {
	case err == nil:
		c.ack(msg)
	case c.procCtx.Err() != nil:
		// Shutdown cut this one short. Counted by Drain, redelivered later.
		log.Warnc("shutdown interrupted processing, leaving message for redelivery", "msg_id", msg.ID)
	case client.IsRetryable(err):
		if msg.ReceiveCount > c.cfg.MaxReceiveCount {
			metrics.PoisonMessages.Add(1)
			metrics.TlmPoisonMessages.Inc()
			log.Errorc("dropping poison message",
				"msg_id", msg.ID, "receive_count", msg.ReceiveCount, "error", err)
			c.ack(msg)
			return
		}
		c.nack(msg, err)
	default:
		log.Errorc("dropping message after terminal processing error", "msg_id", msg.ID, "error", err)
		c.ack(msg)
	}
}

func (c *Consumer) ack(msg *message.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), controlCallTimeout)
	defer cancel()
	if err := c.source.Ack(ctx, msg.ReceiptHandle); err != nil {
		log.Warnf("failed to ack message %s, it will be redelivered: %v", msg.ID, err)
		return
	}
	metrics.MessagesAcked.Add(1)
	metrics.TlmMessagesAcked.Inc()
}

func (c *Consumer) nack(msg *message.Message, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), controlCallTimeout)
	defer cancel()
	if err := c.source.Nack(ctx, msg.ReceiptHandle, c.cfg.NackDelaySeconds); err != nil {
		log.Warnf("failed to nack message %s, visibility will expire on its own: %v", msg.ID, err)
		return
	}
	metrics.MessagesNacked.Add(1)
	metrics.TlmMessagesNacked.Inc()
	log.Debugc("nacked message for redelivery", "msg_id", msg.ID, "receive_count", msg.ReceiveCount, "error", cause)
}
