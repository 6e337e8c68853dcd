// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"
)

// startWatchdog keeps a slow message invisible to other consumers: every half
// visibility interval it pushes the timeout out again, up to the configured
// extension budget. The returned stop function is idempotent.
func (c *Consumer) startWatchdog(msg *message.Message) func() {
	interval := time.Duration(c.cfg.VisibilityTimeoutSeconds) * time.Second / 2
	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() { close(done) })
	}

	go func() {
		ticker := c.clock.Ticker(interval)
		defer ticker.Stop()

		extensions := 0
		for {
			select {
			case <-ticker.C:
				if extensions >= c.cfg.VisibilityMaxExtensions {
					log.Warnc("visibility extension budget exhausted, message may be redelivered while still processing",
						"msg_id", msg.ID, "extensions", extensions)
					return
				}
				ctx, cancel := context.WithTimeout(context.Background(), controlCallTimeout)
				err := c.source.ExtendVisibility(ctx, msg.ReceiptHandle, c.cfg.VisibilityTimeoutSeconds)
				cancel()
				if err != nil {
					log.Warnf("failed to extend visibility for message %s: %v", msg.ID, err)
					continue
				}
				extensions++
				metrics.VisibilityExtensions.Add(1)
				metrics.TlmVisibilityExtensions.Inc()
			case <-done:
				return
			}
		}
	}()
	return stop
}
