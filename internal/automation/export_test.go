// Copyright 2025 Joseph Cumines

package automation

import "time"

// SetSettleDelay overrides the post-expand settle pause for tests.
func SetSettleDelay(d time.Duration) (restore func()) {
	prev := settleDelay
	settleDelay = d
	return func() { settleDelay = prev }
}
