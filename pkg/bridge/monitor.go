package bridge

import (
	"context"
	"fmt"
	"time"
)

// Monitor polling defaults: 40 attempts 3 seconds apart, a 120-second
// observation budget.
const (
	DefaultPollInterval = 3 * time.Second
	DefaultPollAttempts = 40
)

// MonitorConfig bounds the status poll loop. Zero fields fall back to the
// defaults above.
type MonitorConfig struct {
	Interval time.Duration
	Attempts int
}

func (c MonitorConfig) normalize() MonitorConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultPollInterval
	}
	if c.Attempts <= 0 {
		c.Attempts = DefaultPollAttempts
	}
	return c
}

// Monitor polls a backend's status endpoint until it observes a terminal
// state or exhausts the attempt budget. A non-terminal report, and any
// transport error on a single attempt, count as still-pending. Exceeding
// the budget returns CodeMonitoringTimeout, deliberately distinct from a
// provider-reported failure: the underlying transfer may still complete
// after observation stops.
func Monitor(ctx context.Context, backend Backend, ref string, cfg MonitorConfig) (TerminalOutcome, error) {
	cfg = cfg.normalize()

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		report, err := backend.Status(ctx, ref)
		if err == nil {
			switch report.State {
			case SettlementCompleted:
				return TerminalOutcome{Completed: true, CompletionTxRef: report.CompletionTxRef}, nil
			case SettlementFailed:
				reason := report.Reason
				if reason == "" {
					reason = "provider reported failure"
				}
				return TerminalOutcome{FailureReason: reason},
					NewError(CodeExecutionFailed, reason)
			}
		}

		if attempt == cfg.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return TerminalOutcome{}, WrapError(CodeMonitoringTimeout, "status monitoring cancelled", ctx.Err())
		case <-time.After(cfg.Interval):
		}
	}

	return TerminalOutcome{}, NewError(CodeMonitoringTimeout,
		fmt.Sprintf("no terminal status after %d attempts; check a chain explorer, the transfer may still complete", cfg.Attempts))
}
