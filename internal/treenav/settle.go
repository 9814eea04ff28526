package treenav

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultSettleTimeout  = 2 * time.Second
	DefaultSettleInterval = 25 * time.Millisecond
	DefaultSettleDelay    = 300 * time.Millisecond
)

// Panel is the view of a category body a Settler observes.
type Panel interface {
	State(ctx context.Context) (PanelState, error)
	Transitioning(ctx context.Context) (bool, error)
}

// Settler waits after a toggle click until the panel may be queried.
type Settler interface {
	Settle(ctx context.Context, p Panel, want PanelState) error
}

// PollSettler polls the panel until it reports want and its body has left
// the transition state.
type PollSettler struct {
	Timeout  time.Duration
	Interval time.Duration
}

func (s PollSettler) Settle(ctx context.Context, p Panel, want PanelState) error {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultSettleTimeout
	}
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultSettleInterval
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := settled(ctx, p, want)
		if done {
			return nil
		}
		if err == nil && ctx.Err() == nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
				continue
			}
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("panel not %s after %s: %w", want, timeout, ErrTimeout)
		}
		if err != nil {
			return err
		}
		return ctx.Err()
	}
}

func settled(ctx context.Context, p Panel, want PanelState) (bool, error) {
	state, err := p.State(ctx)
	if err != nil || state != want {
		return false, err
	}
	busy, err := p.Transitioning(ctx)
	if err != nil {
		return false, err
	}
	return !busy, nil
}

// FixedSettler pauses for Delay regardless of the panel, for markup that
// exposes no usable state.
type FixedSettler struct {
	Delay time.Duration
}

func (s FixedSettler) Settle(ctx context.Context, _ Panel, _ PanelState) error {
	delay := s.Delay
	if delay <= 0 {
		delay = DefaultSettleDelay
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
