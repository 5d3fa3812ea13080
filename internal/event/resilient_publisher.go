package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/prizegrid/internal/logger"
)

// ResilientPublisher wraps a Bus with background retries and a dead-letter
// file. Publish never fails the caller: an allocation that committed stays
// committed even if a subscriber is down.
type ResilientPublisher struct {
	inner      Bus
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	// mu orders wg.Add in Publish against closed in Shutdown
	mu       sync.Mutex
	closed   bool
	wg       sync.WaitGroup
	shutdown chan struct{}
}

// NewResilientPublisher creates a publisher writing undeliverable events to
// deadLetterPath.
func NewResilientPublisher(inner Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &ResilientPublisher{
		inner:      inner,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dlw,
		shutdown:   make(chan struct{}),
	}, nil
}

// Publish tries once synchronously and schedules retries on failure.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		logger.FromContext(ctx).Warn(LogMsgDroppedShutdown, "event_type", event.Type)
		p.writeDeadLetter(event, 1, err)
		return nil
	}
	p.wg.Add(1)
	p.mu.Unlock()

	logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", event.Type, "error", err, "retries", p.maxRetries)
	go p.retryLoop(event, err)
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) retryLoop(event Event, lastErr error) {
	defer p.wg.Done()
	ctx := context.Background()

	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		select {
		case <-p.shutdown:
			logger.Warn(LogMsgDroppedShutdown, "event_type", event.Type)
			p.writeDeadLetter(event, attempt, lastErr)
			return
		case <-time.After(CalculateRetryDelay(p.retryDelay, attempt)):
		}

		if lastErr = p.inner.Publish(ctx, event); lastErr == nil {
			logger.Info(LogMsgRetrySucceeded, "event_type", event.Type, "attempt", attempt)
			return
		}
		logger.Warn(LogMsgRetryFailed, "event_type", event.Type, "attempt", attempt, "error", lastErr)
	}

	p.writeDeadLetter(event, p.maxRetries+1, lastErr)
}

func (p *ResilientPublisher) writeDeadLetter(event Event, attempts int, lastErr error) {
	if err := p.deadLetter.Write(event, attempts, lastErr); err != nil {
		logger.Error(LogMsgDeadLetterFailed, "event_type", event.Type, "error", err)
		return
	}
	logger.Warn(LogMsgDeadLettered, "event_type", event.Type, "attempts", attempts)
}

// Shutdown stops pending retries, dead-lettering what is left, and closes the file.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.shutdown)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
	return p.deadLetter.Close()
}

// CalculateRetryDelay doubles the base delay per attempt: base, 2*base, 4*base.
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	return baseDelay * time.Duration(1<<(attempt-1))
}
