package lattice

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// NotificationEvent is emitted whenever a run records a checkpoint or
// reaches a terminal status.
type NotificationEvent struct {
	RunID     string         `json:"run_id"`
	Model     string         `json:"model"`
	Status    string         `json:"status"`
	Timestamp int64          `json:"timestamp"`
	SimTime   float64        `json:"sim_time"`
	Counts    map[string]int `json:"counts,omitempty"`
	Sample    *Sample        `json:"sample,omitempty"`
}

// JSON returns the notification event as JSON bytes.
func (ne NotificationEvent) JSON() ([]byte, error) {
	return json.Marshal(ne)
}

// Notifier is the interface that all notification channels must implement.
type Notifier interface {
	// ID returns a unique identifier for this notifier.
	ID() string

	// Type returns the kind of notifier (e.g. "webhook", "websocket").
	Type() string

	// Notify delivers one event. The context carries cancellation and
	// timeout.
	Notify(ctx context.Context, event NotificationEvent) error

	// Close releases any resources held by the notifier.
	Close() error
}

type notificationJob struct {
	Event       NotificationEvent
	NotifierIDs []string
}

// NotificationManager registers notifiers and routes events to them through
// an asynchronous worker queue, so the simulation loop never blocks on
// delivery.
type NotificationManager struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
	jobs      chan notificationJob
	closed    bool
	wg        sync.WaitGroup
	logger    Logger
}

// NewNotificationManager creates a manager with logging disabled.
func NewNotificationManager() *NotificationManager {
	return NewNotificationManagerWithLogger(NewNoOpLogger())
}

// NewNotificationManagerWithLogger creates a manager using the given logger.
func NewNotificationManagerWithLogger(logger Logger) *NotificationManager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	mgr := &NotificationManager{
		notifiers: make(map[string]Notifier),
		jobs:      make(chan notificationJob, 1024),
		logger:    logger,
	}
	mgr.wg.Add(1)
	go mgr.worker()
	return mgr
}

// RegisterNotifier adds a notifier. IDs must be unique.
func (nm *NotificationManager) RegisterNotifier(notifier Notifier) error {
	if notifier == nil {
		return fmt.Errorf("notifier cannot be nil")
	}
	id := notifier.ID()
	if id == "" {
		return fmt.Errorf("notifier ID cannot be empty")
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()
	if _, exists := nm.notifiers[id]; exists {
		return fmt.Errorf("notifier with ID %s already exists", id)
	}
	nm.notifiers[id] = notifier
	return nil
}

// UnregisterNotifier closes and removes a notifier.
func (nm *NotificationManager) UnregisterNotifier(id string) error {
	nm.mu.Lock()
	notifier, exists := nm.notifiers[id]
	if exists {
		delete(nm.notifiers, id)
	}
	nm.mu.Unlock()

	if !exists {
		return fmt.Errorf("notifier with ID %s not found", id)
	}
	if err := notifier.Close(); err != nil {
		return fmt.Errorf("error closing notifier %s: %w", id, err)
	}
	return nil
}

// GetNotifier retrieves a notifier by ID.
func (nm *NotificationManager) GetNotifier(id string) (Notifier, bool) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	notifier, exists := nm.notifiers[id]
	return notifier, exists
}

// ListNotifiers returns the registered notifier IDs.
func (nm *NotificationManager) ListNotifiers() []string {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	return ids
}

// Enqueue submits an event for asynchronous delivery. Non-blocking: when
// the queue is full the event is dropped with a warning, never stalling the
// run loop.
func (nm *NotificationManager) Enqueue(event NotificationEvent, notifierIDs []string) {
	if len(notifierIDs) == 0 {
		return
	}
	// The read lock spans the send: Close closes the jobs channel only while
	// holding the write lock, so the send can never hit a closed channel.
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	if nm.closed {
		return
	}

	select {
	case nm.jobs <- notificationJob{Event: event, NotifierIDs: notifierIDs}:
	default:
		nm.logger.Warnf("notification queue full, dropping event: run_id=%s sim_time=%g", event.RunID, event.SimTime)
	}
}

func (nm *NotificationManager) worker() {
	defer nm.wg.Done()
	for job := range nm.jobs {
		nm.dispatchJob(job)
	}
}

func (nm *NotificationManager) dispatchJob(job notificationJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, id := range job.NotifierIDs {
		nm.notifyWithRetry(ctx, id, job.Event)
	}
}

// notifyWithRetry delivers one event with exponential backoff.
func (nm *NotificationManager) notifyWithRetry(ctx context.Context, notifierID string, event NotificationEvent) {
	nm.mu.RLock()
	notifier, ok := nm.notifiers[notifierID]
	nm.mu.RUnlock()
	if !ok {
		nm.logger.Warnf("notification dropped: notifier=%s not found", notifierID)
		return
	}

	const maxRetries = 3
	backoff := 100 * time.Millisecond
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := notifier.Notify(ctx, event)
		if err == nil {
			return
		}
		nm.logger.Warnf("notification failed: notifier=%s attempt=%d error=%v", notifierID, attempt+1, err)
		if attempt == maxRetries {
			nm.logger.Errorf("notification abandoned after %d attempts: notifier=%s", maxRetries+1, notifierID)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// Notify delivers an event synchronously to the named notifiers. Prefer
// Enqueue from hot paths.
func (nm *NotificationManager) Notify(ctx context.Context, event NotificationEvent, notifierIDs []string) error {
	var errs []error
	for _, id := range notifierIDs {
		nm.mu.RLock()
		notifier, exists := nm.notifiers[id]
		nm.mu.RUnlock()
		if !exists {
			errs = append(errs, fmt.Errorf("notifier %s not found", id))
			continue
		}
		if err := notifier.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("notifier %s failed: %w", id, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %v", errs)
	}
	return nil
}

// Close drains the queue, stops the worker and closes every notifier.
func (nm *NotificationManager) Close() error {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return nil
	}
	nm.closed = true
	close(nm.jobs)
	nm.mu.Unlock()

	nm.wg.Wait()

	nm.mu.Lock()
	defer nm.mu.Unlock()
	var errs []error
	for id, notifier := range nm.notifiers {
		if err := notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing notifier %s: %w", id, err))
		}
	}
	nm.notifiers = make(map[string]Notifier)
	if len(errs) > 0 {
		return fmt.Errorf("errors closing notifiers: %v", errs)
	}
	return nil
}
