package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// LogStatus represents the lifecycle state of one collection run.
type LogStatus string

const (
	LogStatusPending   LogStatus = "pending"
	LogStatusRunning   LogStatus = "running"
	LogStatusCompleted LogStatus = "completed"
	LogStatusFailed    LogStatus = "failed"
)

// Valid status transitions:
// pending -> running -> completed
//                   \-> failed
// completed and failed are terminal.
var logTransitions = map[LogStatus][]LogStatus{
	LogStatusPending:   {LogStatusRunning},
	LogStatusRunning:   {LogStatusCompleted, LogStatusFailed},
	LogStatusCompleted: {},
	LogStatusFailed:    {},
}

func (s LogStatus) IsValid() bool {
	switch s {
	case LogStatusPending, LogStatusRunning, LogStatusCompleted, LogStatusFailed:
		return true
	default:
		return false
	}
}

func (s LogStatus) IsTerminal() bool {
	return s == LogStatusCompleted || s == LogStatusFailed
}

func (s LogStatus) CanTransitionTo(next LogStatus) bool {
	allowed, exists := logTransitions[s]
	if !exists {
		return false
	}
	for _, status := range allowed {
		if status == next {
			return true
		}
	}
	return false
}

func (s LogStatus) String() string {
	return string(s)
}

var ErrInvalidLogTransition = errors.New("invalid collection log status transition")

// CollectionLog records one orchestration run for one region. It is created
// once, updated in place until it reaches a terminal status, then immutable.
type CollectionLog struct {
	ID              uuid.UUID
	RegionCode      string
	CollectionKind  Kind
	Status          LogStatus
	VideosCollected int
	APICallsUsed    int
	ErrorMessage    string
	StartedAt       time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewCollectionLog creates a pending log for a run that is about to start.
func NewCollectionLog(regionCode string, kind Kind) *CollectionLog {
	now := time.Now()
	return &CollectionLog{
		ID:             uuid.New(),
		RegionCode:     regionCode,
		CollectionKind: kind,
		Status:         LogStatusPending,
		StartedAt:      now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Start transitions the log to running.
func (l *CollectionLog) Start() error {
	return l.transitionTo(LogStatusRunning)
}

// Complete transitions the log to its terminal completed state.
func (l *CollectionLog) Complete(videosCollected int) error {
	if err := l.transitionTo(LogStatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	l.VideosCollected = videosCollected
	l.CompletedAt = &now
	return nil
}

// Fail transitions the log to its terminal failed state.
func (l *CollectionLog) Fail(errMsg string) error {
	if err := l.transitionTo(LogStatusFailed); err != nil {
		return err
	}
	now := time.Now()
	l.ErrorMessage = errMsg
	l.CompletedAt = &now
	return nil
}

func (l *CollectionLog) transitionTo(next LogStatus) error {
	if !next.IsValid() || !l.Status.CanTransitionTo(next) {
		return ErrInvalidLogTransition
	}
	l.Status = next
	l.UpdatedAt = time.Now()
	return nil
}

// ExecutionTime returns the run duration, or zero while still running.
func (l *CollectionLog) ExecutionTime() time.Duration {
	if l.CompletedAt == nil {
		return 0
	}
	return l.CompletedAt.Sub(l.StartedAt)
}
