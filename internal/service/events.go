package service

import (
	"context"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionCompletedEvent carries the finalized totals of a completed session.
// Detail is the full session tree as committed, used by the archive.
type SessionCompletedEvent struct {
	SessionID            primitive.ObjectID `json:"sessionId"`
	TraineeID            primitive.ObjectID `json:"traineeId"`
	TotalDurationSeconds int64              `json:"totalDurationSeconds"`
	TotalVolume          float64            `json:"totalVolume"`
	CompletionPercentage float64            `json:"completionPercentage"`
	CompletedAt          time.Time          `json:"completedAt"`
	Detail               *SessionDetail     `json:"-"`
}

// SessionAbandonedEvent is emitted when a session ends without totals.
type SessionAbandonedEvent struct {
	SessionID   primitive.ObjectID `json:"sessionId"`
	TraineeID   primitive.ObjectID `json:"traineeId"`
	AbandonedAt time.Time          `json:"abandonedAt"`
}

// PlanAdvancedEvent carries the tracker position after an advance.
// CompletedAt is set when the advance finished the plan.
type PlanAdvancedEvent struct {
	TrackerID   primitive.ObjectID   `json:"trackerId"`
	TraineeID   primitive.ObjectID   `json:"traineeId"`
	PlanID      primitive.ObjectID   `json:"planId"`
	CurrentWeek int                  `json:"currentWeek"`
	CurrentDay  int                  `json:"currentDay"`
	Status      domain.TrackerStatus `json:"status"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"`
}

// EventPublisher receives events after the state change they describe has
// been committed. A publish error never undoes that change.
type EventPublisher interface {
	PublishSessionCompleted(ctx context.Context, e SessionCompletedEvent) error
	PublishSessionAbandoned(ctx context.Context, e SessionAbandonedEvent) error
	PublishPlanAdvanced(ctx context.Context, e PlanAdvancedEvent) error
}

// FanoutPublisher delivers every event to all publishers in order and logs
// the ones that fail.
type FanoutPublisher struct {
	publishers []EventPublisher
}

func NewFanoutPublisher(publishers ...EventPublisher) *FanoutPublisher {
	return &FanoutPublisher{publishers: publishers}
}

func (f *FanoutPublisher) PublishSessionCompleted(ctx context.Context, e SessionCompletedEvent) error {
	for _, p := range f.publishers {
		if err := p.PublishSessionCompleted(ctx, e); err != nil {
			log.WithField("session_id", e.SessionID.Hex()).Warnf("publish session completed: %s", err)
		}
	}
	return nil
}

func (f *FanoutPublisher) PublishSessionAbandoned(ctx context.Context, e SessionAbandonedEvent) error {
	for _, p := range f.publishers {
		if err := p.PublishSessionAbandoned(ctx, e); err != nil {
			log.WithField("session_id", e.SessionID.Hex()).Warnf("publish session abandoned: %s", err)
		}
	}
	return nil
}

func (f *FanoutPublisher) PublishPlanAdvanced(ctx context.Context, e PlanAdvancedEvent) error {
	for _, p := range f.publishers {
		if err := p.PublishPlanAdvanced(ctx, e); err != nil {
			log.WithField("tracker_id", e.TrackerID.Hex()).Warnf("publish plan advanced: %s", err)
		}
	}
	return nil
}

// LogPublisher writes one structured log line per event.
type LogPublisher struct{}

func (LogPublisher) PublishSessionCompleted(_ context.Context, e SessionCompletedEvent) error {
	log.WithFields(log.Fields{
		"session_id":            e.SessionID.Hex(),
		"trainee_id":            e.TraineeID.Hex(),
		"total_duration":        e.TotalDurationSeconds,
		"total_volume":          e.TotalVolume,
		"completion_percentage": e.CompletionPercentage,
	}).Info("workout session completed")
	return nil
}

func (LogPublisher) PublishSessionAbandoned(_ context.Context, e SessionAbandonedEvent) error {
	log.WithFields(log.Fields{
		"session_id": e.SessionID.Hex(),
		"trainee_id": e.TraineeID.Hex(),
	}).Info("workout session abandoned")
	return nil
}

func (LogPublisher) PublishPlanAdvanced(_ context.Context, e PlanAdvancedEvent) error {
	log.WithFields(log.Fields{
		"tracker_id":   e.TrackerID.Hex(),
		"trainee_id":   e.TraineeID.Hex(),
		"plan_id":      e.PlanID.Hex(),
		"current_week": e.CurrentWeek,
		"current_day":  e.CurrentDay,
		"status":       e.Status,
	}).Info("training plan advanced")
	return nil
}

// MetricsPublisher records events in Prometheus.
type MetricsPublisher struct {
	m *metrics.Manager
}

func NewMetricsPublisher(m *metrics.Manager) *MetricsPublisher {
	return &MetricsPublisher{m: m}
}

func (p *MetricsPublisher) PublishSessionCompleted(_ context.Context, e SessionCompletedEvent) error {
	p.m.CounterSessionsFinished.WithLabelValues(domain.SessionCompleted.String()).Inc()
	p.m.HistSessionDuration.Observe(float64(e.TotalDurationSeconds))
	p.m.HistSessionVolume.Observe(e.TotalVolume)
	p.m.HistSessionCompleted.Observe(e.CompletionPercentage)
	p.m.CounterEventsPublished.WithLabelValues("session_completed").Inc()
	return nil
}

func (p *MetricsPublisher) PublishSessionAbandoned(_ context.Context, _ SessionAbandonedEvent) error {
	p.m.CounterSessionsFinished.WithLabelValues(domain.SessionAbandoned.String()).Inc()
	p.m.CounterEventsPublished.WithLabelValues("session_abandoned").Inc()
	return nil
}

func (p *MetricsPublisher) PublishPlanAdvanced(_ context.Context, e PlanAdvancedEvent) error {
	p.m.CounterPlanAdvances.WithLabelValues(e.Status.String()).Inc()
	p.m.CounterEventsPublished.WithLabelValues("plan_advanced").Inc()
	return nil
}
