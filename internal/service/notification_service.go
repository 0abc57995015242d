package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"dentalcare-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Appointment event types published on the notification channel
const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentUpdated       = "appointment.updated"
	EventAppointmentStatusChanged = "appointment.status_changed"
	EventAppointmentCancelled     = "appointment.cancelled"
)

type AppointmentEvent struct {
	Type          string                   `json:"type"`
	AppointmentID uuid.UUID                `json:"appointment_id"`
	DentistID     uuid.UUID                `json:"dentist_id"`
	PatientID     uuid.UUID                `json:"patient_id"`
	Status        entity.AppointmentStatus `json:"status"`
	StartTime     time.Time                `json:"start_time"`
	EndTime       time.Time                `json:"end_time"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

// NewAppointmentEvent snapshots an appointment into an event
func NewAppointmentEvent(eventType string, a *entity.Appointment, at time.Time) AppointmentEvent {
	return AppointmentEvent{
		Type:          eventType,
		AppointmentID: a.ID,
		DentistID:     a.DentistID,
		PatientID:     a.PatientID,
		Status:        a.Status,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		OccurredAt:    at,
	}
}

// Notifier publishes events without blocking or failing the caller
type Notifier interface {
	Publish(event AppointmentEvent)
}

// RedisNotifier publishes events on a Redis Pub/Sub channel
type RedisNotifier struct {
	redisClient *redis.Client
	channel     string
	timeout     time.Duration
	log         *logrus.Logger
	wg          sync.WaitGroup
}

func NewRedisNotifier(redisClient *redis.Client, channel string, timeout time.Duration, log *logrus.Logger) *RedisNotifier {
	return &RedisNotifier{
		redisClient: redisClient,
		channel:     channel,
		timeout:     timeout,
		log:         log,
	}
}

// Publish runs on a detached context so the request lifetime does not cut it short.
func (n *RedisNotifier) Publish(event AppointmentEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.log.Warnf("Failed to encode %s event: %+v", event.Type, err)
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.redisClient.Publish(ctx, n.channel, payload).Err(); err != nil {
			n.log.Warnf("Failed to publish %s for appointment %s: %+v", event.Type, event.AppointmentID, err)
			return
		}
		n.log.Debugf("Published %s for appointment %s", event.Type, event.AppointmentID)
	}()
}

// Wait blocks until in-flight publishes finish; used during shutdown.
func (n *RedisNotifier) Wait() {
	n.wg.Wait()
}
