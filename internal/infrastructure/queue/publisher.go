package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"carbon-market.backend/internal/domain/entities"
	"carbon-market.backend/pkg/logger"
)

const auditAssignedQueue = "audit.assigned"

// AuditAssignedEvent notifies downstream consumers that a panel of auditors
// has been drawn for a newly listed credit.
type AuditAssignedEvent struct {
	AuditRequestID string    `json:"audit_request_id"`
	CreditID       int64     `json:"credit_id"`
	CreditName     string    `json:"credit_name"`
	CreatorID      string    `json:"creator_id"`
	Auditors       []string  `json:"auditors"`
	AssignedAt     time.Time `json:"assigned_at"`
}

// Publisher pushes domain events onto RabbitMQ. Publishing is best effort:
// callers treat a returned error as advisory, a broker outage must never
// fail the request that produced the event.
type Publisher struct {
	url string
}

// NewPublisher creates a publisher for the given AMQP URL. An empty URL
// disables publishing.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// PublishAuditAssigned declares the durable audit.assigned queue and publishes
// the event as a persistent JSON message.
func (p *Publisher) PublishAuditAssigned(ctx context.Context, req *entities.AuditRequest, creditName string) error {
	if p == nil || p.url == "" {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		logger.Warn(ctx, "rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn(ctx, "rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(auditAssignedQueue, true, false, false, false, nil); err != nil {
		logger.Warn(ctx, "rabbitmq queue declare failed", zap.Error(err))
		return err
	}

	auditors := make([]string, len(req.Auditors))
	for i, id := range req.Auditors {
		auditors[i] = id.String()
	}
	event := AuditAssignedEvent{
		AuditRequestID: req.ID.String(),
		CreditID:       req.CreditID,
		CreditName:     creditName,
		CreatorID:      req.CreatorID.String(),
		Auditors:       auditors,
		AssignedAt:     time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", auditAssignedQueue, false, false, pub); err != nil {
		logger.Warn(ctx, "rabbitmq publish failed", zap.Error(err))
		return err
	}
	return nil
}
