package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"croncommander/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI is the part of the SQS client the publisher uses
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type sqsPublisher struct {
	client   SQSAPI
	queueURL string
	logger   logger.Logger
}

// NewSQSPublisher sends audit events as JSON messages to queueURL
func NewSQSPublisher(client SQSAPI, queueURL string, log logger.Logger) Publisher {
	return &sqsPublisher{
		client:   client,
		queueURL: queueURL,
		logger:   log.With(logger.String("component", "sqs_audit_publisher")),
	}
}

func (p *sqsPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		p.logger.Error("failed to send audit event to SQS",
			logger.String("queue_url", p.queueURL),
			logger.Error(err))
		return fmt.Errorf("failed to send audit event: %w", err)
	}

	p.logger.Debug("audit event sent",
		logger.String("event_id", event.EventID),
		logger.String("queue_url", p.queueURL))

	return nil
}
