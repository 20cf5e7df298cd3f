package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"croncommander/internal/domain"
	"croncommander/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (r *recordingSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	r.inputs = append(r.inputs, params)
	if r.err != nil {
		return nil, r.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSQSPublisherSendsJSON(t *testing.T) {
	client := &recordingSQS{}
	publisher := NewSQSPublisher(client, "http://localhost:4566/000000000000/cron-audit", logger.NewNopLogger())

	event := NewEvent("admin", "my_hook", 1700000000, domain.ToggleStopped)
	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, client.inputs, 1)
	assert.Equal(t, "http://localhost:4566/000000000000/cron-audit", aws.ToString(client.inputs[0].QueueUrl))

	var sent Event
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.inputs[0].MessageBody)), &sent))
	assert.Equal(t, event, sent)
}

func TestSQSPublisherWrapsErrors(t *testing.T) {
	client := &recordingSQS{err: errors.New("queue does not exist")}
	publisher := NewSQSPublisher(client, "q", logger.NewNopLogger())

	err := publisher.Publish(context.Background(), NewEvent("a", "h", 1, domain.ToggleStarted))
	assert.ErrorContains(t, err, "queue does not exist")
}
