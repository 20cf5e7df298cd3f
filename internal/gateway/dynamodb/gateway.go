package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"croncommander/internal/domain"
	gateway "croncommander/internal/gateway/iface"
	"croncommander/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DefaultTableName is used when no table is configured
const DefaultTableName = "cron_events"

// API is the subset of the DynamoDB client the gateway calls
type API interface {
	dynamodb.ScanAPIClient
	dynamodb.QueryAPIClient
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Gateway reads the scheduler table from DynamoDB.
// Partition key hook_id (S), sort key due_time (N), optional recurrence (S).
type Gateway struct {
	client    API
	tableName string
	now       gateway.Clock
	logger    logger.Logger
}

// NewGateway creates a new DynamoDB gateway
func NewGateway(client API, tableName string, now gateway.Clock, log logger.Logger) *Gateway {
	if tableName == "" {
		tableName = DefaultTableName
	}
	if now == nil {
		now = time.Now
	}
	return &Gateway{
		client:    client,
		tableName: tableName,
		now:       now,
		logger:    log.With(logger.String("component", "dynamodb_gateway")),
	}
}

func (g *Gateway) ListAll(ctx context.Context) (*domain.ScheduleSnapshot, error) {
	g.logger.Debug("scanning cron events", logger.String("table", g.tableName))

	jobs := make([]domain.ScheduledJob, 0)
	paginator := dynamodb.NewScanPaginator(g.client, &dynamodb.ScanInput{
		TableName: aws.String(g.tableName),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			g.logger.Error("failed to scan cron events", logger.Error(err))
			return nil, fmt.Errorf("%w: failed to scan cron events: %w", domain.ErrUpstreamUnavailable, err)
		}

		for _, item := range page.Items {
			var job domain.ScheduledJob
			if err := attributevalue.UnmarshalMap(item, &job); err != nil {
				g.logger.Warn("failed to unmarshal cron event", logger.Error(err))
				continue
			}
			jobs = append(jobs, job)
		}
	}

	g.logger.Debug("cron events retrieved", logger.Int("count", len(jobs)))

	return domain.NewScheduleSnapshot(jobs), nil
}

func (g *Gateway) FindJob(ctx context.Context, hookID string, dueTime int64) (*domain.ScheduledJob, error) {
	result, err := g.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(g.tableName),
		Key:       itemKey(hookID, dueTime),
	})
	if err != nil {
		g.logger.Error("failed to get cron event", logger.Error(err))
		return nil, fmt.Errorf("%w: failed to get cron event: %w", domain.ErrUpstreamUnavailable, err)
	}

	if result.Item == nil {
		return nil, domain.ErrJobNotFound
	}

	var job domain.ScheduledJob
	if err := attributevalue.UnmarshalMap(result.Item, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cron event: %w", err)
	}

	return &job, nil
}

func (g *Gateway) ClearRecurring(ctx context.Context, hookID string) error {
	paginator := dynamodb.NewQueryPaginator(g.client, &dynamodb.QueryInput{
		TableName:              aws.String(g.tableName),
		KeyConditionExpression: aws.String("#hook = :hook"),
		ExpressionAttributeNames: map[string]string{
			"#hook": "hook_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":hook": &types.AttributeValueMemberS{Value: hookID},
		},
	})

	removed := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			g.logger.Error("failed to query hook occurrences", logger.Error(err))
			return fmt.Errorf("%w: failed to query hook: %w", domain.ErrUpstreamUnavailable, err)
		}

		for _, item := range page.Items {
			_, err := g.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(g.tableName),
				Key: map[string]types.AttributeValue{
					"hook_id":  item["hook_id"],
					"due_time": item["due_time"],
				},
			})
			if err != nil {
				g.logger.Error("failed to delete hook occurrence", logger.Error(err))
				return fmt.Errorf("%w: failed to delete occurrence: %w", domain.ErrUpstreamUnavailable, err)
			}
			removed++
		}
	}

	g.logger.Info("cleared hook",
		logger.String("hook", hookID),
		logger.Int("removed", removed))

	return nil
}

func (g *Gateway) ScheduleOnce(ctx context.Context, hookID string, delay time.Duration) error {
	job := domain.ScheduledJob{
		HookID:  hookID,
		DueTime: g.now().Add(delay).Unix(),
	}

	item, err := attributevalue.MarshalMap(job)
	if err != nil {
		return fmt.Errorf("failed to marshal cron event: %w", err)
	}

	_, err = g.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(g.tableName),
		Item:      item,
	})
	if err != nil {
		g.logger.Error("failed to put cron event", logger.Error(err))
		return fmt.Errorf("%w: failed to put cron event: %w", domain.ErrUpstreamUnavailable, err)
	}

	g.logger.Info("scheduled single event",
		logger.String("hook", hookID),
		logger.Int64("due_time", job.DueTime))

	return nil
}

func itemKey(hookID string, dueTime int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"hook_id":  &types.AttributeValueMemberS{Value: hookID},
		"due_time": &types.AttributeValueMemberN{Value: strconv.FormatInt(dueTime, 10)},
	}
}
