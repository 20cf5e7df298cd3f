package config

import (
	"context"
	"errors"
	"sync"

	cache "croncommander/internal/cache/iface"
	redisCache "croncommander/internal/cache/redis"
	coordinator "croncommander/internal/coordinator/iface"
	zkCoordinator "croncommander/internal/coordinator/zk"
	"croncommander/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Clients opens backend connections on first use so only the configured
// backends are ever dialled
type Clients struct {
	settings *Settings
	logger   logger.Logger

	redisOnce sync.Once
	redis     cache.Cache
	redisErr  error

	dynamoOnce sync.Once
	dynamo     *awsdynamodb.Client
	dynamoErr  error

	sqsOnce sync.Once
	sqs     *sqs.Client
	sqsErr  error

	zkOnce sync.Once
	zk     coordinator.Coordinator
	zkErr  error
}

func NewClients(settings *Settings, log logger.Logger) *Clients {
	return &Clients{
		settings: settings,
		logger:   log.With(logger.String("component", "clients")),
	}
}

// Redis returns the shared Redis cache client
func (c *Clients) Redis() (cache.Cache, error) {
	c.redisOnce.Do(func() {
		s := c.settings.Redis
		c.redis, c.redisErr = redisCache.NewRedisCache(s.Addr, s.Password, s.DB, c.logger)
	})
	return c.redis, c.redisErr
}

// DynamoDB returns the DynamoDB client, pointed at dynamodb.endpoint when set (e.g. DynamoDB Local)
func (c *Clients) DynamoDB(ctx context.Context) (*awsdynamodb.Client, error) {
	c.dynamoOnce.Do(func() {
		s := c.settings.DynamoDB
		cfg, err := loadAWSConfig(ctx, s.Region)
		if err != nil {
			c.dynamoErr = err
			return
		}
		c.dynamo = awsdynamodb.NewFromConfig(cfg, func(o *awsdynamodb.Options) {
			if s.Endpoint != "" {
				o.BaseEndpoint = aws.String(s.Endpoint)
			}
		})
		c.logger.Info("dynamodb client ready",
			logger.String("region", s.Region),
			logger.String("endpoint", s.Endpoint))
	})
	return c.dynamo, c.dynamoErr
}

// SQS returns the SQS client, pointed at audit.endpoint when set (e.g. LocalStack)
func (c *Clients) SQS(ctx context.Context) (*sqs.Client, error) {
	c.sqsOnce.Do(func() {
		s := c.settings.Audit
		cfg, err := loadAWSConfig(ctx, s.Region)
		if err != nil {
			c.sqsErr = err
			return
		}
		c.sqs = sqs.NewFromConfig(cfg, func(o *sqs.Options) {
			if s.Endpoint != "" {
				o.BaseEndpoint = aws.String(s.Endpoint)
			}
		})
	})
	return c.sqs, c.sqsErr
}

// ZooKeeper returns the coordinator connected to zookeeper.servers
func (c *Clients) ZooKeeper() (coordinator.Coordinator, error) {
	c.zkOnce.Do(func() {
		s := c.settings.ZooKeeper
		c.zk, c.zkErr = zkCoordinator.NewZKCoordinator(s.Servers, s.SessionTimeout, c.logger)
	})
	return c.zk, c.zkErr
}

// Close releases every client that was opened
func (c *Clients) Close() error {
	var errs []error
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	if c.zk != nil {
		errs = append(errs, c.zk.Close())
	}
	return errors.Join(errs...)
}

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
}
