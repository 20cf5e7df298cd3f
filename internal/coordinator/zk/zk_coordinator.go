package zk

import (
	"errors"
	"fmt"
	"path"
	"time"

	coordinator "croncommander/internal/coordinator/iface"
	"croncommander/internal/logger"

	"github.com/go-zookeeper/zk"
)

type zkCoordinator struct {
	conn   *zk.Conn
	logger logger.Logger
}

// NewZKCoordinator creates a new ZooKeeper coordinator
func NewZKCoordinator(servers []string, sessionTimeout time.Duration, log logger.Logger) (coordinator.Coordinator, error) {
	conn, _, err := zk.Connect(servers, sessionTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to zookeeper: %w", err)
	}

	log.Info("connected to zookeeper",
		logger.Any("servers", servers),
	)

	return &zkCoordinator{
		conn:   conn,
		logger: log.With(logger.String("component", "zk_coordinator")),
	}, nil
}

func (c *zkCoordinator) CreateNode(nodePath string, data []byte) error {
	c.logger.Debug("creating zk node",
		logger.String("path", nodePath),
	)

	if err := c.ensureParentPath(nodePath); err != nil {
		return err
	}

	_, err := c.conn.Create(nodePath, data, 0, zk.WorldACL(zk.PermAll))
	if err != nil {
		if errors.Is(err, zk.ErrNodeExists) {
			return c.SetNode(nodePath, data)
		}
		return fmt.Errorf("failed to create node: %w", err)
	}

	return nil
}

func (c *zkCoordinator) GetNode(nodePath string) ([]byte, error) {
	data, _, err := c.conn.Get(nodePath)
	if err != nil {
		if errors.Is(err, zk.ErrNoNode) {
			return nil, fmt.Errorf("%w: %s", coordinator.ErrNodeNotFound, nodePath)
		}
		return nil, fmt.Errorf("failed to get node: %w", err)
	}

	return data, nil
}

func (c *zkCoordinator) SetNode(nodePath string, data []byte) error {
	// -1 skips the version check
	_, err := c.conn.Set(nodePath, data, -1)
	if err != nil {
		if errors.Is(err, zk.ErrNoNode) {
			return c.CreateNode(nodePath, data)
		}
		return fmt.Errorf("failed to update node: %w", err)
	}

	return nil
}

func (c *zkCoordinator) Children(nodePath string) ([]string, error) {
	children, _, err := c.conn.Children(nodePath)
	if err != nil {
		if errors.Is(err, zk.ErrNoNode) {
			return nil, fmt.Errorf("%w: %s", coordinator.ErrNodeNotFound, nodePath)
		}
		return nil, fmt.Errorf("failed to list children: %w", err)
	}

	return children, nil
}

func (c *zkCoordinator) DeleteNode(nodePath string) error {
	err := c.conn.Delete(nodePath, -1)
	if err != nil {
		if errors.Is(err, zk.ErrNoNode) {
			return nil
		}
		return fmt.Errorf("failed to delete node: %w", err)
	}

	c.logger.Debug("deleted zk node",
		logger.String("path", nodePath),
	)

	return nil
}

func (c *zkCoordinator) Close() error {
	c.logger.Info("closing zookeeper connection")
	c.conn.Close()
	return nil
}

// ensureParentPath creates parent directories if they don't exist
func (c *zkCoordinator) ensureParentPath(nodePath string) error {
	parentPath := path.Dir(nodePath)
	if parentPath == "/" || parentPath == "." {
		return nil
	}

	exists, _, err := c.conn.Exists(parentPath)
	if err != nil {
		return fmt.Errorf("failed to check parent path: %w", err)
	}

	if !exists {
		if err := c.ensureParentPath(parentPath); err != nil {
			return err
		}

		_, err := c.conn.Create(parentPath, []byte{}, 0, zk.WorldACL(zk.PermAll))
		if err != nil && !errors.Is(err, zk.ErrNodeExists) {
			return fmt.Errorf("failed to create parent path: %w", err)
		}
	}

	return nil
}
