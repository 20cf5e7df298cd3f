package coordinator

import "errors"

// ErrNodeNotFound is returned when a znode does not exist
var ErrNodeNotFound = errors.New("node not found")

// Coordinator defines the ZooKeeper operations the scheduler gateway relies on
type Coordinator interface {
	CreateNode(path string, data []byte) error
	GetNode(path string) ([]byte, error)
	SetNode(path string, data []byte) error
	Children(path string) ([]string, error)
	DeleteNode(path string) error
	Close() error
}
