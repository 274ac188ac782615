package database

import (
	"sync"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/talentdesk/intake-api/pkg/config"
)

// Connector lazily establishes the process-wide database handle. Concurrent
// callers racing for the first connection share a single in-flight attempt;
// a failed attempt is not cached, so the next caller retries cleanly.
type Connector struct {
	cfg   config.DatabaseConfig
	open  func(config.DatabaseConfig) (*sqlx.DB, error)
	group singleflight.Group

	mu sync.RWMutex
	db *sqlx.DB
}

// NewConnector builds a connector around NewPostgres.
func NewConnector(cfg config.DatabaseConfig) *Connector {
	return &Connector{cfg: cfg, open: NewPostgres}
}

// EnsureConnected returns the cached handle, dialing it on first use.
func (c *Connector) EnsureConnected() (*sqlx.DB, error) {
	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	v, err, _ := c.group.Do("connect", func() (interface{}, error) {
		c.mu.RLock()
		cached := c.db
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		opened, err := c.open(c.cfg)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.db = opened
		c.mu.Unlock()
		return opened, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sqlx.DB), nil
}

// Reset clears the cached handle after a fatal connection error so a later
// call re-dials.
func (c *Connector) Reset() {
	c.mu.Lock()
	if c.db != nil {
		_ = c.db.Close()
		c.db = nil
	}
	c.mu.Unlock()
}

// Close releases the underlying handle if present.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
