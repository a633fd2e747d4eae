package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/nxadm/tail"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

// FileCollector follows a JSON-lines telemetry file, one VehicleSnapshot
// per line, and serves the latest snapshot seen for each vehicle.
type FileCollector struct {
	path   string
	tailer *tail.Tail
	latest map[string]models.VehicleSnapshot
	mu     sync.RWMutex
	done   chan struct{}
	lines  int64
	bad    int64
}

type FileCollectorConfig struct {
	Path string
	// Poll uses stat polling instead of inotify.
	Poll bool
}

func NewFileCollector(cfg FileCollectorConfig) (*FileCollector, error) {
	if cfg.Path == "" {
		return nil, errors.New("file collector requires a path")
	}

	tailer, err := tail.TailFile(cfg.Path, tail.Config{
		Location:  &tail.SeekInfo{Offset: 0, Whence: 0},
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      cfg.Poll,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to tail %s: %w", cfg.Path, err)
	}

	c := &FileCollector{
		path:   cfg.Path,
		tailer: tailer,
		latest: make(map[string]models.VehicleSnapshot),
		done:   make(chan struct{}),
	}
	go c.run()
	return c, nil
}

func (c *FileCollector) run() {
	defer close(c.done)
	for line := range c.tailer.Lines {
		if line.Err != nil {
			logger.Warnf("Error reading telemetry file %s: %v", c.path, line.Err)
			continue
		}
		c.ingest(line.Text)
	}
}

func (c *FileCollector) ingest(text string) {
	if text == "" {
		return
	}

	var snapshot models.VehicleSnapshot
	if err := json.Unmarshal([]byte(text), &snapshot); err != nil || snapshot.VehicleID == "" {
		c.mu.Lock()
		c.bad++
		c.mu.Unlock()
		logger.Debugf("Skipping malformed telemetry line in %s", c.path)
		return
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = timeNow()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines++
	if prev, ok := c.latest[snapshot.VehicleID]; ok && prev.Timestamp.After(snapshot.Timestamp) {
		return
	}
	c.latest[snapshot.VehicleID] = snapshot
}

func (c *FileCollector) Collect(ctx context.Context, vehicleID string) (*models.VehicleSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot, ok := c.latest[vehicleID]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	return &snapshot, nil
}

// Stats returns the number of accepted and rejected lines so far.
func (c *FileCollector) Stats() (accepted, rejected int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lines, c.bad
}

func (c *FileCollector) HealthCheck(ctx context.Context) error {
	if _, err := os.Stat(c.path); err != nil {
		return fmt.Errorf("telemetry file unavailable: %w", err)
	}
	return nil
}

func (c *FileCollector) Close() error {
	err := c.tailer.Stop()
	c.tailer.Cleanup()
	<-c.done
	return err
}
