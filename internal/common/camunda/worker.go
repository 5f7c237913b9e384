// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"talentmatch-workers/internal/common/logger"
)

// HandlerFunc is the job handler signature the Zeebe client expects.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Registration describes one job worker to open against the broker.
type Registration struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
	Handler       HandlerFunc
}

// Manager opens and tracks the engine's job workers over one shared broker
// connection.
type Manager struct {
	client  zbc.Client
	workers []worker.JobWorker
	logger  logger.Logger
}

// NewManager creates a worker manager over an established broker client.
func NewManager(client zbc.Client, log logger.Logger) *Manager {
	return &Manager{client: client, logger: log}
}

// Start opens a job worker for the registration.
func (m *Manager) Start(reg Registration) {
	jobWorker := m.client.NewJobWorker().
		JobType(reg.TaskType).
		Handler(worker.JobHandler(reg.Handler)).
		MaxJobsActive(reg.MaxJobsActive).
		Timeout(reg.Timeout).
		Open()

	m.workers = append(m.workers, jobWorker)
	m.logger.Info("worker started", map[string]interface{}{
		"taskType":      reg.TaskType,
		"maxJobsActive": reg.MaxJobsActive,
		"timeout":       reg.Timeout.String(),
	})
}

// Stop closes every open worker and the broker connection.
func (m *Manager) Stop() {
	for _, w := range m.workers {
		w.Close()
	}
	if err := m.client.Close(); err != nil {
		m.logger.Error("error closing broker client", map[string]interface{}{
			"error": err.Error(),
		})
	}
	m.logger.Info("all workers stopped", map[string]interface{}{
		"count": len(m.workers),
	})
}
