package task

import (
	"log/slog"

	"github.com/go-co-op/gocron/v2"
)

// Job is a named batch job the manager can schedule.
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager owns the gocron scheduler. Singleton mode guarantees at most one
// running instance per job; an overrunning job is rescheduled, not stacked.
type Manager struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

func NewManager(logger *slog.Logger) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Manager{scheduler: s, logger: logger}, nil
}

func (m *Manager) Register(jobs ...Job) error {
	for _, job := range jobs {
		_, err := m.scheduler.NewJob(
			job.GetSchedule(),
			gocron.NewTask(job.Execute),
			gocron.WithName(job.GetName()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return err
		}
		m.logger.Info("job registered", "job", job.GetName())
	}
	return nil
}

func (m *Manager) Start() {
	m.scheduler.Start()
	m.logger.Info("task manager started")
}

func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		m.logger.Error("task manager shutdown failed", "err", err)
		return
	}
	m.logger.Info("task manager stopped")
}
