package scheduler

import (
	"miniapp-service/internal/core/port"

	"github.com/robfig/cron/v3"
)

// Job - фоновая задача по расписанию.
type Job interface {
	Run() error
	Name() string
}

// Scheduler управляет фоновыми задачами сервиса.
type Scheduler struct {
	cron   *cron.Cron
	logger port.LoggerPort
}

// New создает планировщик.
func New(baseLogger port.LoggerPort) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: baseLogger.WithFields(port.Fields{"component": "scheduler"}),
	}
}

// Start запускает планировщик.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", nil)
}

// Stop останавливает планировщик и дожидается выполняющихся задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped", nil)
}

// AddJob регистрирует задачу с cron-расписанием ("@every 4m", "@hourly").
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.logger.Debug("Running job", port.Fields{"job": job.Name()})
		if err := job.Run(); err != nil {
			s.logger.Error("Job failed", err, port.Fields{"job": job.Name()})
			return
		}
		s.logger.Debug("Job completed", port.Fields{"job": job.Name()})
	})
	if err != nil {
		return err
	}

	s.logger.Info("Job registered", port.Fields{"schedule": schedule, "job": job.Name()})
	return nil
}
