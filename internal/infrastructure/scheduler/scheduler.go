// Package scheduler ejecuta tareas periódicas con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/mousto-pos/pkg/logger"
)

// JobFunc tarea programada.
type JobFunc func(ctx context.Context) error

// JobMetrics observa cada ejecución. Opcional.
type JobMetrics interface {
	ObserveJob(job string, err error, d time.Duration)
}

// Scheduler envuelve cron con logging, métricas y timeout por ejecución.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	metrics JobMetrics
	timeout time.Duration

	mu   sync.Mutex
	jobs map[string]JobFunc
}

// New crea el scheduler; las ejecuciones solapadas del mismo job se saltan.
func New(log *logger.Logger, metrics JobMetrics, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     log,
		metrics: metrics,
		timeout: timeout,
		jobs:    make(map[string]JobFunc),
	}
}

// Register programa job con una expresión cron de 5 campos o un descriptor (@daily, @every 1h).
func (s *Scheduler) Register(name, spec string, job JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("scheduler: job %q ya registrado", name)
	}
	if _, err := s.cron.AddFunc(spec, func() { _ = s.run(context.Background(), name, job) }); err != nil {
		return fmt.Errorf("scheduler: spec %q inválida para %s: %w", spec, name, err)
	}
	s.jobs[name] = job
	return nil
}

// Trigger ejecuta un job registrado de forma síncrona (arranque, tests).
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("scheduler: job %q desconocido", name)
	}
	return s.run(ctx, name, job)
}

func (s *Scheduler) run(ctx context.Context, name string, job JobFunc) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	d := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveJob(name, err, d)
	}
	if err != nil {
		s.log.Error().Err(err).Str("job", name).Dur("duration", d).Msg("scheduler: job fallido")
		return err
	}
	s.log.Info().Str("job", name).Dur("duration", d).Msg("scheduler: job completado")
	return nil
}

// Start arranca el cron en segundo plano.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el cron y espera a los jobs en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler: jobs en curso sin terminar al apagar")
	}
}
