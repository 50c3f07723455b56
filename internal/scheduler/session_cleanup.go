// Package scheduler contém os serviços agendados do painel
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
)

//go:generate mockgen -source=session_cleanup.go -destination=mocks/session_cleanup.go -package=mocks

// SessionCleaner encerra as sessões paradas há mais tempo que o limite
type SessionCleaner interface {
	CleanupIdleSessions(ctx context.Context, maxIdle time.Duration) []string
}

type SessionCleanupConfig struct {
	CronSchedule string
	MaxIdle      time.Duration
	Enabled      bool
}

type SessionCleanupService struct {
	scheduler           *gocron.Scheduler
	cleaner             SessionCleaner
	config              SessionCleanupConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRemoved         int
}

func NewSessionCleanupService(cleaner SessionCleaner, cfg *config.Config) *SessionCleanupService {
	cleanupConfig := SessionCleanupConfig{
		CronSchedule: cfg.SessionCleanup.CronSchedule,
		MaxIdle:      time.Duration(cfg.SessionCleanup.MaxIdleMinutes) * time.Minute,
		Enabled:      cfg.SessionCleanup.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cleanupConfig.CronSchedule,
		"max_idle":      cleanupConfig.MaxIdle.String(),
	}).Info("Configuração da limpeza de sessões carregada")

	return &SessionCleanupService{
		scheduler: gocron.NewScheduler(time.Local),
		cleaner:   cleaner,
		config:    cleanupConfig,
	}
}

func (s *SessionCleanupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de limpeza de sessões desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de limpeza de sessões")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.CleanupSessions(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza de sessões: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de limpeza de sessões")
		s.scheduler.Stop()
	}()

	return nil
}

// CleanupSessions executa uma limpeza. Retorna false se outra limpeza já estiver em andamento.
func (s *SessionCleanupService) CleanupSessions(ctx context.Context) bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Limpeza de sessões já está em execução")
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	removed := s.cleaner.CleanupIdleSessions(ctx, s.config.MaxIdle)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastRemoved = len(removed)
	s.syncMutex.Unlock()

	logrus.WithField("removed", len(removed)).Info("Limpeza de sessões concluída")

	return true
}

// TriggerManualSync dispara uma limpeza fora do agendamento
func (s *SessionCleanupService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Limpeza de sessões já em andamento, ignorando solicitação manual")
		return false
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando limpeza manual de sessões")
	go s.CleanupSessions(context.Background())

	return true
}

// GetStatus retorna o status atual da limpeza
func (s *SessionCleanupService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.Enabled,
		"max_idle":               s.config.MaxIdle.String(),
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_removed_sessions":  s.lastRemoved,
	}
}
