package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"telegram-stock-pulse/internal/collector/config"
	"telegram-stock-pulse/internal/collector/event"
	"telegram-stock-pulse/internal/collector/registry"
	"telegram-stock-pulse/internal/collector/stream"
	"telegram-stock-pulse/internal/entity"
	"telegram-stock-pulse/pkg/logger"
	"telegram-stock-pulse/pkg/utils"

	"github.com/robfig/cron/v3"
)

// CollectorService is the top-level facade over the collection pipeline.
type CollectorService interface {
	Start(ctx context.Context) error
	Stop()
	Status() entity.Status
	RecentMessages(limit int, filters entity.MessageFilters) []entity.ScoredMessage
	GenerateReport() (*entity.PsychologyReport, error)
	Registry() *registry.Registry
}

// NewCollectorService creates a new collector service.
func NewCollectorService(cfg *config.Config, reg *registry.Registry, coordinator *stream.Coordinator, bus *event.Bus, log *logger.Logger) CollectorService {
	return &collectorService{
		cfg:         cfg,
		registry:    reg,
		coordinator: coordinator,
		bus:         bus,
		logger:      log,
	}
}

type collectorService struct {
	cfg         *config.Config
	registry    *registry.Registry
	coordinator *stream.Coordinator
	bus         *event.Bus
	logger      *logger.Logger

	cron     *cron.Cron
	eventSub *event.Subscription
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Start launches the event logging subscriber, the coordinator and, when
// configured, the hourly report job.
func (s *collectorService) Start(ctx context.Context) error {
	s.eventSub = s.bus.Subscribe(
		event.UrgentMessage,
		event.PositiveSignal,
		event.NegativeSignal,
		event.StockMention,
		event.Statistics,
		event.Error,
		event.ProcessingError,
	)
	s.wg.Add(1)
	utils.GoSafe(func() {
		defer s.wg.Done()
		s.consumeEvents()
	})

	if err := s.coordinator.Start(ctx); err != nil {
		return fmt.Errorf("failed to start collector service: %w", err)
	}

	if s.cfg.Report.Hourly {
		s.cron = cron.New()
		if _, err := s.cron.AddFunc("@hourly", s.writeScheduledReport); err != nil {
			return fmt.Errorf("failed to schedule hourly report: %w", err)
		}
		s.cron.Start()
		s.logger.Info("Hourly report job scheduled", logger.Field("output_dir", s.cfg.Report.OutputDir))
	}

	s.logger.Info("Collector service started", logger.Field("app", s.cfg.App.Name))
	return nil
}

// consumeEvents mirrors the bus onto the log so operators see signal without
// attaching a subscriber of their own.
func (s *collectorService) consumeEvents() {
	for ev := range s.eventSub.C {
		switch ev.Type {
		case event.UrgentMessage:
			s.logger.Warn("Urgent message detected",
				logger.Field("channel", ev.Message.Metadata.Channel),
				logger.Field("text", preview(ev.Message.Original)))
		case event.PositiveSignal:
			s.logger.Info("Reliable positive signal",
				logger.Field("channel", ev.Message.Metadata.Channel),
				logger.Field("reliability", ev.Message.Reliability.Score),
				logger.Field("text", preview(ev.Message.Original)))
		case event.NegativeSignal:
			s.logger.Warn("Reliable negative signal",
				logger.Field("channel", ev.Message.Metadata.Channel),
				logger.Field("reliability", ev.Message.Reliability.Score),
				logger.Field("text", preview(ev.Message.Original)))
		case event.StockMention:
			s.logger.Info("Stock mention",
				logger.Field("channel", ev.Message.Metadata.Channel),
				logger.Field("stocks", ev.Message.Entities.Stocks))
		case event.Statistics:
			s.logger.Info("Processing statistics",
				logger.Field("total", ev.Stats.TotalProcessed),
				logger.Field("success_rate", ev.Stats.SuccessRate),
				logger.Field("errors", ev.Stats.Errors))
		case event.Error, event.ProcessingError:
			s.logger.Error("Pipeline error", logger.ErrorField(ev.Err))
		}
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= 50 {
		return text
	}
	return string(runes[:50]) + "..."
}

func (s *collectorService) writeScheduledReport() {
	report, err := s.coordinator.GenerateInvestmentPsychologyReport()
	if err != nil {
		s.logger.Warn("Skipping scheduled report", logger.ErrorField(err))
		return
	}

	if err := os.MkdirAll(s.cfg.Report.OutputDir, 0o755); err != nil {
		s.logger.Error("Failed to create report directory", logger.ErrorField(err))
		return
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal report", logger.ErrorField(err))
		return
	}

	name := fmt.Sprintf("psychology-report-%s.json", report.GeneratedAt.Format("20060102-150405"))
	path := filepath.Join(s.cfg.Report.OutputDir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		s.logger.Error("Failed to write report", logger.ErrorField(err))
		return
	}
	s.logger.Info("Report written", logger.Field("path", path))
}

// Status reports the coordinator's externally visible state.
func (s *collectorService) Status() entity.Status {
	return s.coordinator.Status()
}

// RecentMessages returns buffered messages matching the filters, newest first.
func (s *collectorService) RecentMessages(limit int, filters entity.MessageFilters) []entity.ScoredMessage {
	return s.coordinator.GetProcessedMessages(limit, filters)
}

// GenerateReport builds the full psychology report over the buffer.
func (s *collectorService) GenerateReport() (*entity.PsychologyReport, error) {
	return s.coordinator.GenerateInvestmentPsychologyReport()
}

// Registry exposes the channel registry for the delivery layer.
func (s *collectorService) Registry() *registry.Registry {
	return s.registry
}

// Stop shuts the pipeline down in reverse start order. Calling it again is
// a no-op.
func (s *collectorService) Stop() {
	s.stopOnce.Do(func() {
		if s.cron != nil {
			s.cron.Stop()
		}
		s.coordinator.Stop()
		if s.eventSub != nil {
			s.eventSub.Cancel()
		}
		s.wg.Wait()
		s.logger.Info("Collector service stopped")
	})
}
