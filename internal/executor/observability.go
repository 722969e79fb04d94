package executor

import (
	"io"
	"log/slog"

	"github.com/courseforge/courseforge/internal/domain"
)

// DeployEvent records one entity reaching a terminal status, or a batch
// boundary when LocalID is empty.
type DeployEvent struct {
	RunID     string
	Batch     int
	LocalID   string
	Kind      domain.EntityKind
	Status    domain.DeployStatus
	Action    domain.DeployAction
	Attempts  int
	LatencyMs int64
	Reason    string
}

// Observer receives deployment progress events for logging and metrics.
type Observer interface {
	OnDeployEvent(event DeployEvent)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnDeployEvent(DeployEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes deployment events to w as slog text lines.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) OnDeployEvent(event DeployEvent) {
	if event.LocalID == "" {
		o.logger.Info("deploy_batch", "run", event.RunID, "batch", event.Batch)
		return
	}
	attrs := []any{
		"run", event.RunID,
		"batch", event.Batch,
		"entity", event.LocalID,
		"kind", event.Kind,
		"status", event.Status,
		"action", event.Action,
		"attempts", event.Attempts,
		"latency_ms", event.LatencyMs,
	}
	if event.Reason != "" {
		attrs = append(attrs, "reason", event.Reason)
	}
	if event.Status == domain.StatusFailed {
		o.logger.Error("deploy_entity", attrs...)
		return
	}
	o.logger.Info("deploy_entity", attrs...)
}
