package mqtt

import (
	"context"
	"log/slog"

	"github.com/nugget/econet-bridge/internal/econet"
	"github.com/nugget/econet-bridge/internal/metrics"
)

// Result reports one telemetry sweep: the rendered payload per
// published metric, and the metrics skipped because their value was
// absent from the document or the publish failed.
type Result struct {
	Published map[string]string
	Skipped   []string
}

// Publisher fans one telemetry snapshot out across the metric table,
// publishing each resolvable value to its state topic. Failures are
// isolated per metric: an extraction miss or publish error never
// affects sibling metrics or the cycle as a whole.
type Publisher struct {
	broker      Broker
	table       []metrics.Spec
	topicPrefix string
	logger      *slog.Logger
}

// NewPublisher creates a Publisher over the given metric table.
func NewPublisher(broker Broker, table []metrics.Spec, topicPrefix string, logger *slog.Logger) *Publisher {
	return &Publisher{
		broker:      broker,
		table:       table,
		topicPrefix: topicPrefix,
		logger:      logger,
	}
}

// PublishAll sweeps the table in order against doc. Absent values are
// logged at warning level with the metric's path; transport errors at
// error level. Telemetry values are published non-retained. After the
// sweep one summary line lists every published name→payload pair. A
// sweep that publishes nothing is a warning, never an error.
func (p *Publisher) PublishAll(ctx context.Context, doc econet.Document) Result {
	res := Result{Published: make(map[string]string)}

	for _, spec := range p.table {
		value, ok := econet.Resolve(doc, spec.Path)
		if !ok {
			p.logger.Warn("metric value not found in document",
				"metric", spec.Name, "path", spec.Path.String())
			res.Skipped = append(res.Skipped, spec.Name)
			continue
		}

		payload := metrics.Render(spec.Name, value)
		topic := p.topicPrefix + spec.Name

		if err := p.broker.Publish(ctx, topic, []byte(payload), false); err != nil {
			p.logger.Error("metric publish failed",
				"metric", spec.Name, "topic", topic, "error", err)
			res.Skipped = append(res.Skipped, spec.Name)
			continue
		}
		res.Published[spec.Name] = payload
	}

	if len(res.Published) == 0 {
		p.logger.Warn("no metrics published this cycle", "skipped", len(res.Skipped))
	} else {
		p.logger.Info("metrics published",
			"count", len(res.Published),
			"values", res.Published)
	}

	return res
}
