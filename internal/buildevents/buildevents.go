// Package buildevents publishes a JSON event to Kafka each time a build
// run completes. It is entirely optional: with no brokers configured,
// Publish is a no-op and build completion is unaffected.
package buildevents

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/builder"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/resilience"
)

// publishTimeout bounds a single publish attempt so a stuck broker never
// blocks build completion indefinitely.
const publishTimeout = 5 * time.Second

// Event is the JSON payload published for a completed build run.
type Event struct {
	Mode        string  `json:"mode"`
	DatasetPath string  `json:"dataset_path"`
	Threads     int     `json:"threads"`
	Result      *Result `json:"result,omitempty"`
	Error       string  `json:"error,omitempty"`
	At          string  `json:"at"`
}

// Result mirrors builder.Result for JSON serialisation.
type Result struct {
	ScannedFiles int   `json:"scanned_files"`
	IndexedFiles int   `json:"indexed_files"`
	SkippedFiles int   `json:"skipped_files"`
	Errors       int   `json:"errors"`
	ElapsedMs    int64 `json:"elapsed_ms"`
}

// Publisher publishes build-completion events. A nil producer makes
// every publish a no-op, so the publisher is safe to use whether or
// not Kafka is configured.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// New wraps producer. producer may be nil to disable publishing.
func New(producer *kafka.Producer) *Publisher {
	return &Publisher{
		producer: producer,
		logger:   slog.Default().With("component", "build-events"),
	}
}

// Enabled reports whether a Kafka producer is configured.
func (p *Publisher) Enabled() bool {
	return p != nil && p.producer != nil
}

// PublishBuildCompleted publishes the outcome of a build run. Any
// publish failure is logged and swallowed — a down Kafka broker never
// fails a build.
func (p *Publisher) PublishBuildCompleted(ctx context.Context, mode, datasetPath string, threads int, result *builder.Result, buildErr error, at time.Time) {
	if !p.Enabled() {
		return
	}

	evt := Event{
		Mode:        mode,
		DatasetPath: datasetPath,
		Threads:     threads,
		At:          at.UTC().Format(time.RFC3339),
	}
	if result != nil {
		evt.Result = &Result{
			ScannedFiles: result.ScannedFiles,
			IndexedFiles: result.IndexedFiles,
			SkippedFiles: result.SkippedFiles,
			Errors:       result.Errors,
			ElapsedMs:    result.ElapsedMs,
		}
	}
	if buildErr != nil {
		evt.Error = buildErr.Error()
	}

	err := resilience.WithTimeout(ctx, publishTimeout, "build-events-publish", func(timeoutCtx context.Context) error {
		return p.producer.Publish(timeoutCtx, kafka.Event{Key: datasetPath, Value: evt})
	})
	if err != nil {
		p.logger.Warn("failed to publish build-completed event", "error", err)
	}
}
