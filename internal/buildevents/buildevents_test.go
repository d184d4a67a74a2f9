package buildevents

import (
	"context"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/builder"
)

func TestDisabledPublisherIsNoOp(t *testing.T) {
	p := New(nil)
	if p.Enabled() {
		t.Fatal("publisher with nil producer should report disabled")
	}

	// Must not panic even though no producer is configured.
	p.PublishBuildCompleted(context.Background(), "full", "/data", 4, &builder.Result{IndexedFiles: 3}, nil, time.Unix(0, 0))
}
