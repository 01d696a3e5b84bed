package main

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luzi-app/luzi/internal/cli"
	"github.com/luzi-app/luzi/internal/model"
)

func TestSessionEvents_AmbiguousSignalsAndRecordsCandidates(t *testing.T) {
	events := newSessionEvents(cli.NewNotifier(io.Discard))
	draft := model.ExpenseDraft{
		Amount:      1500,
		Description: "Sushi",
		CategoryID:  model.CatchAllCategoryID,
		Date:        time.Now(),
	}
	candidates := model.CategoryCandidates{
		{Category: model.Category{ID: "1", Name: "Comida"}, Confidence: 0.45},
		{Category: model.Category{ID: "2", Name: "Transporte"}, Confidence: 0.41},
	}

	events.AmbiguousCategory(draft, candidates)

	select {
	case <-events.awaitingCh:
	default:
		t.Fatal("ambiguous notification should signal the awaiting channel")
	}
	require.Len(t, events.lastCandidates(), 2)
	assert.Equal(t, "1", events.lastCandidates()[0].Category.ID)
}

func TestNotify_NonBlockingWhenFull(t *testing.T) {
	events := newSessionEvents(cli.NewNotifier(io.Discard))

	// A second signal before the first is consumed must not block.
	events.signalIdle()
	events.signalIdle()

	select {
	case <-events.idleCh:
	default:
		t.Fatal("idle signal should be pending")
	}
	select {
	case <-events.idleCh:
		t.Fatal("coalesced signal should not be delivered twice")
	default:
	}
}
