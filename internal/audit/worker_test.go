package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

type memorySaver struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (m *memorySaver) SaveEvent(_ context.Context, e models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memorySaver) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Kind
	}
	return out
}

// slowSaver blocks each save until release is closed and refuses to write
// through a cancelled context.
type slowSaver struct {
	memorySaver
	started chan struct{}
	release chan struct{}
}

func (s *slowSaver) SaveEvent(ctx context.Context, e models.Event) error {
	close(s.started)
	<-s.release
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.memorySaver.SaveEvent(ctx, e)
}

func TestNewEvent(t *testing.T) {
	e := NewEvent("g1", "alice", models.EventExpenseCreated, WithSubject("e1"), WithSummary("Groceries 12.00"))

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "g1", e.GroupID)
	assert.Equal(t, "alice", e.ActorID)
	assert.Equal(t, models.EventExpenseCreated, e.Kind)
	assert.Equal(t, "e1", e.SubjectID)
	assert.Equal(t, "Groceries 12.00", e.Summary)
	assert.NotZero(t, e.CreatedAt)
}

func TestWorker_SavesQueuedEventsOnShutdown(t *testing.T) {
	saver := &memorySaver{}
	w := NewWorker(saver, 10)

	// Queue before starting so everything is drained by Shutdown.
	w.Record(NewEvent("g1", "a", models.EventGroupCreated))
	w.Record(NewEvent("g1", "a", models.EventMemberAdded))
	w.Start()
	w.Record(NewEvent("g1", "a", models.EventExpenseCreated))
	w.Shutdown()

	assert.Equal(t, []string{models.EventGroupCreated, models.EventMemberAdded, models.EventExpenseCreated}, saver.kinds())
}

func TestWorker_DropsWhenFull(t *testing.T) {
	saver := &memorySaver{}
	w := NewWorker(saver, 1)

	w.Record(NewEvent("g1", "a", models.EventGroupCreated))
	w.Record(NewEvent("g1", "a", models.EventGroupRenamed))
	w.Start()
	w.Shutdown()

	require.Len(t, saver.kinds(), 1)
	assert.Equal(t, models.EventGroupCreated, saver.kinds()[0])
}

func TestWorker_SaveErrorDoesNotStop(t *testing.T) {
	saver := &memorySaver{err: errors.New("db down")}
	w := NewWorker(saver, 4)

	w.Start()
	w.Record(NewEvent("g1", "a", models.EventGroupCreated))
	w.Shutdown()

	assert.Empty(t, saver.kinds())
}

func TestWorker_InFlightSaveSurvivesShutdown(t *testing.T) {
	saver := &slowSaver{started: make(chan struct{}), release: make(chan struct{})}
	w := NewWorker(saver, 4)
	w.Start()
	w.Record(NewEvent("g1", "a", models.EventSettlementCreated))
	<-saver.started

	done := make(chan struct{})
	go func() {
		w.Shutdown()
		close(done)
	}()
	require.Eventually(t, func() bool { return w.ctx.Err() != nil }, time.Second, time.Millisecond)
	close(saver.release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return")
	}
	assert.Equal(t, []string{models.EventSettlementCreated}, saver.kinds())
}
