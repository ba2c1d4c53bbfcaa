package s0_data

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/logger"
)

func records(symbols ...string) []contracts.StockRecord {
	out := make([]contracts.StockRecord, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, contracts.StockRecord{Name: s + " Ltd", Symbol: s})
	}
	return out
}

func TestStore_EmptyBeforeInstall(t *testing.T) {
	store := NewStore(logger.NewNop())

	assert.Nil(t, store.Current())
	assert.Zero(t, store.Generation())
}

func TestStore_InstallIncrementsGeneration(t *testing.T) {
	store := NewStore(logger.NewNop())

	first := store.Install(records("A", "B"), "test")
	second := store.Install(records("C"), "test")

	assert.Equal(t, uint64(1), first.Generation)
	assert.Equal(t, uint64(2), second.Generation)
	assert.Same(t, second, store.Current())

	// Readers holding the old snapshot are unaffected
	assert.Equal(t, 2, first.Len())
	_, ok := first.FindBySymbol("A")
	assert.True(t, ok)
}

func TestStore_InstallCopiesInput(t *testing.T) {
	store := NewStore(logger.NewNop())
	input := records("A")

	snap := store.Install(input, "test")
	input[0].Symbol = "CHANGED"

	assert.Equal(t, "A", snap.At(0).Symbol)
}

func TestStore_Subscribe(t *testing.T) {
	store := NewStore(logger.NewNop())
	events, cancel := store.Subscribe()
	defer cancel()

	store.Install(records("A", "B", "C"), "file:x.csv")

	select {
	case ev := <-events:
		assert.Equal(t, uint64(1), ev.Generation)
		assert.Equal(t, 3, ev.RecordCount)
		assert.Equal(t, "file:x.csv", ev.Source)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestStore_SlowSubscriberSeesLatest(t *testing.T) {
	store := NewStore(logger.NewNop())
	events, cancel := store.Subscribe()
	defer cancel()

	store.Install(records("A"), "test")
	store.Install(records("A"), "test")
	store.Install(records("A"), "test")

	ev := <-events
	assert.Equal(t, uint64(3), ev.Generation)
}

func TestStore_CancelClosesChannel(t *testing.T) {
	store := NewStore(logger.NewNop())
	events, cancel := store.Subscribe()

	cancel()
	cancel()

	_, open := <-events
	assert.False(t, open)
	assert.NotPanics(t, func() { store.Install(records("A"), "test") })
}

func TestStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	store := NewStore(logger.NewNop())
	store.Install(records("A"), "test")

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				snap := store.Current()
				if !assert.NotNil(t, snap) {
					return
				}
				// generation n always has exactly n records
				assert.Equal(t, int(snap.Generation), snap.Len())
			}
		}()
	}

	for n := 2; n <= 50; n++ {
		syms := make([]string, n)
		for i := range syms {
			syms[i] = "S"
		}
		store.Install(records(syms...), "test")
	}
	wg.Wait()
}
