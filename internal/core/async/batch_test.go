package async

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/core"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

type sleepyProcessor struct {
	delays  map[string]time.Duration
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (p *sleepyProcessor) ProcessFile(ctx context.Context, path string) core.Outcome {
	n := p.active.Add(1)
	defer p.active.Add(-1)
	for {
		cur := p.maxSeen.Load()
		if n <= cur || p.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(p.delays[path])
	rec := entity.NewRecord(path)
	rec.Metadata.ID = common.DocumentIDFromContext(ctx)
	return core.Outcome{Path: path, Record: rec}
}

func TestBatch_EmitsInInputOrder(t *testing.T) {
	paths := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}
	proc := &sleepyProcessor{delays: map[string]time.Duration{
		"a.pdf": 40 * time.Millisecond,
		"b.pdf": 30 * time.Millisecond,
		"c.pdf": 20 * time.Millisecond,
		"d.pdf": 0,
	}}
	b := NewBatch(proc, nil, WithWorkers(4))

	var order []string
	results, err := b.Run(context.Background(), paths, func(i int, out core.Outcome) error {
		if out.Path != paths[i] {
			t.Errorf("emit %d got %s", i, out.Path)
		}
		order = append(order, out.Path)
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fmt.Sprint(order) != fmt.Sprint(paths) {
		t.Errorf("order = %v, want %v", order, paths)
	}
	for i, r := range results {
		if r.Record.Metadata.ID != paths[i] {
			t.Errorf("result %d carries document id %q", i, r.Record.Metadata.ID)
		}
	}
	if proc.maxSeen.Load() < 2 {
		t.Errorf("expected concurrent workers, max active = %d", proc.maxSeen.Load())
	}
}

func TestBatch_SingleWorkerIsSequential(t *testing.T) {
	proc := &sleepyProcessor{delays: map[string]time.Duration{}}
	b := NewBatch(proc, nil)
	if _, err := b.Run(context.Background(), []string{"a", "b", "c"}, nil); err != nil {
		t.Fatal(err)
	}
	if proc.maxSeen.Load() != 1 {
		t.Errorf("max active = %d, want 1", proc.maxSeen.Load())
	}
}

func TestBatch_EmitErrorStops(t *testing.T) {
	proc := &sleepyProcessor{delays: map[string]time.Duration{}}
	b := NewBatch(proc, nil, WithWorkers(2))
	boom := errors.New("disk full")

	var emitted int
	_, err := b.Run(context.Background(), []string{"a", "b", "c", "d"}, func(i int, out core.Outcome) error {
		emitted++
		if i == 1 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if emitted != 2 {
		t.Errorf("emitted = %d, want 2", emitted)
	}
}

func TestBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := NewBatch(&sleepyProcessor{delays: map[string]time.Duration{}}, nil)
	if _, err := b.Run(ctx, []string{"a", "b"}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBatch_Empty(t *testing.T) {
	b := NewBatch(&sleepyProcessor{}, nil)
	results, err := b.Run(context.Background(), nil, nil)
	if err != nil || len(results) != 0 {
		t.Errorf("got %v, %v", results, err)
	}
}
