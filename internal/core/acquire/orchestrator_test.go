package acquire

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingBackend struct {
	text  string
	err   error
	panic bool
	calls int
}

func (b *countingBackend) Extract(ctx context.Context, path string) (string, error) {
	b.calls++
	if b.panic {
		panic("boom")
	}
	return b.text, b.err
}

func TestAcquire_ShortCircuitsOnEmbeddedText(t *testing.T) {
	layout := &countingBackend{}
	raw := &countingBackend{err: errors.New("pdftotext: not found")}
	embedded := &countingBackend{text: "Total 100 50 10"}
	ocr := &countingBackend{text: "ocr text"}

	o := NewOrchestrator(map[Strategy]Backend{
		StrategyLayout:   layout,
		StrategyRaw:      raw,
		StrategyEmbedded: embedded,
		StrategyOCR:      ocr,
	})
	got := o.Acquire(context.Background(), "a.pdf")

	if ocr.calls != 0 {
		t.Errorf("ocr called %d times, want 0", ocr.calls)
	}
	if embedded.calls != 1 {
		t.Errorf("embedded called %d times, want 1", embedded.calls)
	}
	if got.Primary.Strategy != StrategyEmbedded || got.Primary.Text != "Total 100 50 10" {
		t.Errorf("primary = %+v", got.Primary)
	}
	if !got.SecondaryDuplicate || !got.Secondary.Empty() {
		t.Errorf("secondary should be dropped as duplicate, got %+v", got.Secondary)
	}
	if len(got.Attempts) != 3 {
		t.Errorf("attempts = %d, want 3", len(got.Attempts))
	}
}

func TestAcquire_KeepsDistinctSlots(t *testing.T) {
	o := NewOrchestrator(map[Strategy]Backend{
		StrategyLayout:   &countingBackend{text: "CA total 1 2 3"},
		StrategyRaw:      &countingBackend{text: "CA total\n1\n2\n3"},
		StrategyEmbedded: &countingBackend{text: "unused"},
	})
	got := o.Acquire(context.Background(), "a.pdf")
	if got.Primary.Strategy != StrategyLayout || got.Secondary.Strategy != StrategyRaw {
		t.Fatalf("strategies = %s / %s", got.Primary.Strategy, got.Secondary.Strategy)
	}
	if got.SecondaryDuplicate {
		t.Error("distinct texts must both be kept")
	}
	if got.Best() != "CA total 1 2 3" {
		t.Errorf("Best() = %q", got.Best())
	}
}

func TestAcquire_FailuresDegradeToEmpty(t *testing.T) {
	o := NewOrchestrator(map[Strategy]Backend{
		StrategyLayout:   &countingBackend{panic: true},
		StrategyRaw:      &countingBackend{err: errors.New("exit status 1")},
		StrategyEmbedded: &countingBackend{text: "   \n\t"},
	})
	got := o.Acquire(context.Background(), "a.pdf")
	if !got.Empty() {
		t.Fatalf("expected no text, got %+v", got)
	}
	if got.Best() != "" {
		t.Errorf("Best() = %q, want empty", got.Best())
	}
	if got.Primary.Strategy != StrategyEmbedded {
		t.Errorf("primary strategy = %s, want last tried", got.Primary.Strategy)
	}
}

func TestAcquire_SkipsUnregisteredOCR(t *testing.T) {
	o := NewOrchestrator(map[Strategy]Backend{
		StrategyLayout: &countingBackend{},
		StrategyRaw:    &countingBackend{},
	})
	got := o.Acquire(context.Background(), "a.pdf")
	for _, a := range got.Attempts {
		if a.Strategy == StrategyOCR || a.Strategy == StrategyEmbedded {
			t.Errorf("unexpected attempt %s", a.Strategy)
		}
	}
	if !got.Empty() {
		t.Error("expected empty texts")
	}
}

func TestExtract_TimeoutIsFailure(t *testing.T) {
	slow := BackendFunc(func(ctx context.Context, path string) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "late", nil
		}
	})
	o := NewOrchestrator(map[Strategy]Backend{StrategyLayout: slow}, WithTimeout(10*time.Millisecond))
	if got := o.Extract(context.Background(), "a.pdf", StrategyLayout); got != "" {
		t.Errorf("Extract() = %q, want empty on timeout", got)
	}
	if got := o.Extract(context.Background(), "a.pdf", StrategyOCR); got != "" {
		t.Errorf("Extract() for unregistered backend = %q", got)
	}
}

func TestAcquire_CustomSlots(t *testing.T) {
	layout := &countingBackend{text: "layout text"}
	raw := &countingBackend{text: "raw text"}
	o := NewOrchestrator(map[Strategy]Backend{
		StrategyLayout: layout,
		StrategyRaw:    raw,
	}, WithSlots([][]Strategy{{StrategyRaw}}))

	got := o.Acquire(context.Background(), "a.pdf")
	if got.Primary.Strategy != StrategyRaw || got.Primary.Text != "raw text" {
		t.Errorf("primary = %+v", got.Primary)
	}
	if !got.Secondary.Empty() || layout.calls != 0 {
		t.Errorf("single slot: secondary %+v, layout calls %d", got.Secondary, layout.calls)
	}
}
