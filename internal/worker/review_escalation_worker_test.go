package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stubEscalator ghi lại tham số của lần quét gần nhất
type stubEscalator struct {
	calls       int
	gotNow      int64
	gotRenotify time.Duration
	err         error
	panicValue  interface{}
}

func (s *stubEscalator) EscalateOverdue(ctx context.Context, now int64, renotifyInterval time.Duration) (int, error) {
	s.calls++
	s.gotNow = now
	s.gotRenotify = renotifyInterval
	if s.panicValue != nil {
		panic(s.panicValue)
	}
	return 2, s.err
}

func newTestWorker(escalator *stubEscalator, now func() time.Time) *ReviewEscalationWorker {
	return &ReviewEscalationWorker{
		escalator:        escalator,
		interval:         time.Minute,
		renotifyInterval: 24 * time.Hour,
		now:              now,
	}
}

// Đồng hồ cố định của worker phải đi thẳng vào lần quét
func TestRunOnceUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	escalator := &stubEscalator{}
	w := newTestWorker(escalator, func() time.Time { return fixed })

	w.runOnce(context.Background())

	assert.Equal(t, 1, escalator.calls)
	assert.Equal(t, fixed.UnixMilli(), escalator.gotNow)
	assert.Equal(t, 24*time.Hour, escalator.gotRenotify)
}

func TestRunOnceSurvivesEscalatorError(t *testing.T) {
	escalator := &stubEscalator{err: errors.New("mongo timeout")}
	w := newTestWorker(escalator, time.Now)

	assert.NotPanics(t, func() {
		w.runOnce(context.Background())
	})
	assert.Equal(t, 1, escalator.calls)
}

func TestRunOnceRecoversFromPanic(t *testing.T) {
	escalator := &stubEscalator{panicValue: "dữ liệu chiến dịch hỏng"}
	w := newTestWorker(escalator, time.Now)

	assert.NotPanics(t, func() {
		w.runOnce(context.Background())
	})
	assert.Equal(t, 1, escalator.calls)
}
