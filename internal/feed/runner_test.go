package feed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/evaluator"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/repository"
)

type stubSource struct {
	readings []PatientReading
}

func (s *stubSource) Next() []PatientReading { return s.readings }

type capturePublisher struct {
	batch *models.Batch
	err   error
	calls int
}

func (p *capturePublisher) Publish(b *models.Batch) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	p.batch = b
	return "cds_scorecards_20260115T103000Z.json", nil
}

type countingPublisher struct {
	calls int32
}

func (p *countingPublisher) Publish(b *models.Batch) (string, error) {
	atomic.AddInt32(&p.calls, 1)
	return "cds_scorecards_20260115T103000Z.json", nil
}

type stubNotifier struct {
	err      error
	calls    int
	lastName string
}

func (n *stubNotifier) BatchPublished(_ context.Context, _ *models.Batch, name string) error {
	n.calls++
	n.lastName = name
	return n.err
}

type stubAuditor struct {
	err     error
	entries []*repository.BatchAuditEntry
}

func (a *stubAuditor) Insert(_ context.Context, entry *repository.BatchAuditEntry) error {
	a.entries = append(a.entries, entry)
	return a.err
}

func newTestBuilder(t *testing.T) *evaluator.ScorecardBuilder {
	t.Helper()

	classifier, err := evaluator.NewRiskClassifier(evaluator.DefaultThresholds())
	require.NoError(t, err)
	engine, err := evaluator.NewRecommendationEngine(evaluator.DefaultCatalog(), 8)
	require.NoError(t, err)

	return evaluator.NewScorecardBuilder(classifier, engine, evaluator.TempAdjustConfig{Max: 1.0, Medium: 0.5})
}

func readingWith(id string, v float64) PatientReading {
	probs := make(map[models.Category]*float64, len(models.Categories()))
	for _, cat := range models.Categories() {
		p := v
		probs[cat] = &p
	}
	return PatientReading{PatientID: id, Probabilities: probs, TempAdjust: 0.3}
}

func TestRunCycle_PublishesBatch(t *testing.T) {
	source := &stubSource{readings: []PatientReading{
		readingWith("LIVE-001", 0.2),
		readingWith("LIVE-002", 0.8),
	}}
	publisher := &capturePublisher{}
	notifier := &stubNotifier{}
	auditor := &stubAuditor{}
	runner := NewRunner(source, newTestBuilder(t), publisher, notifier, auditor, zap.NewNop())

	err := runner.RunCycle(context.Background())

	require.NoError(t, err)
	require.NotNil(t, publisher.batch)
	require.Len(t, publisher.batch.Items, 2)
	assert.Equal(t, "LIVE-001", publisher.batch.Items[0].PatientID)
	assert.Equal(t, "LIVE-002", publisher.batch.Items[1].PatientID)
	assert.Equal(t, time.UTC, publisher.batch.GeneratedAt.Location())
	assert.Zero(t, publisher.batch.GeneratedAt.Nanosecond())

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "cds_scorecards_20260115T103000Z.json", notifier.lastName)

	require.Len(t, auditor.entries, 1)
	assert.Equal(t, "cds_scorecards_20260115T103000Z.json", auditor.entries[0].BatchName)
	assert.Equal(t, 2, auditor.entries[0].Patients)
	assert.Equal(t, 1, auditor.entries[0].HighRisk)
}

func TestRunCycle_SkipsInvalidReadings(t *testing.T) {
	bad := readingWith("LIVE-002", 1.5)
	empty := readingWith("", 0.2)
	source := &stubSource{readings: []PatientReading{
		readingWith("LIVE-001", 0.2),
		bad,
		empty,
		readingWith("LIVE-004", 0.4),
	}}
	publisher := &capturePublisher{}
	runner := NewRunner(source, newTestBuilder(t), publisher, nil, nil, zap.NewNop())

	err := runner.RunCycle(context.Background())

	require.NoError(t, err)
	require.NotNil(t, publisher.batch)
	require.Len(t, publisher.batch.Items, 2)
	assert.Equal(t, "LIVE-001", publisher.batch.Items[0].PatientID)
	assert.Equal(t, "LIVE-004", publisher.batch.Items[1].PatientID)
}

func TestRunCycle_PublishFailureFailsCycle(t *testing.T) {
	source := &stubSource{readings: []PatientReading{readingWith("LIVE-001", 0.2)}}
	publisher := &capturePublisher{err: errors.New("disk full")}
	notifier := &stubNotifier{}
	runner := NewRunner(source, newTestBuilder(t), publisher, notifier, nil, zap.NewNop())

	err := runner.RunCycle(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "publish batch")
	assert.Equal(t, 0, notifier.calls)
}

func TestRunCycle_NotifierFailureDoesNotFailCycle(t *testing.T) {
	source := &stubSource{readings: []PatientReading{readingWith("LIVE-001", 0.2)}}
	notifier := &stubNotifier{err: errors.New("redis down")}
	auditor := &stubAuditor{}
	runner := NewRunner(source, newTestBuilder(t), &capturePublisher{}, notifier, auditor, zap.NewNop())

	err := runner.RunCycle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
	assert.Len(t, auditor.entries, 1)
}

func TestRunCycle_AuditorFailureDoesNotFailCycle(t *testing.T) {
	source := &stubSource{readings: []PatientReading{readingWith("LIVE-001", 0.2)}}
	auditor := &stubAuditor{err: errors.New("connection refused")}
	runner := NewRunner(source, newTestBuilder(t), &capturePublisher{}, nil, auditor, zap.NewNop())

	err := runner.RunCycle(context.Background())

	require.NoError(t, err)
	assert.Len(t, auditor.entries, 1)
}

func TestRun_ZeroIntervalRunsOnce(t *testing.T) {
	source := &stubSource{readings: []PatientReading{readingWith("LIVE-001", 0.2)}}
	publisher := &capturePublisher{}
	runner := NewRunner(source, newTestBuilder(t), publisher, nil, nil, zap.NewNop())

	err := runner.Run(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 1, publisher.calls)
}

func TestRun_ZeroIntervalReturnsCycleError(t *testing.T) {
	source := &stubSource{readings: []PatientReading{readingWith("LIVE-001", 0.2)}}
	publisher := &capturePublisher{err: errors.New("disk full")}
	runner := NewRunner(source, newTestBuilder(t), publisher, nil, nil, zap.NewNop())

	err := runner.Run(context.Background(), 0)

	assert.ErrorContains(t, err, "publish batch")
}

func TestRun_LoopStopsOnCancel(t *testing.T) {
	source := &stubSource{readings: []PatientReading{readingWith("LIVE-001", 0.2)}}
	publisher := &countingPublisher{}
	runner := NewRunner(source, newTestBuilder(t), publisher, nil, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, 5*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&publisher.calls) >= 2
	}, 2*time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}
