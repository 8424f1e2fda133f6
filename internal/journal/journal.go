// Package journal owns the journal state and runs every state transition:
// submissions, loading, live preview, reset and streak expiry.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/beanstalk/internal/domain"
	"github.com/MrSnakeDoc/beanstalk/internal/logger"
	"github.com/MrSnakeDoc/beanstalk/internal/metrics"
	"github.com/MrSnakeDoc/beanstalk/internal/store"
)

// ErrEmptyDeed is returned by Submit when the text is blank after trimming.
var ErrEmptyDeed = errors.New("deed text is empty")

// DefaultPersistTimeout bounds the gateway writes of one transition.
const DefaultPersistTimeout = 5 * time.Second

// PreviewMinLength is the rune count the text must exceed before a live
// classification is offered.
const PreviewMinLength = 3

// Clock returns the current time. Only the outer surfaces hold one; every
// journal operation takes now explicitly.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// State is the in-memory journal state.
type State struct {
	Ledger domain.Ledger
	Streak domain.Streak
}

// Snapshot is a read-only view of the state.
type Snapshot struct {
	Entries     []domain.Entry `json:"entries"`
	TotalPoints int            `json:"total_points"`
	Streak      int            `json:"streak"`
	LastLogDate domain.Date    `json:"last_log_date"`
	Hot         bool           `json:"hot"`
}

// Result is the outcome of a successful submission.
// Warnings lists persistence failures; the in-memory state is kept anyway.
type Result struct {
	Entry    domain.Entry `json:"entry"`
	Snapshot Snapshot     `json:"snapshot"`
	Warnings []string     `json:"warnings,omitempty"`
}

type Journal struct {
	mu sync.Mutex

	classifier *domain.Classifier
	gateway    store.Gateway
	log        logger.Logger
	metrics    *metrics.Metrics
	newID      func() (string, error)
	loc        *time.Location
	timeout    time.Duration

	state State
	// streakDirty is set while the persisted streak keys lag behind state.
	streakDirty bool
}

type Option func(*Journal)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log logger.Logger) Option {
	return func(j *Journal) { j.log = log }
}

// WithMetrics sets the collectors updated on every transition.
func WithMetrics(m *metrics.Metrics) Option {
	return func(j *Journal) { j.metrics = m }
}

// WithIDFunc replaces the entry id generator.
func WithIDFunc(fn func() (string, error)) Option {
	return func(j *Journal) { j.newID = fn }
}

// WithLocation sets the time zone calendar days are computed in.
// Defaults to the location of each now passed in.
func WithLocation(loc *time.Location) Option {
	return func(j *Journal) { j.loc = loc }
}

// WithPersistTimeout bounds the gateway writes made by one operation.
// Non-positive values keep DefaultPersistTimeout.
func WithPersistTimeout(d time.Duration) Option {
	return func(j *Journal) {
		if d > 0 {
			j.timeout = d
		}
	}
}

// New creates an empty journal. Call Load to restore persisted state.
func New(classifier *domain.Classifier, gateway store.Gateway, opts ...Option) *Journal {
	j := &Journal{
		classifier: classifier,
		gateway:    gateway,
		log:        logger.NewNop(),
		newID:      newUUIDv7,
		timeout:    DefaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// persistContext returns the context for gateway writes. It ignores the
// caller's cancellation and expires after the persist timeout.
func (j *Journal) persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), j.timeout)
}

func (j *Journal) today(now time.Time) domain.Date {
	if j.loc != nil {
		now = now.In(j.loc)
	}
	return domain.DateOf(now)
}

// Submit classifies rawText, records it as a new entry dated now and
// persists the result.
func (j *Journal) Submit(ctx context.Context, rawText string, now time.Time) (Result, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		j.metrics.Rejected("empty")
		return Result{}, ErrEmptyDeed
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	id, err := j.newID()
	if err != nil {
		return Result{}, fmt.Errorf("generate entry id: %w", err)
	}

	cat := j.classifier.Classify(text)
	streak, streakChanged := j.state.Streak.RecordActivity(j.today(now))
	entry := domain.NewEntry(id, text, cat, now)

	j.state = State{
		Ledger: j.state.Ledger.Append(entry),
		Streak: streak,
	}

	pctx, cancel := j.persistContext(ctx)
	defer cancel()

	warnings := j.persistLedger(pctx)
	if streakChanged || j.streakDirty {
		warnings = append(warnings, j.persistStreak(pctx)...)
	}

	j.metrics.Deed(string(cat.ID), cat.Points)
	j.publish()

	j.log.Info("deed recorded",
		logger.String("id", entry.ID),
		logger.String("category", string(entry.Category)),
		logger.Int("points", entry.Points),
		logger.Int("streak", streak.Current),
	)

	return Result{
		Entry:    entry,
		Snapshot: j.snapshot(),
		Warnings: warnings,
	}, nil
}

// Preview classifies text without side effects. ok is false while the text
// is PreviewMinLength runes or shorter.
func (j *Journal) Preview(text string) (domain.Category, bool) {
	if utf8.RuneCountInString(text) <= PreviewMinLength {
		return domain.Category{}, false
	}
	return j.classifier.Classify(text), true
}

// Categories returns the category table in priority order, General last.
func (j *Journal) Categories() []domain.Category {
	return j.classifier.Categories()
}

// Category returns the definition of id.
func (j *Journal) Category(id domain.CategoryID) (domain.Category, bool) {
	return j.classifier.Lookup(id)
}

// Snapshot returns a copy of the current state.
func (j *Journal) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.snapshot()
}

func (j *Journal) snapshot() Snapshot {
	return Snapshot{
		Entries:     j.state.Ledger.Entries(),
		TotalPoints: j.state.Ledger.TotalPoints(),
		Streak:      j.state.Streak.Current,
		LastLogDate: j.state.Streak.LastLogDate,
		Hot:         j.state.Streak.Hot(),
	}
}

// Load replaces the in-memory state with the persisted one, then zeroes a
// lapsed streak and writes the zero back. Malformed values are treated as
// absent. Only a failing gateway read is returned as an error.
func (j *Journal) Load(ctx context.Context, now time.Time) error {
	values := make(map[string]string, 3)
	for _, key := range store.Keys() {
		v, ok, err := j.gateway.Load(ctx, key)
		if err != nil {
			j.metrics.PersistenceFailed("load")
			return fmt.Errorf("load %s: %w", key, err)
		}
		if ok {
			values[key] = v
		}
	}

	loaded := domain.Streak{
		Current:     j.decodeStreak(values[store.KeyStreak]),
		LastLogDate: j.decodeDate(values[store.KeyLastDate]),
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	validated := loaded.ValidateOnLoad(j.today(now))
	j.state = State{
		Ledger: domain.NewLedger(j.decodeEntries(values[store.KeyDeeds])),
		Streak: validated,
	}
	j.streakDirty = false

	if validated != loaded {
		j.log.Info("streak lapsed", logger.Int("was", loaded.Current), logger.String("last_log_date", loaded.LastLogDate.String()))
		pctx, cancel := j.persistContext(ctx)
		defer cancel()
		j.persistStreakCount(pctx)
	}

	j.publish()
	j.log.Info("journal loaded",
		logger.Int("entries", j.state.Ledger.Len()),
		logger.Int("streak", j.state.Streak.Current),
	)
	return nil
}

// Expire re-validates the streak against now, as Load does, and persists a
// lapsed streak. It reports whether the streak changed.
func (j *Journal) Expire(ctx context.Context, now time.Time) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	validated := j.state.Streak.ValidateOnLoad(j.today(now))
	if validated == j.state.Streak {
		return false
	}

	j.log.Info("streak expired", logger.Int("was", j.state.Streak.Current))
	j.state.Streak = validated
	pctx, cancel := j.persistContext(ctx)
	defer cancel()
	j.persistStreakCount(pctx)
	j.publish()
	return true
}

// Reset clears the ledger and the streak, then every persisted key. The
// in-memory state is cleared even when the gateway fails.
// Callers are responsible for confirming with the user first.
func (j *Journal) Reset(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.state = State{}
	j.streakDirty = false
	j.publish()

	pctx, cancel := j.persistContext(ctx)
	defer cancel()
	if err := j.gateway.ClearAll(pctx); err != nil {
		j.metrics.PersistenceFailed("clear")
		j.log.Warn("failed to clear persisted journal", logger.Error(err))
		return fmt.Errorf("clear journal: %w", err)
	}
	j.log.Info("journal reset")
	return nil
}

func (j *Journal) publish() {
	j.metrics.State(j.state.Streak.Current, j.state.Ledger.TotalPoints(), j.state.Ledger.Len())
}

// persistence helpers, called with j.mu held

func (j *Journal) save(ctx context.Context, key, value string) []string {
	if err := j.gateway.Save(ctx, key, value); err != nil {
		j.metrics.PersistenceFailed("save")
		j.log.Warn("failed to persist journal state", logger.String("key", key), logger.Error(err))
		return []string{fmt.Errorf("persist %s: %w", key, err).Error()}
	}
	return nil
}

func (j *Journal) persistLedger(ctx context.Context) []string {
	data, err := json.Marshal(j.state.Ledger.Entries())
	if err != nil {
		return []string{fmt.Errorf("encode %s: %w", store.KeyDeeds, err).Error()}
	}
	return j.save(ctx, store.KeyDeeds, string(data))
}

// persistStreak writes both streak keys. A failure leaves the streak dirty
// so the next submission writes them again, even on the same day.
func (j *Journal) persistStreak(ctx context.Context) []string {
	warnings := j.save(ctx, store.KeyStreak, strconv.Itoa(j.state.Streak.Current))
	warnings = append(warnings, j.save(ctx, store.KeyLastDate, j.state.Streak.LastLogDate.String())...)
	j.streakDirty = len(warnings) > 0
	return warnings
}

func (j *Journal) persistStreakCount(ctx context.Context) {
	if w := j.save(ctx, store.KeyStreak, strconv.Itoa(j.state.Streak.Current)); len(w) > 0 {
		j.streakDirty = true
	}
}

// decoding helpers; malformed data decodes to the zero value

func (j *Journal) decodeEntries(raw string) []domain.Entry {
	if raw == "" {
		return nil
	}
	var entries []domain.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		j.log.Warn("ignoring malformed deeds", logger.Error(err))
		return nil
	}
	return entries
}

func (j *Journal) decodeStreak(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		j.log.Warn("ignoring malformed streak", logger.String("value", raw))
		return 0
	}
	return n
}

func (j *Journal) decodeDate(raw string) domain.Date {
	if raw == "" {
		return domain.Date{}
	}
	d, err := domain.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		j.log.Warn("ignoring malformed last date", logger.String("value", raw), logger.Error(err))
		return domain.Date{}
	}
	return d
}
