package scoreboard

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ollewikstrom/hackathon-mobile-results/internal/results"
)

// ErrClosed is returned once a tracker has been torn down.
var ErrClosed = errors.New("scoreboard closed")

// View is what the pages render for one quiz. Views are replaced
// wholesale and never mutated after they are published.
type View struct {
	QuizID    string
	QuizName  string
	Teams     []results.Team
	Board     *results.Board
	UpdatedAt time.Time
}

type Options struct {
	// TTL is how long a view is served before the next access refreshes
	// it. Zero refreshes on every access.
	TTL time.Duration
	// FetchTimeout bounds one round of fetches.
	FetchTimeout time.Duration
	// IdleTimeout is how long a registry keeps a tracker nobody asked
	// for. Defaults to ten minutes.
	IdleTimeout time.Duration
	Logger      *slog.Logger
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 20 * time.Second
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 10 * time.Minute
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Tracker keeps the last complete view of one quiz.
type Tracker struct {
	quizID  string
	fetcher Fetcher
	opts    Options

	// ctx is canceled by Close so in-flight fetches stop.
	ctx    context.Context
	cancel context.CancelFunc

	view     atomic.Pointer[View]
	roster   atomic.Pointer[Roster]
	failed   atomic.Pointer[Snapshot]
	closed   atomic.Bool
	lastUsed atomic.Int64
	flight   singleflight.Group
}

func NewTracker(quizID string, f Fetcher, opts Options) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Tracker{
		quizID:  quizID,
		fetcher: f,
		opts:    opts.withDefaults(),
		ctx:     ctx,
		cancel:  cancel,
	}
	t.touch()
	return t
}

func (t *Tracker) QuizID() string { return t.quizID }

// Current returns the last complete view, or nil if none exists yet.
func (t *Tracker) Current() *View { return t.view.Load() }

// Loaded reports whether the tracker ever published a view or a roster.
func (t *Tracker) Loaded() bool {
	return t.view.Load() != nil || t.roster.Load() != nil
}

// LastUsed is when Get or Roster was last called.
func (t *Tracker) LastUsed() time.Time {
	return time.Unix(0, t.lastUsed.Load())
}

func (t *Tracker) touch() { t.lastUsed.Store(t.opts.Now().UnixNano()) }

// Refresh runs one round of fetches. The view is replaced only when all
// three collections arrived; otherwise the previous view stays and the
// snapshot explains why. Results arriving after Close are discarded.
// Concurrent callers share one round.
func (t *Tracker) Refresh(ctx context.Context) (*View, *Snapshot, error) {
	if t.closed.Load() {
		return nil, nil, ErrClosed
	}

	ch := t.flight.DoChan("refresh", func() (any, error) {
		fctx, cancel := context.WithTimeout(t.ctx, t.opts.FetchTimeout)
		defer cancel()

		snap := Load(fctx, t.fetcher, t.quizID)
		if t.closed.Load() {
			return snap, ErrClosed
		}

		if board := snap.Board(); board != nil {
			now := t.opts.Now()
			t.view.Store(&View{
				QuizID:    t.quizID,
				QuizName:  snap.QuizName,
				Teams:     snap.teams,
				Board:     board,
				UpdatedAt: now,
			})
			t.roster.Store(&Roster{
				QuizID:    t.quizID,
				QuizName:  snap.QuizName,
				Teams:     snap.teams,
				UpdatedAt: now,
			})
			t.failed.Store(nil)
			t.opts.Logger.Info("scoreboard refreshed",
				"quiz_id", t.quizID,
				"questions", board.TotalQuestions,
				"teams", len(snap.teams),
			)
		} else {
			t.failed.Store(snap)
			t.opts.Logger.Warn("scoreboard refresh incomplete",
				"quiz_id", t.quizID,
				"answers", snap.Answers.Status.String(),
				"teams", snap.Teams.Status.String(),
				"judgments", snap.Judgments.Status.String(),
				"error", snap.Message(),
			)
		}
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return t.view.Load(), nil, ctx.Err()
	case res := <-ch:
		snap, _ := res.Val.(*Snapshot)
		if res.Err != nil {
			return nil, snap, res.Err
		}
		return t.view.Load(), snap, nil
	}
}

// Get returns a view no older than the TTL, refreshing when needed. When
// the latest round failed it returns the snapshot's error together with
// whatever stale view is still held.
func (t *Tracker) Get(ctx context.Context) (*View, error) {
	t.touch()
	if v := t.view.Load(); v != nil && t.fresh(v.UpdatedAt) && t.failed.Load() == nil {
		return v, nil
	}

	v, snap, err := t.Refresh(ctx)
	if err != nil {
		return v, err
	}
	if !snap.Complete() {
		return v, snap.Err()
	}
	return v, nil
}

// Roster returns the quiz's team list no older than the TTL. It needs
// only the teams fetch, so failing answers or judgments do not affect it.
func (t *Tracker) Roster(ctx context.Context) (*Roster, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	t.touch()
	if r := t.roster.Load(); r != nil && t.fresh(r.UpdatedAt) {
		return r, nil
	}

	ch := t.flight.DoChan("roster", func() (any, error) {
		fctx, cancel := context.WithTimeout(t.ctx, t.opts.FetchTimeout)
		defer cancel()

		r, err := LoadRoster(fctx, t.fetcher, t.quizID)
		if t.closed.Load() {
			return nil, ErrClosed
		}
		if err != nil {
			t.opts.Logger.Warn("roster refresh failed", "quiz_id", t.quizID, "error", err)
			return nil, err
		}
		r.UpdatedAt = t.opts.Now()
		t.roster.Store(r)
		return r, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		r, _ := res.Val.(*Roster)
		return r, nil
	}
}

func (t *Tracker) fresh(updated time.Time) bool {
	return t.opts.TTL > 0 && t.opts.Now().Sub(updated) < t.opts.TTL
}

// Close tears the tracker down. In-flight fetches are canceled and their
// results dropped.
func (t *Tracker) Close() {
	t.closed.Store(true)
	t.cancel()
}
