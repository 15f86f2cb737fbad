// Package scoreboard fetches a quiz's collections and keeps the last
// complete board for each quiz.
package scoreboard

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ollewikstrom/hackathon-mobile-results/internal/results"
)

// Fetcher is the read side of the quiz API.
type Fetcher interface {
	Quiz(ctx context.Context, quizID string) (results.Quiz, error)
	Teams(ctx context.Context, quizID string) ([]results.Team, error)
	Answers(ctx context.Context, quizID string) ([]results.Answer, error)
	Judgments(ctx context.Context, quizID string) ([]results.Judgment, error)
}

type FetchStatus int

const (
	Pending FetchStatus = iota
	Succeeded
	Failed
)

func (s FetchStatus) String() string {
	switch s {
	case Succeeded:
		return "success"
	case Failed:
		return "error"
	default:
		return "pending"
	}
}

type FetchState struct {
	Status FetchStatus
	Err    error
}

func (f *FetchState) settle(err error) {
	if err != nil {
		f.Status, f.Err = Failed, err
		return
	}
	f.Status = Succeeded
}

// UnknownError is shown when a fetch failed without a usable message.
const UnknownError = "Unknown error"

// Snapshot is the outcome of one round of fetches for a quiz.
type Snapshot struct {
	QuizID    string
	QuizName  string
	Teams     FetchState
	Answers   FetchState
	Judgments FetchState

	teams     []results.Team
	answers   []results.Answer
	judgments []results.Judgment
}

// Complete reports whether all three collections were fetched.
func (s *Snapshot) Complete() bool {
	return s.Teams.Status == Succeeded &&
		s.Answers.Status == Succeeded &&
		s.Judgments.Status == Succeeded
}

func (s *Snapshot) Pending() bool {
	return s.Teams.Status == Pending ||
		s.Answers.Status == Pending ||
		s.Judgments.Status == Pending
}

// Err returns the first fetch error, checking answers, then teams, then
// judgments.
func (s *Snapshot) Err() error {
	for _, f := range []FetchState{s.Answers, s.Teams, s.Judgments} {
		if f.Status == Failed {
			if f.Err == nil {
				return errors.New(UnknownError)
			}
			return f.Err
		}
	}
	return nil
}

// Message is the text shown in place of the board when a fetch failed.
func (s *Snapshot) Message() string {
	err := s.Err()
	if err == nil || err.Error() == "" {
		return UnknownError
	}
	return err.Error()
}

// Board joins the fetched collections. It returns nil unless the
// snapshot is complete.
func (s *Snapshot) Board() *results.Board {
	if !s.Complete() {
		return nil
	}
	return results.Aggregate(s.teams, s.judgments, s.answers)
}

// Load fetches the quiz's teams, answers and judgments concurrently.
// Each fetch settles on its own; one failing does not cancel the others.
// The quiz name is fetched alongside but never gates completeness.
func Load(ctx context.Context, f Fetcher, quizID string) *Snapshot {
	s := &Snapshot{QuizID: quizID, QuizName: quizID}

	var g errgroup.Group
	g.Go(func() error {
		teams, err := f.Teams(ctx, quizID)
		s.teams = teams
		s.Teams.settle(err)
		return nil
	})
	g.Go(func() error {
		answers, err := f.Answers(ctx, quizID)
		s.answers = answers
		s.Answers.settle(err)
		return nil
	})
	g.Go(func() error {
		judgments, err := f.Judgments(ctx, quizID)
		s.judgments = judgments
		s.Judgments.settle(err)
		return nil
	})
	g.Go(func() error {
		if q, err := f.Quiz(ctx, quizID); err == nil && q.Name != "" {
			s.QuizName = q.Name
		}
		return nil
	})
	_ = g.Wait()

	return s
}

// Roster is a quiz's team list. It is loaded on its own so the prompts
// can be shown before any answers or judgments exist.
type Roster struct {
	QuizID    string
	QuizName  string
	Teams     []results.Team
	UpdatedAt time.Time
}

// LoadRoster fetches only the quiz's teams, with the quiz name alongside.
// As in Load, a failed name lookup falls back to the quiz id.
func LoadRoster(ctx context.Context, f Fetcher, quizID string) (*Roster, error) {
	r := &Roster{QuizID: quizID, QuizName: quizID}

	var teamsErr error
	var g errgroup.Group
	g.Go(func() error {
		r.Teams, teamsErr = f.Teams(ctx, quizID)
		return nil
	})
	g.Go(func() error {
		if q, err := f.Quiz(ctx, quizID); err == nil && q.Name != "" {
			r.QuizName = q.Name
		}
		return nil
	})
	_ = g.Wait()

	if teamsErr != nil {
		return nil, teamsErr
	}
	return r, nil
}
