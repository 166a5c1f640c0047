package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/feedback-service/internal/clock"
	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/repository"
)

var pollNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakePostRepo serves a single post and records vote changes.
type fakePostRepo struct {
	post      *domain.Post
	removals  []repository.VoteChange
	additions []repository.VoteChange
}

func (f *fakePostRepo) Create(context.Context, *domain.Post) error { return nil }
func (f *fakePostRepo) Update(context.Context, *domain.Post) error { return nil }

func (f *fakePostRepo) GetByID(_ context.Context, id string) (*domain.Post, error) {
	if f.post == nil || f.post.ID != id {
		return nil, pgx.ErrNoRows
	}
	return f.post, nil
}

func (f *fakePostRepo) ListWithFilter(context.Context, repository.PostFilter) ([]domain.Post, error) {
	return nil, nil
}

func (f *fakePostRepo) ListEscalatable(context.Context, int) ([]domain.Post, error) {
	return nil, nil
}

func (f *fakePostRepo) ApplyVoteChanges(_ context.Context, _ string, removals, additions []repository.VoteChange) error {
	f.removals = append(f.removals, removals...)
	f.additions = append(f.additions, additions...)
	// Mirror the diff into the served poll so repeated calls see fresh state.
	for _, change := range removals {
		votes := f.post.Poll.Options[change.OptionIndex].Votes
		out := votes[:0]
		for _, id := range votes {
			if id != change.VoterID {
				out = append(out, id)
			}
		}
		f.post.Poll.Options[change.OptionIndex].Votes = out
	}
	for _, change := range additions {
		f.post.Poll.Options[change.OptionIndex].Votes = append(f.post.Poll.Options[change.OptionIndex].Votes, change.VoterID)
	}
	return nil
}

func pollPost() *domain.Post {
	return &domain.Post{
		ID:     "post-1",
		Status: domain.PostStatusOpen,
		Poll: &domain.Poll{
			Question: "Lunch?",
			Options: []domain.PollOption{
				{Text: "Pizza"},
				{Text: "Salad"},
			},
		},
	}
}

func newPollService(post *domain.Post) (*PollService, *fakePostRepo) {
	repo := &fakePostRepo{post: post}
	return NewPollService(repo, nil, &clock.Fixed{Time: pollNow}), repo
}

func TestCastVotePersistsDiff(t *testing.T) {
	svc, repo := newPollService(pollPost())

	view, err := svc.CastVote(context.Background(), "alice", "post-1", 0)
	if err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	if len(repo.additions) != 1 || repo.additions[0] != (repository.VoteChange{OptionIndex: 0, VoterID: "alice"}) {
		t.Fatalf("additions = %v, want alice on option 0", repo.additions)
	}
	if len(repo.removals) != 0 {
		t.Fatalf("removals = %v, want none", repo.removals)
	}
	if !view.HasVoted || view.Stats.TotalVotes != 1 {
		t.Fatalf("view = %+v, want one vote by alice", view)
	}
}

func TestCastVoteMoveProducesRemovalAndAddition(t *testing.T) {
	post := pollPost()
	post.Poll.Options[0].Votes = []string{"alice"}
	svc, repo := newPollService(post)

	if _, err := svc.CastVote(context.Background(), "alice", "post-1", 1); err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	if len(repo.removals) != 1 || repo.removals[0].OptionIndex != 0 {
		t.Fatalf("removals = %v, want alice off option 0", repo.removals)
	}
	if len(repo.additions) != 1 || repo.additions[0].OptionIndex != 1 {
		t.Fatalf("additions = %v, want alice on option 1", repo.additions)
	}
}

func TestCastVoteLeavesOtherVotersAlone(t *testing.T) {
	post := pollPost()
	post.Poll.Options[0].Votes = []string{"bob", "carol"}
	svc, repo := newPollService(post)

	if _, err := svc.CastVote(context.Background(), "alice", "post-1", 0); err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	for _, change := range append(repo.removals, repo.additions...) {
		if change.VoterID != "alice" {
			t.Fatalf("diff touches voter %s", change.VoterID)
		}
	}
}

func TestCastVoteNoPoll(t *testing.T) {
	post := pollPost()
	post.Poll = nil
	svc, _ := newPollService(post)

	if _, err := svc.CastVote(context.Background(), "alice", "post-1", 0); err == nil {
		t.Fatal("CastVote() on post without poll succeeded")
	}
}

func TestResults(t *testing.T) {
	post := pollPost()
	post.Poll.Options[0].Votes = []string{"alice", "bob"}
	post.Poll.Options[1].Votes = []string{"carol"}
	svc, _ := newPollService(post)

	view, err := svc.Results(context.Background(), "alice", "post-1")
	if err != nil {
		t.Fatalf("Results() error = %v", err)
	}
	if view.Stats.TotalVotes != 3 {
		t.Fatalf("TotalVotes = %d, want 3", view.Stats.TotalVotes)
	}
	if !view.HasVoted {
		t.Fatal("alice should count as having voted")
	}
	if len(view.VotesOf) != 1 || view.VotesOf[0] != 0 {
		t.Fatalf("VotesOf = %v, want [0]", view.VotesOf)
	}
}

func TestVoteDiff(t *testing.T) {
	before := domain.Poll{Options: []domain.PollOption{
		{Votes: []string{"alice"}},
		{Votes: []string{"bob"}},
	}}
	after := domain.Poll{Options: []domain.PollOption{
		{Votes: nil},
		{Votes: []string{"bob", "alice"}},
	}}

	removals, additions := voteDiff(before, after, "alice")
	if len(removals) != 1 || removals[0].OptionIndex != 0 {
		t.Fatalf("removals = %v, want option 0", removals)
	}
	if len(additions) != 1 || additions[0].OptionIndex != 1 {
		t.Fatalf("additions = %v, want option 1", additions)
	}
}
