package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/feedback-service/internal/clock"
	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/events"
	"github.com/spec-kit/feedback-service/internal/poll"
	"github.com/spec-kit/feedback-service/internal/repository"
	apperrors "github.com/spec-kit/feedback-service/pkg/util"
)

// PollService applies poll votes and reads results. Vote changes are persisted
// at the voter-id level so concurrent ballots from different voters merge
// instead of overwriting each other.
type PollService struct {
	posts      repository.PostRepository
	dispatcher events.Dispatcher
	clock      clock.Clock
}

// NewPollService constructs the service.
func NewPollService(posts repository.PostRepository, dispatcher events.Dispatcher, clk clock.Clock) *PollService {
	return &PollService{posts: posts, dispatcher: dispatcher, clock: clk}
}

// PollView is the result payload for a poll read.
type PollView struct {
	Question       string
	MultipleChoice bool
	Stats          poll.Stats
	HasVoted       bool
	VotesOf        []int
}

// CastVote applies one vote through the poll engine and persists the diff.
func (s *PollService) CastVote(ctx context.Context, voterID, postID string, optionIndex int) (*PollView, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Poll == nil {
		return nil, apperrors.NewNotFound("poll", map[string]any{"post_id": postID})
	}

	before := *post.Poll
	now := s.clock.Now()
	after, err := poll.CastVote(before, optionIndex, voterID, now)
	if err != nil {
		return nil, err
	}

	removals, additions := voteDiff(before, after, voterID)
	if err := s.posts.ApplyVoteChanges(ctx, post.ID, removals, additions); err != nil {
		return nil, err
	}

	s.publishVote(ctx, post.ID, voterID, events.VoteCastPayload{
		OptionIndex: optionIndex,
		TotalVotes:  after.TotalVotes(),
		Retracted:   !after.Options[optionIndex].HasVote(voterID),
	})

	view := s.view(after, voterID, now)
	return &view, nil
}

// Results returns the tallied poll for a viewer.
func (s *PollService) Results(ctx context.Context, viewerID, postID string) (*PollView, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Poll == nil {
		return nil, apperrors.NewNotFound("poll", map[string]any{"post_id": postID})
	}
	view := s.view(*post.Poll, viewerID, s.clock.Now())
	return &view, nil
}

func (s *PollService) view(p domain.Poll, viewerID string, now time.Time) PollView {
	return PollView{
		Question:       p.Question,
		MultipleChoice: p.MultipleChoice,
		Stats:          poll.Summarize(p, now),
		HasVoted:       poll.HasVoted(p, viewerID),
		VotesOf:        poll.VotesOf(p, viewerID),
	}
}

func (s *PollService) publishVote(ctx context.Context, postID, voterID string, payload events.VoteCastPayload) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventVoteCast,
		PostID:    postID,
		Actor:     domain.UserActor(voterID),
		Timestamp: s.clock.Now(),
		Payload:   payload,
	})
}

// voteDiff reduces an engine result to the per-voter membership changes it
// implies. Only voterID's rows ever differ between before and after.
func voteDiff(before, after domain.Poll, voterID string) (removals, additions []repository.VoteChange) {
	for i := range before.Options {
		had := before.Options[i].HasVote(voterID)
		has := after.Options[i].HasVote(voterID)
		switch {
		case had && !has:
			removals = append(removals, repository.VoteChange{OptionIndex: i, VoterID: voterID})
		case !had && has:
			additions = append(additions, repository.VoteChange{OptionIndex: i, VoterID: voterID})
		}
	}
	return removals, additions
}
