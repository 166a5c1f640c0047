// Package poll implements validation and vote tallying for polls embedded in
// posts. All operations are pure: they take a poll value, never touch storage,
// and return an updated copy for the caller to persist.
package poll

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spec-kit/feedback-service/internal/domain"
)

const (
	// MinOptions and MaxOptions bound the option list length.
	MinOptions = 2
	MaxOptions = 10
)

var (
	// ErrPollEnded indicates the poll's end date has passed.
	ErrPollEnded = errors.New("poll has ended")
	// ErrInvalidOption indicates the option index is out of range.
	ErrInvalidOption = errors.New("poll option index out of range")
)

// ValidationResult reports whether a poll definition is acceptable.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// Validate checks a poll definition against the structural rules.
func Validate(p domain.Poll, now time.Time) ValidationResult {
	var errs []string
	if strings.TrimSpace(p.Question) == "" {
		errs = append(errs, "question must not be empty")
	}
	if len(p.Options) < MinOptions || len(p.Options) > MaxOptions {
		errs = append(errs, fmt.Sprintf("polls need between %d and %d options", MinOptions, MaxOptions))
	}
	for i, opt := range p.Options {
		if strings.TrimSpace(opt.Text) == "" {
			errs = append(errs, fmt.Sprintf("option %d has empty text", i))
		}
	}
	if p.EndDate != nil && !p.EndDate.After(now) {
		errs = append(errs, "end date must be in the future")
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// CastVote applies a vote by voterID for the option at optionIndex and returns
// the updated poll. For single-choice polls a voter holds at most one active
// vote: voting the same option again toggles it off, voting a different option
// moves the vote. For multiple-choice polls each option toggles independently.
func CastVote(p domain.Poll, optionIndex int, voterID string, now time.Time) (domain.Poll, error) {
	if p.HasEnded(now) {
		return domain.Poll{}, ErrPollEnded
	}
	if optionIndex < 0 || optionIndex >= len(p.Options) {
		return domain.Poll{}, ErrInvalidOption
	}

	out := p.Clone()
	if p.MultipleChoice {
		out.Options[optionIndex].Votes = toggle(out.Options[optionIndex].Votes, voterID)
		return out, nil
	}

	if out.Options[optionIndex].HasVote(voterID) {
		out.Options[optionIndex].Votes = remove(out.Options[optionIndex].Votes, voterID)
		return out, nil
	}
	for i := range out.Options {
		out.Options[i].Votes = remove(out.Options[i].Votes, voterID)
	}
	out.Options[optionIndex].Votes = append(out.Options[optionIndex].Votes, voterID)
	return out, nil
}

// OptionStats is the tally for one option.
type OptionStats struct {
	Text       string
	Votes      int
	Percentage float64
}

// Stats is the derived result set for a poll.
type Stats struct {
	TotalVotes int
	Options    []OptionStats
	HasEnded   bool
}

// Summarize tallies the poll. Percentages are rounded to one decimal and all
// zero when nobody has voted.
func Summarize(p domain.Poll, now time.Time) Stats {
	total := p.TotalVotes()
	stats := Stats{
		TotalVotes: total,
		Options:    make([]OptionStats, len(p.Options)),
		HasEnded:   p.HasEnded(now),
	}
	for i, opt := range p.Options {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(len(opt.Votes))/float64(total)*1000) / 10
		}
		stats.Options[i] = OptionStats{Text: opt.Text, Votes: len(opt.Votes), Percentage: pct}
	}
	return stats
}

// HasVoted reports whether voterID appears in any option's vote set.
func HasVoted(p domain.Poll, voterID string) bool {
	for _, opt := range p.Options {
		if opt.HasVote(voterID) {
			return true
		}
	}
	return false
}

// VotesOf returns the option indexes voterID currently holds.
func VotesOf(p domain.Poll, voterID string) []int {
	var indexes []int
	for i, opt := range p.Options {
		if opt.HasVote(voterID) {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

func toggle(votes []string, voterID string) []string {
	for _, id := range votes {
		if id == voterID {
			return remove(votes, voterID)
		}
	}
	return append(votes, voterID)
}

func remove(votes []string, voterID string) []string {
	out := votes[:0]
	for _, id := range votes {
		if id != voterID {
			out = append(out, id)
		}
	}
	return out
}
