package domain

import "time"

// Poll is an optional structured vote embedded in a post.
type Poll struct {
	Question       string
	Options        []PollOption
	MultipleChoice bool
	EndDate        *time.Time
}

// PollOption holds an answer and the set of voter ids behind it.
type PollOption struct {
	Text  string
	Votes []string
}

// HasVote reports whether voterID is in this option's vote set.
func (o PollOption) HasVote(voterID string) bool {
	for _, id := range o.Votes {
		if id == voterID {
			return true
		}
	}
	return false
}

// TotalVotes sums vote-set sizes across all options.
func (p Poll) TotalVotes() int {
	total := 0
	for _, opt := range p.Options {
		total += len(opt.Votes)
	}
	return total
}

// Voters returns the union of all option vote sets.
func (p Poll) Voters() []string {
	seen := make(map[string]struct{})
	var voters []string
	for _, opt := range p.Options {
		for _, id := range opt.Votes {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			voters = append(voters, id)
		}
	}
	return voters
}

// HasEnded reports whether the poll is closed to new votes at the given time.
func (p Poll) HasEnded(now time.Time) bool {
	return p.EndDate != nil && now.After(*p.EndDate)
}

// Clone deep-copies the poll so engine operations never alias vote sets.
func (p Poll) Clone() Poll {
	out := p
	out.Options = make([]PollOption, len(p.Options))
	for i, opt := range p.Options {
		votes := make([]string, len(opt.Votes))
		copy(votes, opt.Votes)
		out.Options[i] = PollOption{Text: opt.Text, Votes: votes}
	}
	if p.EndDate != nil {
		end := *p.EndDate
		out.EndDate = &end
	}
	return out
}
