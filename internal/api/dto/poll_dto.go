package dto

import "time"

// CreatePollRequest payload embedded in post creation.
type CreatePollRequest struct {
	Question       string     `json:"question"`
	Options        []string   `json:"options"`
	MultipleChoice bool       `json:"multiple_choice"`
	EndDate        *time.Time `json:"end_date,omitempty"`
}

// CastVoteRequest payload.
type CastVoteRequest struct {
	OptionIndex int `json:"option_index"`
}

// PollOptionResponse is the tally for one option.
type PollOptionResponse struct {
	Text       string  `json:"text"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// PollResponse is the tallied poll with the viewer's vote state.
type PollResponse struct {
	Question       string               `json:"question"`
	MultipleChoice bool                 `json:"multiple_choice"`
	TotalVotes     int                  `json:"total_votes"`
	Options        []PollOptionResponse `json:"options"`
	HasEnded       bool                 `json:"has_ended"`
	HasVoted       bool                 `json:"has_voted"`
	VotesOf        []int                `json:"votes_of,omitempty"`
}
