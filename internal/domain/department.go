package domain

import "time"

// Department represents an organizational unit posts can be assigned to.
type Department struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
