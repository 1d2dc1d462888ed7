package domain

import "time"

// Unit is one concrete physical unit of a project (an apartment, a floor,
// a house in a development). GENERAL activities track progress without one.
type Unit struct {
	ID         string
	ProjectID  string
	Name       string
	OrderIndex int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
