// Package issue defines the materialized issue record consumed by the
// filtering and ranking engine, plus the in-memory store the API feeds.
// The engine never fetches issues from a remote source itself.
package issue

import "time"

// Reactions summarizes reaction counts by kind, mirroring the shape of
// the GitHub reaction rollup. Missing kinds are simply zero.
type Reactions struct {
	PlusOne  int `json:"+1"`
	MinusOne int `json:"-1"`
	Laugh    int `json:"laugh"`
	Confused int `json:"confused"`
	Heart    int `json:"heart"`
	Hooray   int `json:"hooray"`
	Rocket   int `json:"rocket"`
	Eyes     int `json:"eyes"`
}

// Total returns the reaction count across all kinds.
func (r Reactions) Total() int {
	return r.PlusOne + r.MinusOne + r.Laugh + r.Confused +
		r.Heart + r.Hooray + r.Rocket + r.Eyes
}

// Positive returns the count of encouraging reactions only: thumbs-up,
// heart, hooray, and rocket.
func (r Reactions) Positive() int {
	return r.PlusOne + r.Heart + r.Hooray + r.Rocket
}

// Issue is one repository issue.
type Issue struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Author    string    `json:"author"`
	Assignee  string    `json:"assignee,omitempty"`
	Labels    []string  `json:"labels"`
	Comments  int       `json:"comments"`
	Reactions Reactions `json:"reactions"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	HTMLURL   string    `json:"html_url,omitempty"`
}

// HasLabel reports whether the issue carries the label, ignoring case.
func (i Issue) HasLabel(label string) bool {
	for _, l := range i.Labels {
		if equalFold(l, label) {
			return true
		}
	}
	return false
}
