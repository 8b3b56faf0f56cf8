// Package domain defines the vehicle lookup value types, the navigation
// target shared by the selector and results views, and the sentinel errors
// used at the wizard's edges.
package domain

import "strconv"

// Make is a vehicle manufacturer as listed by vPIC.
type Make struct {
	ID   int    `json:"make_id"`
	Name string `json:"make_name"`
}

// Key returns the value the selector offers for this make.
func (m Make) Key() string { return strconv.Itoa(m.ID) }

// Model is a vehicle model produced by a make in a given model year.
type Model struct {
	MakeID   int    `json:"make_id"`
	MakeName string `json:"make_name"`
	ID       int    `json:"model_id"`
	Name     string `json:"model_name"`
}

// Selection is what the selector hands to the results view. Both fields are
// the exact strings the controls offered, so a trip through a URL path
// never reformats them.
type Selection struct {
	MakeID string `json:"make_id"`
	Year   string `json:"year"`
}

// Complete reports whether both halves of the selection are chosen.
func (s Selection) Complete() bool {
	return s.MakeID != "" && s.Year != ""
}
