// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"

	"github.com/danielhkuo/meal-window/window"
)

// MealType ordinals index Preferences and Summary counts; do not reorder.
type MealType int

const (
	Breakfast MealType = iota
	Lunch
	Snacks
)

// MealTypes in ordinal order
var MealTypes = [...]MealType{Breakfast, Lunch, Snacks}

func (m MealType) String() string {
	switch m {
	case Breakfast:
		return "breakfast"
	case Lunch:
		return "lunch"
	case Snacks:
		return "snacks"
	default:
		return "unknown"
	}
}

// Preferences holds one bit per MealType
type Preferences [len(MealTypes)]bool

func (p Preferences) Wants(m MealType) bool {
	return p[m]
}

type preferencesJSON struct {
	Breakfast bool `json:"breakfast"`
	Lunch     bool `json:"lunch"`
	Snacks    bool `json:"snacks"`
}

func (p Preferences) MarshalJSON() ([]byte, error) {
	return json.Marshal(preferencesJSON{
		Breakfast: p[Breakfast],
		Lunch:     p[Lunch],
		Snacks:    p[Snacks],
	})
}

func (p *Preferences) UnmarshalJSON(b []byte) error {
	var v preferencesJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Preferences{v.Breakfast, v.Lunch, v.Snacks}
	return nil
}

// Role constants
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Request types

// SubmitConfirmationRequest is the fixed-shape submission body.
// Pointers let the handler reject a body that omits a meal.
type SubmitConfirmationRequest struct {
	Date      string `json:"date"`
	Breakfast *bool  `json:"breakfast"`
	Lunch     *bool  `json:"lunch"`
	Snacks    *bool  `json:"snacks"`
}

type SetMenuRequest struct {
	Breakfast []string `json:"breakfast"`
	Lunch     []string `json:"lunch"`
	Snacks    []string `json:"snacks"`
}

// Response types

type SubmitConfirmationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type WindowResponse struct {
	Date       window.Window `json:"date"`
	Day        string        `json:"day"`
	CutoffHour int           `json:"cutoff_hour"`
	ClosesAt   time.Time     `json:"closes_at"`
}

type MyConfirmationResponse struct {
	Date         window.Window `json:"date"`
	Submitted    bool          `json:"submitted"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
	SubmittedAgo string        `json:"submitted_ago,omitempty"`
}

type MyHistoryResponse struct {
	From          window.Window  `json:"from"`
	To            window.Window  `json:"to"`
	Confirmations []Confirmation `json:"confirmations"`
}

type SummaryResponse struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Snacks    int `json:"snacks"`
	Total     int `json:"total"`
}

type DailySummaryResponse struct {
	Date window.Window `json:"date"`
	SummaryResponse
}

// Domain types

// Confirmation is immutable once stored
type Confirmation struct {
	ID          string        `json:"id"`
	EmployeeID  string        `json:"employee_id"`
	Window      window.Window `json:"date"`
	Preferences Preferences   `json:"preferences"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

// Summary is scoped to exactly one window
type Summary struct {
	Window window.Window
	Counts [len(MealTypes)]int
	Total  int
}

func (s Summary) Count(m MealType) int {
	return s.Counts[m]
}

func (s Summary) Response() SummaryResponse {
	return SummaryResponse{
		Breakfast: s.Counts[Breakfast],
		Lunch:     s.Counts[Lunch],
		Snacks:    s.Counts[Snacks],
		Total:     s.Total,
	}
}

// Menu is the catalog's view of one day; dish names are never interpreted
type Menu struct {
	Day       string   `json:"day"`
	Breakfast []string `json:"breakfast"`
	Lunch     []string `json:"lunch"`
	Snacks    []string `json:"snacks"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
