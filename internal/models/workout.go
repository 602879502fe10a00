package models

import (
	"fmt"
	"time"
)

// WorkoutStep durations are in seconds. RestDuration 0 means no rest follows.
type WorkoutStep struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Instruction  string `json:"instruction" yaml:"instruction"`
	Duration     int    `json:"duration" yaml:"duration"`
	RestDuration int    `json:"restDuration,omitempty" yaml:"restDuration"`
}

func (s WorkoutStep) HasRest() bool {
	return s.RestDuration > 0
}

type Phase int

const (
	PhaseActive Phase = iota
	PhaseResting
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseResting:
		return "resting"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// WorkoutSnapshot is a point-in-time view of a session.
type WorkoutSnapshot struct {
	SessionID        string        `json:"sessionId"`
	ExerciseName     string        `json:"exerciseName"`
	CurrentStepIndex int           `json:"currentStepIndex"`
	TotalSteps       int           `json:"totalSteps"`
	Phase            Phase         `json:"phase"`
	TimeRemaining    int           `json:"timeRemaining"`
	Running          bool          `json:"running"`
	Complete         bool          `json:"complete"`
	Finalized        bool          `json:"finalized"`
	Progress         float64       `json:"progress"`
	CurrentStep      *WorkoutStep  `json:"currentStep,omitempty"`
	NextStep         *WorkoutStep  `json:"nextStep,omitempty"`
	Steps            []WorkoutStep `json:"steps"`
}

// FinalizationRecord is the durable result of a finished workout.
type FinalizationRecord struct {
	ID              string        `json:"id"`
	Date            string        `json:"date"`
	StepsCount      int           `json:"steps"`
	ExerciseName    string        `json:"exerciseName"`
	DurationSeconds int           `json:"duration_seconds"`
	CompletedAt     time.Time     `json:"completedAt"`
	Steps           []WorkoutStep `json:"workoutSteps,omitempty"`
}

func (r FinalizationRecord) HistoryEntry() HistoryEntry {
	return HistoryEntry{
		Date:            r.Date,
		Steps:           r.StepsCount,
		ExerciseName:    r.ExerciseName,
		DurationSeconds: r.DurationSeconds,
	}
}

// DateLayout formats the calendar day of history entries.
const DateLayout = "2006-01-02"

// HistoryEntry is one element of the local workout history log.
type HistoryEntry struct {
	Date            string `json:"date"`
	Steps           int    `json:"steps"`
	ExerciseName    string `json:"exerciseName"`
	DurationSeconds int    `json:"duration_seconds"`
}

// DayProgress is the number of completed steps recorded on one calendar day.
type DayProgress struct {
	Date  string `json:"date"`
	Steps int    `json:"steps"`
}

// ProgressStats summarizes the history. ActiveDays counts the days of the last
// week with at least one workout; CurrentStreak counts consecutive active days
// ending today, or yesterday when nothing was done today yet.
type ProgressStats struct {
	TotalWorkouts int           `json:"totalWorkouts"`
	WeekSteps     int           `json:"weekSteps"`
	ActiveDays    int           `json:"activeDays"`
	CurrentStreak int           `json:"currentStreak"`
	LastSevenDays []DayProgress `json:"lastSevenDays"`
}
