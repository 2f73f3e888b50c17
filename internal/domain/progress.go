package domain

import (
	"math"

	"github.com/google/uuid"
)

// WeekRollup carries one week's share of a course progress breakdown.
type WeekRollup struct {
	WeekID     uuid.UUID `json:"week_id"`
	Title      string    `json:"title"`
	Completed  int       `json:"completed"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
}

type CourseRollup struct {
	CompletedLessons int          `json:"completed_lessons"`
	TotalLessons     int          `json:"total_lessons"`
	Percentage       float64      `json:"percentage"`
	Weeks            []WeekRollup `json:"weeks"`
}

// Rollup recomputes progress for a fully-loaded course from the set of
// completed lesson ids. Week percentage is completed/total lessons of the
// week; the course percentage weights weeks by lesson count, which is the
// same as completed/total over all lessons. Weeks with no lessons contribute
// nothing.
func Rollup(c *Course, completed map[uuid.UUID]bool) CourseRollup {
	out := CourseRollup{Weeks: make([]WeekRollup, 0, len(c.Weeks))}
	for _, w := range c.Weeks {
		wr := WeekRollup{WeekID: w.ID, Title: w.Title, Total: len(w.Lessons)}
		for _, l := range w.Lessons {
			if completed[l.ID] {
				wr.Completed++
			}
		}
		if wr.Total > 0 {
			wr.Percentage = round2(float64(wr.Completed) / float64(wr.Total) * 100)
		}
		out.CompletedLessons += wr.Completed
		out.TotalLessons += wr.Total
		out.Weeks = append(out.Weeks, wr)
	}
	if out.TotalLessons > 0 {
		out.Percentage = round2(float64(out.CompletedLessons) / float64(out.TotalLessons) * 100)
	}
	return out
}

// Complete reports whether every lesson in the course is done. An empty
// course is never complete.
func (r CourseRollup) Complete() bool {
	return r.TotalLessons > 0 && r.CompletedLessons == r.TotalLessons
}

// EnrollmentStatusFor maps a rollup onto the enrollment lifecycle.
func EnrollmentStatusFor(r CourseRollup) EnrollmentStatus {
	switch {
	case r.Complete():
		return EnrollmentCompleted
	case r.CompletedLessons > 0:
		return EnrollmentInProgress
	default:
		return EnrollmentNotStarted
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
