package models

import "time"

// Course types supported by the scheduler. Lab courses may only be placed in
// Lab classrooms and vice versa.
const (
	CourseTypeLecture  = "Lecture"
	CourseTypeLab      = "Lab"
	CourseTypeTutorial = "Tutorial"
)

// Course represents an offered course. Credits equals the number of weekly
// one-hour slots the scheduler must place for it.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	Credits      int       `db:"credits" json:"credits"`
	Department   string    `db:"department" json:"department"`
	Type         string    `db:"type" json:"type"`
	StudentCount int       `db:"student_count" json:"student_count"`
	MaxStudents  int       `db:"max_students" json:"max_students"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Department string
	Type       string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
