package models

import (
	"time"

	"github.com/lib/pq"
)

// Classroom types. Only the Lab type is meaningful to the scheduler's
// type-compatibility rule; the rest are descriptive.
const (
	ClassroomTypeLectureHall = "Lecture Hall"
	ClassroomTypeLab         = "Lab"
	ClassroomTypeClassroom   = "Classroom"
	ClassroomTypeSeminarHall = "Seminar Hall"
)

// DepartmentGeneral marks a classroom usable by any department.
const DepartmentGeneral = "General"

// Classroom represents a bookable room.
type Classroom struct {
	ID         string         `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Capacity   int            `db:"capacity" json:"capacity"`
	Type       string         `db:"type" json:"type"`
	Department string         `db:"department" json:"department"`
	Facilities pq.StringArray `db:"facilities" json:"facilities"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// ClassroomFilter captures supported filters for listing classrooms.
type ClassroomFilter struct {
	Department  string
	Type        string
	MinCapacity int
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
