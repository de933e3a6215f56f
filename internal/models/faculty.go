package models

import (
	"time"

	"github.com/lib/pq"
)

// Faculty represents a teaching staff member. Availability holds the weekdays
// the member may teach ("Mon".."Fri" or full day names); MaxHours caps the
// number of weekly slots the scheduler may assign.
type Faculty struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Department   string         `db:"department" json:"department"`
	Availability pq.StringArray `db:"availability" json:"availability"`
	MaxHours     int            `db:"max_hours" json:"max_hours"`
	Expertise    pq.StringArray `db:"expertise" json:"expertise"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// FacultyFilter captures supported filters for listing faculty.
type FacultyFilter struct {
	Department string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
