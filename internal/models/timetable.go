package models

import "time"

// Optimization strategies selectable per generation run. Unknown values fall
// back to OptimizeNoConflicts.
const (
	OptimizeNoConflicts        = "no_conflicts"
	OptimizeFacultyPreference  = "faculty_preference"
	OptimizeRoomUtilization    = "room_utilization"
	OptimizeStudentConvenience = "student_convenience"
)

// Conflict types surfaced by the generator and the post-hoc detector.
const (
	ConflictTypeSlot       = "slot"
	ConflictTypeCourse     = "course"
	ConflictTypeFaculty    = "faculty"
	ConflictTypeClassroom  = "classroom"
	ConflictTypeConstraint = "constraint"
)

// ScheduleEntry assigns one credit-hour of a course to a (day, timeSlot,
// faculty, classroom) tuple. Course name, department and type are denormalized
// so rendering and scoring need no catalog lookups.
type ScheduleEntry struct {
	ID            string    `db:"id" json:"id"`
	CourseID      string    `db:"course_id" json:"course_id"`
	CourseName    string    `db:"course_name" json:"course_name"`
	FacultyID     string    `db:"faculty_id" json:"faculty_id"`
	FacultyName   string    `db:"faculty_name" json:"faculty_name"`
	ClassroomID   string    `db:"classroom_id" json:"classroom_id"`
	ClassroomName string    `db:"classroom_name" json:"classroom_name"`
	Day           string    `db:"day" json:"day"`
	TimeSlot      string    `db:"time_slot" json:"time_slot"`
	Department    string    `db:"department" json:"department"`
	CourseType    string    `db:"course_type" json:"course_type"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Conflict is a diagnostic record: either unmet demand reported by the
// generator or a violation found by the detector. Never fatal.
type Conflict struct {
	Type     string `json:"type"`
	CourseID string `json:"course_id,omitempty"`
	Course   string `json:"course,omitempty"`
	Resource string `json:"resource,omitempty"`
	Message  string `json:"message"`
	Day      string `json:"day,omitempty"`
	TimeSlot string `json:"time_slot,omitempty"`
}

// ConstraintConfig is the read-only constraint set for one generation run.
type ConstraintConfig struct {
	AvoidBackToBack      bool   `json:"avoid_back_to_back"`
	MaxHoursPerDay       int    `json:"max_hours_per_day"`
	MinGapBetweenClasses int    `json:"min_gap_between_classes"`
	PreferMorningSlots   bool   `json:"prefer_morning_slots"`
	AvoidEveningClasses  bool   `json:"avoid_evening_classes"`
	OptimizeFor          string `json:"optimize_for"`
}

// Utilization reports rough resource-usage health for a generated timetable.
type Utilization struct {
	Faculty float64 `json:"faculty"`
	Rooms   float64 `json:"rooms"`
	Overall float64 `json:"overall"`
}

// GenerationResult is the full output of one generator pass.
type GenerationResult struct {
	Timetable      []ScheduleEntry `json:"timetable"`
	Conflicts      []Conflict      `json:"conflicts"`
	ScheduledCount int             `json:"scheduled_count"`
	TotalCourses   int             `json:"total_courses"`
	Utilization    Utilization     `json:"utilization"`
}

// TimetableFilter captures supported filters for listing schedule entries.
type TimetableFilter struct {
	Day         string
	Department  string
	FacultyID   string
	ClassroomID string
	CourseID    string
}

// Empty reports whether no filter dimension is set.
func (f TimetableFilter) Empty() bool {
	return f.Day == "" && f.Department == "" && f.FacultyID == "" && f.ClassroomID == "" && f.CourseID == ""
}

// DefaultDays is the reference weekday grid.
func DefaultDays() []string {
	return []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
}

// DefaultTimeSlots is the reference nine-slot grid from 08:00 to 17:00.
func DefaultTimeSlots() []string {
	return []string{
		"08:00-09:00", "09:00-10:00", "10:00-11:00", "11:00-12:00",
		"12:00-13:00", "13:00-14:00", "14:00-15:00", "15:00-16:00", "16:00-17:00",
	}
}
