package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/smart-classroom/scs-api/internal/models"
	appErrors "github.com/smart-classroom/scs-api/pkg/errors"
)

const defaultMaxPlacementAttempts = 2000

// facultyHoursBaseline is the weekly-hours denominator used by the
// utilization report.
const facultyHoursBaseline = 20

// bookingKey identifies one resource reservation in the weekly grid.
type bookingKey struct {
	ResourceID string
	Day        string
	TimeSlot   string
}

// timetableEngine is the working set for a single generation pass: the input
// snapshot plus booking state built up while placing courses. Everything here
// is local to one run; nothing outlives the call.
type timetableEngine struct {
	courses     []models.Course
	faculty     []models.Faculty
	classrooms  []models.Classroom
	days        []string
	timeSlots   []string
	constraints models.ConstraintConfig
	maxAttempts int

	facultyBooked map[bookingKey]bool
	roomBooked    map[bookingKey]bool
	facultyWeekly map[string]int
	roomUsage     map[string]int
	deptDayCount  map[string]int

	entries   []models.ScheduleEntry
	conflicts []models.Conflict
	attempts  int
}

func newTimetableEngine(
	courses []models.Course,
	faculty []models.Faculty,
	classrooms []models.Classroom,
	days, timeSlots []string,
	constraints models.ConstraintConfig,
	maxAttempts int,
) *timetableEngine {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxPlacementAttempts
	}
	return &timetableEngine{
		courses:       courses,
		faculty:       faculty,
		classrooms:    classrooms,
		days:          days,
		timeSlots:     timeSlots,
		constraints:   constraints,
		maxAttempts:   maxAttempts,
		facultyBooked: make(map[bookingKey]bool),
		roomBooked:    make(map[bookingKey]bool),
		facultyWeekly: make(map[string]int),
		roomUsage:     make(map[string]int),
		deptDayCount:  make(map[string]int),
		entries:       make([]models.ScheduleEntry, 0),
		conflicts:     make([]models.Conflict, 0),
	}
}

// Run executes the single-pass heuristic: courses in priority order, each
// credit-hour placed independently in the highest-scoring feasible grid cell.
// Infeasibility is accumulated as conflicts, never returned as an error.
func (e *timetableEngine) Run() (*models.GenerationResult, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	for _, course := range e.prioritizedCourses() {
		placed := 0
		for hour := 0; hour < course.Credits; hour++ {
			// Every unplaced hour must surface as a conflict, including
			// hours the attempt budget never got to scan.
			if e.attempts >= e.maxAttempts {
				e.conflicts = append(e.conflicts, models.Conflict{
					Type:     models.ConflictTypeSlot,
					CourseID: course.ID,
					Course:   course.Name,
					Message:  "Placement attempt limit reached before this slot could be scheduled",
				})
				continue
			}
			cell, ok := e.bestCell(course)
			if !ok {
				e.conflicts = append(e.conflicts, models.Conflict{
					Type:     models.ConflictTypeSlot,
					CourseID: course.ID,
					Course:   course.Name,
					Message:  "No suitable slot found with current constraints",
				})
				continue
			}
			e.commit(course, cell)
			placed++
		}
		if placed == 0 {
			e.conflicts = append(e.conflicts, models.Conflict{
				Type:     models.ConflictTypeCourse,
				CourseID: course.ID,
				Course:   course.Name,
				Message:  "Could not schedule any slots for this course",
			})
		}
	}

	return &models.GenerationResult{
		Timetable:      e.entries,
		Conflicts:      e.conflicts,
		ScheduledCount: len(e.entries),
		TotalCourses:   len(e.courses),
		Utilization:    e.utilization(),
	}, nil
}

func (e *timetableEngine) validate() error {
	if len(e.courses) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "courses must not be empty")
	}
	if len(e.faculty) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "faculty must not be empty")
	}
	if len(e.classrooms) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "classrooms must not be empty")
	}
	if len(e.days) == 0 || len(e.timeSlots) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "days and timeSlots must not be empty")
	}
	for _, course := range e.courses {
		if course.Credits < 1 {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %s has non-positive credits", course.ID))
		}
	}
	return nil
}

// prioritizedCourses orders the working copy: Lab courses first (fewest
// suitable rooms, must be placed before the grid fills), then descending
// credits, then descending student count. Stable so equal courses keep their
// input order.
func (e *timetableEngine) prioritizedCourses() []models.Course {
	sorted := make([]models.Course, len(e.courses))
	copy(sorted, e.courses)
	sort.SliceStable(sorted, func(i, j int) bool {
		labI := sorted[i].Type == models.CourseTypeLab
		labJ := sorted[j].Type == models.CourseTypeLab
		if labI != labJ {
			return labI
		}
		if sorted[i].Credits != sorted[j].Credits {
			return sorted[i].Credits > sorted[j].Credits
		}
		return sorted[i].StudentCount > sorted[j].StudentCount
	})
	return sorted
}

// candidateCell is a feasible placement: grid position plus the first feasible
// faculty and classroom found for it.
type candidateCell struct {
	day       string
	slotIndex int
	faculty   models.Faculty
	classroom models.Classroom
}

// bestCell enumerates the full day-major grid, applies the constraint
// pre-filters, and returns the highest-scoring feasible cell. Ties resolve to
// the first cell found (strict-improvement comparison, stable iteration).
func (e *timetableEngine) bestCell(course models.Course) (candidateCell, bool) {
	var best candidateCell
	bestScore := -1

	for _, day := range e.days {
		for slotIndex := range e.timeSlots {
			e.attempts++

			if !e.slotPassesFilters(slotIndex) {
				continue
			}

			faculty, ok := e.firstAvailableFaculty(course, day, slotIndex)
			if !ok {
				continue
			}
			classroom, ok := e.firstSuitableClassroom(course, day, slotIndex)
			if !ok {
				continue
			}

			if e.constraints.AvoidBackToBack &&
				(e.adjacentBooked(e.facultyBooked, faculty.ID, day, slotIndex) ||
					e.adjacentBooked(e.roomBooked, classroom.ID, day, slotIndex)) {
				continue
			}

			score := e.scoreCell(course, faculty, classroom, day, slotIndex)
			if score > bestScore {
				bestScore = score
				best = candidateCell{day: day, slotIndex: slotIndex, faculty: faculty, classroom: classroom}
			}
		}
	}

	return best, bestScore >= 0
}

// slotPassesFilters applies the pre-filters that remove grid columns from
// consideration entirely.
func (e *timetableEngine) slotPassesFilters(slotIndex int) bool {
	if e.constraints.PreferMorningSlots && slotIndex > 4 {
		return false
	}
	if e.constraints.AvoidEveningClasses && slotIndex > 6 {
		return false
	}
	if gap := e.constraints.MinGapBetweenClasses; gap > 0 && slotIndex%(gap+1) != 0 {
		return false
	}
	return true
}

func (e *timetableEngine) firstAvailableFaculty(course models.Course, day string, slotIndex int) (models.Faculty, bool) {
	slot := e.timeSlots[slotIndex]
	for _, f := range e.faculty {
		if f.Department != course.Department {
			continue
		}
		if !facultyAvailableOn(f, day) {
			continue
		}
		if e.facultyBooked[bookingKey{ResourceID: f.ID, Day: day, TimeSlot: slot}] {
			continue
		}
		if f.MaxHours > 0 && e.facultyWeekly[f.ID] >= f.MaxHours {
			continue
		}
		return f, true
	}
	return models.Faculty{}, false
}

func (e *timetableEngine) firstSuitableClassroom(course models.Course, day string, slotIndex int) (models.Classroom, bool) {
	slot := e.timeSlots[slotIndex]
	for _, c := range e.classrooms {
		if c.Capacity < course.StudentCount {
			continue
		}
		if e.roomBooked[bookingKey{ResourceID: c.ID, Day: day, TimeSlot: slot}] {
			continue
		}
		isLabRoom := c.Type == models.ClassroomTypeLab
		isLabCourse := course.Type == models.CourseTypeLab
		if isLabRoom != isLabCourse {
			continue
		}
		if c.Department != models.DepartmentGeneral && c.Department != course.Department {
			continue
		}
		return c, true
	}
	return models.Classroom{}, false
}

// adjacentBooked reports whether the resource holds the slot directly before
// or after the given one on the same day.
func (e *timetableEngine) adjacentBooked(booked map[bookingKey]bool, resourceID, day string, slotIndex int) bool {
	if slotIndex > 0 && booked[bookingKey{ResourceID: resourceID, Day: day, TimeSlot: e.timeSlots[slotIndex-1]}] {
		return true
	}
	if slotIndex < len(e.timeSlots)-1 && booked[bookingKey{ResourceID: resourceID, Day: day, TimeSlot: e.timeSlots[slotIndex+1]}] {
		return true
	}
	return false
}

// scoreCell rates a feasible cell for the active optimization strategy. All
// strategies start from a 100 base and adjust a single dimension.
func (e *timetableEngine) scoreCell(course models.Course, faculty models.Faculty, classroom models.Classroom, day string, slotIndex int) int {
	score := 100
	switch e.constraints.OptimizeFor {
	case models.OptimizeFacultyPreference:
		score -= e.facultyWeekly[faculty.ID] * 2
	case models.OptimizeRoomUtilization:
		score -= e.roomUsage[classroom.ID]
	case models.OptimizeStudentConvenience:
		if e.deptDayCount[deptDayKey(course.Department, day)] > 0 {
			score += 20
		}
	default:
		score += (18 - hourOfSlot(e.timeSlots[slotIndex])) * 2
	}
	return score
}

// commit books the chosen faculty and classroom for the cell and appends the
// schedule entry, so subsequent feasibility checks see the reservation.
func (e *timetableEngine) commit(course models.Course, cell candidateCell) {
	slot := e.timeSlots[cell.slotIndex]

	e.facultyBooked[bookingKey{ResourceID: cell.faculty.ID, Day: cell.day, TimeSlot: slot}] = true
	e.roomBooked[bookingKey{ResourceID: cell.classroom.ID, Day: cell.day, TimeSlot: slot}] = true
	e.facultyWeekly[cell.faculty.ID]++
	e.roomUsage[cell.classroom.ID]++
	e.deptDayCount[deptDayKey(course.Department, cell.day)]++

	e.entries = append(e.entries, models.ScheduleEntry{
		ID:            uuid.NewString(),
		CourseID:      course.ID,
		CourseName:    course.Name,
		FacultyID:     cell.faculty.ID,
		FacultyName:   cell.faculty.Name,
		ClassroomID:   cell.classroom.ID,
		ClassroomName: cell.classroom.Name,
		Day:           cell.day,
		TimeSlot:      slot,
		Department:    course.Department,
		CourseType:    course.Type,
	})
}

func (e *timetableEngine) utilization() models.Utilization {
	placed := float64(len(e.entries))
	facultyPct := placed / float64(len(e.faculty)*facultyHoursBaseline) * 100
	roomPct := placed / float64(len(e.days)*len(e.timeSlots)*len(e.classrooms)) * 100
	if facultyPct > 100 {
		facultyPct = 100
	}
	if roomPct > 100 {
		roomPct = 100
	}
	overall := (facultyPct + roomPct) / 2
	if overall > 100 {
		overall = 100
	}
	return models.Utilization{Faculty: facultyPct, Rooms: roomPct, Overall: overall}
}

// facultyAvailableOn matches availability entries against the day name.
// Availability arrays hold either abbreviated ("Mon") or full day names.
func facultyAvailableOn(f models.Faculty, day string) bool {
	for _, a := range f.Availability {
		if a == day || (len(a) >= 3 && strings.HasPrefix(day, a)) {
			return true
		}
	}
	return false
}

// hourOfSlot parses the starting hour from a "HH:MM-HH:MM" window.
func hourOfSlot(slot string) int {
	start, _, _ := strings.Cut(slot, "-")
	hh, _, _ := strings.Cut(start, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil {
		return 0
	}
	return hour
}

func deptDayKey(department, day string) string {
	return department + "|" + day
}
