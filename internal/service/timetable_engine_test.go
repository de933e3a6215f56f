package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-classroom/scs-api/internal/models"
)

func weekdayGrid() ([]string, []string) {
	return models.DefaultDays(), models.DefaultTimeSlots()
}

func lectureCourse(id string, credits, students int) models.Course {
	return models.Course{
		ID:           id,
		Code:         id,
		Name:         "Course " + id,
		Credits:      credits,
		Department:   "CS",
		Type:         models.CourseTypeLecture,
		StudentCount: students,
	}
}

func csFaculty(id string, maxHours int) models.Faculty {
	return models.Faculty{
		ID:           id,
		Name:         "Faculty " + id,
		Department:   "CS",
		Availability: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		MaxHours:     maxHours,
	}
}

func generalRoom(id string, capacity int) models.Classroom {
	return models.Classroom{
		ID:         id,
		Name:       "Room " + id,
		Capacity:   capacity,
		Type:       models.ClassroomTypeClassroom,
		Department: models.DepartmentGeneral,
	}
}

func runEngine(t *testing.T, courses []models.Course, faculty []models.Faculty, classrooms []models.Classroom, constraints models.ConstraintConfig) *models.GenerationResult {
	t.Helper()
	days, slots := weekdayGrid()
	result, err := newTimetableEngine(courses, faculty, classrooms, days, slots, constraints, 0).Run()
	require.NoError(t, err)
	return result
}

func TestEnginePlacesAllCreditHours(t *testing.T) {
	result := runEngine(t,
		[]models.Course{lectureCourse("c1", 2, 30)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		models.ConstraintConfig{},
	)

	assert.Len(t, result.Timetable, 2)
	assert.Empty(t, result.Conflicts)
	assert.Equal(t, 2, result.ScheduledCount)
	assert.Equal(t, 1, result.TotalCourses)

	// two credit hours of one course never share a cell
	seen := map[string]bool{}
	for _, entry := range result.Timetable {
		key := entry.Day + entry.TimeSlot
		assert.False(t, seen[key], "duplicate cell %s", key)
		seen[key] = true
		assert.Equal(t, "f1", entry.FacultyID)
		assert.Equal(t, "r1", entry.ClassroomID)
	}
}

func TestEngineLabCourseWithoutLabRoomConflicts(t *testing.T) {
	lab := lectureCourse("lab1", 1, 20)
	lab.Type = models.CourseTypeLab

	result := runEngine(t,
		[]models.Course{lab},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		models.ConstraintConfig{},
	)

	assert.Empty(t, result.Timetable)
	require.NotEmpty(t, result.Conflicts)

	types := map[string]bool{}
	for _, conflict := range result.Conflicts {
		types[conflict.Type] = true
		assert.Equal(t, "lab1", conflict.CourseID)
	}
	assert.True(t, types[models.ConflictTypeSlot])
	assert.True(t, types[models.ConflictTypeCourse])
}

func TestEngineTwoCoursesShareScarceResources(t *testing.T) {
	result := runEngine(t,
		[]models.Course{lectureCourse("c1", 1, 30), lectureCourse("c2", 1, 30)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		models.ConstraintConfig{},
	)

	assert.Empty(t, result.Conflicts)
	require.Len(t, result.Timetable, 2)
	first, second := result.Timetable[0], result.Timetable[1]
	assert.False(t, first.Day == second.Day && first.TimeSlot == second.TimeSlot,
		"entries must occupy distinct cells")
}

func TestEngineWeeklyHoursCapLimitsPlacement(t *testing.T) {
	result := runEngine(t,
		[]models.Course{lectureCourse("c1", 2, 30)},
		[]models.Faculty{csFaculty("f1", 1)},
		[]models.Classroom{generalRoom("r1", 40)},
		models.ConstraintConfig{},
	)

	assert.Len(t, result.Timetable, 1)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictTypeSlot, result.Conflicts[0].Type)
	assert.Equal(t, "No suitable slot found with current constraints", result.Conflicts[0].Message)
}

func TestEngineLabCoursesPlacedFirst(t *testing.T) {
	lab := lectureCourse("lab1", 1, 20)
	lab.Type = models.CourseTypeLab
	labRoom := generalRoom("lr1", 30)
	labRoom.Type = models.ClassroomTypeLab

	// lecture listed first, but the lab must win the priority sort
	result := runEngine(t,
		[]models.Course{lectureCourse("c1", 1, 20), lab},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 30), labRoom},
		models.ConstraintConfig{},
	)

	require.Len(t, result.Timetable, 2)
	assert.Equal(t, "lab1", result.Timetable[0].CourseID)
	assert.Equal(t, "lr1", result.Timetable[0].ClassroomID)
	assert.Equal(t, "c1", result.Timetable[1].CourseID)
}

func TestEnginePriorityOrderCreditsThenStudents(t *testing.T) {
	small := lectureCourse("small", 1, 10)
	big := lectureCourse("big", 3, 10)
	crowded := lectureCourse("crowded", 1, 90)

	e := newTimetableEngine(
		[]models.Course{small, crowded, big},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 100)},
		models.DefaultDays(), models.DefaultTimeSlots(),
		models.ConstraintConfig{}, 0,
	)

	ordered := e.prioritizedCourses()
	require.Len(t, ordered, 3)
	assert.Equal(t, "big", ordered[0].ID)
	assert.Equal(t, "crowded", ordered[1].ID)
	assert.Equal(t, "small", ordered[2].ID)
}

func TestEngineCapacityFilterSkipsSmallRooms(t *testing.T) {
	result := runEngine(t,
		[]models.Course{lectureCourse("c1", 1, 50)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("small", 30), generalRoom("big", 60)},
		models.ConstraintConfig{},
	)

	require.Len(t, result.Timetable, 1)
	assert.Equal(t, "big", result.Timetable[0].ClassroomID)
}

func TestEngineDepartmentRoomFilter(t *testing.T) {
	eeRoom := generalRoom("ee1", 60)
	eeRoom.Department = "EE"

	result := runEngine(t,
		[]models.Course{lectureCourse("c1", 1, 30)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{eeRoom},
		models.ConstraintConfig{},
	)

	assert.Empty(t, result.Timetable)
	assert.NotEmpty(t, result.Conflicts)
}

func TestEngineFacultyAvailabilityPrefixMatch(t *testing.T) {
	limited := csFaculty("f1", 20)
	limited.Availability = []string{"Mon"}

	result := runEngine(t,
		[]models.Course{lectureCourse("c1", 2, 30)},
		[]models.Faculty{limited},
		[]models.Classroom{generalRoom("r1", 40)},
		models.ConstraintConfig{},
	)

	require.Len(t, result.Timetable, 2)
	for _, entry := range result.Timetable {
		assert.Equal(t, "Monday", entry.Day)
	}
}

func TestEngineDefaultStrategyPrefersEarlySlots(t *testing.T) {
	result := runEngine(t,
		[]models.Course{lectureCourse("c1", 1, 30)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		models.ConstraintConfig{OptimizeFor: models.OptimizeNoConflicts},
	)

	require.Len(t, result.Timetable, 1)
	assert.Equal(t, "Monday", result.Timetable[0].Day)
	assert.Equal(t, "08:00-09:00", result.Timetable[0].TimeSlot)
}

func TestEngineMorningFilterRestrictsSlots(t *testing.T) {
	days, slots := weekdayGrid()
	morning := map[string]bool{}
	for i, slot := range slots {
		if i <= 4 {
			morning[slot] = true
		}
	}

	result, err := newTimetableEngine(
		[]models.Course{lectureCourse("c1", 6, 30)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		days, slots,
		models.ConstraintConfig{PreferMorningSlots: true}, 0,
	).Run()
	require.NoError(t, err)

	require.Len(t, result.Timetable, 6)
	for _, entry := range result.Timetable {
		assert.True(t, morning[entry.TimeSlot], "slot %s is not a morning slot", entry.TimeSlot)
	}
}

func TestEngineMinGapSpacing(t *testing.T) {
	days, slots := weekdayGrid()
	slotIndex := map[string]int{}
	for i, slot := range slots {
		slotIndex[slot] = i
	}

	result, err := newTimetableEngine(
		[]models.Course{lectureCourse("c1", 4, 30)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		days, slots,
		models.ConstraintConfig{MinGapBetweenClasses: 2}, 0,
	).Run()
	require.NoError(t, err)

	require.Len(t, result.Timetable, 4)
	for _, entry := range result.Timetable {
		assert.Equal(t, 0, slotIndex[entry.TimeSlot]%3, "slot %s violates spacing", entry.TimeSlot)
	}
}

func TestEngineAvoidBackToBackSeparatesBookings(t *testing.T) {
	days := []string{"Monday"}
	slots := models.DefaultTimeSlots()
	slotIndex := map[string]int{}
	for i, slot := range slots {
		slotIndex[slot] = i
	}

	result, err := newTimetableEngine(
		[]models.Course{lectureCourse("c1", 3, 30)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		days, slots,
		models.ConstraintConfig{AvoidBackToBack: true}, 0,
	).Run()
	require.NoError(t, err)

	require.Len(t, result.Timetable, 3)
	used := make([]int, 0, 3)
	for _, entry := range result.Timetable {
		used = append(used, slotIndex[entry.TimeSlot])
	}
	for i := range used {
		for j := i + 1; j < len(used); j++ {
			diff := used[i] - used[j]
			if diff < 0 {
				diff = -diff
			}
			assert.Greater(t, diff, 1, "adjacent slots booked for the same faculty")
		}
	}
}

func TestEngineRoomUtilizationSpreadsRooms(t *testing.T) {
	result := runEngine(t,
		[]models.Course{lectureCourse("c1", 1, 30), lectureCourse("c2", 1, 30)},
		[]models.Faculty{csFaculty("f1", 20), csFaculty("f2", 20)},
		[]models.Classroom{generalRoom("r1", 40), generalRoom("r2", 40)},
		models.ConstraintConfig{OptimizeFor: models.OptimizeRoomUtilization},
	)

	require.Len(t, result.Timetable, 2)
	assert.NotEqual(t, result.Timetable[0].ClassroomID, result.Timetable[1].ClassroomID)
}

func TestEngineStudentConvenienceClustersDays(t *testing.T) {
	result := runEngine(t,
		[]models.Course{lectureCourse("c1", 1, 30), lectureCourse("c2", 1, 30)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		models.ConstraintConfig{OptimizeFor: models.OptimizeStudentConvenience},
	)

	require.Len(t, result.Timetable, 2)
	assert.Equal(t, result.Timetable[0].Day, result.Timetable[1].Day)
}

func TestEngineEmptyInputsAreFatal(t *testing.T) {
	days, slots := weekdayGrid()

	cases := []struct {
		name       string
		courses    []models.Course
		faculty    []models.Faculty
		classrooms []models.Classroom
	}{
		{"no courses", nil, []models.Faculty{csFaculty("f1", 20)}, []models.Classroom{generalRoom("r1", 40)}},
		{"no faculty", []models.Course{lectureCourse("c1", 1, 10)}, nil, []models.Classroom{generalRoom("r1", 40)}},
		{"no classrooms", []models.Course{lectureCourse("c1", 1, 10)}, []models.Faculty{csFaculty("f1", 20)}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTimetableEngine(tc.courses, tc.faculty, tc.classrooms, days, slots, models.ConstraintConfig{}, 0).Run()
			require.Error(t, err)
		})
	}
}

func TestEngineNonPositiveCreditsAreFatal(t *testing.T) {
	days, slots := weekdayGrid()
	bad := lectureCourse("c1", 0, 10)
	_, err := newTimetableEngine(
		[]models.Course{bad},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		days, slots, models.ConstraintConfig{}, 0,
	).Run()
	require.Error(t, err)
}

func TestEngineNeverDoubleBooksResources(t *testing.T) {
	courses := []models.Course{
		lectureCourse("c1", 3, 30),
		lectureCourse("c2", 3, 45),
		lectureCourse("c3", 2, 25),
		lectureCourse("c4", 2, 60),
	}
	faculty := []models.Faculty{csFaculty("f1", 6), csFaculty("f2", 6)}
	rooms := []models.Classroom{generalRoom("r1", 70), generalRoom("r2", 70)}

	result := runEngine(t, courses, faculty, rooms, models.ConstraintConfig{})

	facultySeen := map[string]bool{}
	roomSeen := map[string]bool{}
	for _, entry := range result.Timetable {
		fk := entry.FacultyID + entry.Day + entry.TimeSlot
		rk := entry.ClassroomID + entry.Day + entry.TimeSlot
		assert.False(t, facultySeen[fk], "faculty double-booked at %s %s", entry.Day, entry.TimeSlot)
		assert.False(t, roomSeen[rk], "room double-booked at %s %s", entry.Day, entry.TimeSlot)
		facultySeen[fk] = true
		roomSeen[rk] = true
	}
}

func TestEngineWeeklyLoadNeverExceedsMaxHours(t *testing.T) {
	courses := []models.Course{lectureCourse("c1", 4, 30), lectureCourse("c2", 4, 30)}
	faculty := []models.Faculty{csFaculty("f1", 5)}
	rooms := []models.Classroom{generalRoom("r1", 40)}

	result := runEngine(t, courses, faculty, rooms, models.ConstraintConfig{})

	load := 0
	for _, entry := range result.Timetable {
		if entry.FacultyID == "f1" {
			load++
		}
	}
	assert.LessOrEqual(t, load, 5)
	assert.NotEmpty(t, result.Conflicts)
}

func TestEngineUtilizationBounds(t *testing.T) {
	result := runEngine(t,
		[]models.Course{lectureCourse("c1", 2, 30)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		models.ConstraintConfig{},
	)

	util := result.Utilization
	assert.GreaterOrEqual(t, util.Faculty, 0.0)
	assert.LessOrEqual(t, util.Faculty, 100.0)
	assert.GreaterOrEqual(t, util.Rooms, 0.0)
	assert.LessOrEqual(t, util.Rooms, 100.0)
	assert.InDelta(t, (util.Faculty+util.Rooms)/2, util.Overall, 0.0001)
}

func TestEngineDeterministicForSameInput(t *testing.T) {
	courses := []models.Course{lectureCourse("c1", 2, 30), lectureCourse("c2", 1, 20)}
	faculty := []models.Faculty{csFaculty("f1", 20)}
	rooms := []models.Classroom{generalRoom("r1", 40)}

	first := runEngine(t, courses, faculty, rooms, models.ConstraintConfig{})
	second := runEngine(t, courses, faculty, rooms, models.ConstraintConfig{})

	require.Equal(t, len(first.Timetable), len(second.Timetable))
	for i := range first.Timetable {
		assert.Equal(t, first.Timetable[i].Day, second.Timetable[i].Day)
		assert.Equal(t, first.Timetable[i].TimeSlot, second.Timetable[i].TimeSlot)
		assert.Equal(t, first.Timetable[i].CourseID, second.Timetable[i].CourseID)
	}
}

func TestEngineAttemptsCapStopsPlacement(t *testing.T) {
	days, slots := weekdayGrid()
	result, err := newTimetableEngine(
		[]models.Course{lectureCourse("c1", 3, 30)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		days, slots, models.ConstraintConfig{}, 45,
	).Run()
	require.NoError(t, err)

	// one full grid scan per hour: the cap of one scan allows a single placement
	assert.Len(t, result.Timetable, 1)

	// the two hours the budget never reached still surface as conflicts
	require.Len(t, result.Conflicts, 2)
	for _, c := range result.Conflicts {
		assert.Equal(t, models.ConflictTypeSlot, c.Type)
		assert.Equal(t, "c1", c.CourseID)
		assert.Contains(t, c.Message, "attempt limit")
	}
}

func TestEngineAttemptsCapReportsEveryUnplacedHour(t *testing.T) {
	days, slots := weekdayGrid()
	result, err := newTimetableEngine(
		[]models.Course{lectureCourse("c1", 3, 30)},
		[]models.Faculty{csFaculty("f1", 20)},
		[]models.Classroom{generalRoom("r1", 40)},
		days, slots, models.ConstraintConfig{}, 90,
	).Run()
	require.NoError(t, err)

	// two scans fit the budget, the third credit-hour does not
	assert.Len(t, result.Timetable, 2)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictTypeSlot, result.Conflicts[0].Type)

	// scheduled entries plus slot conflicts always cover the full demand
	assert.Equal(t, 3, len(result.Timetable)+len(result.Conflicts))
}

func TestHourOfSlot(t *testing.T) {
	assert.Equal(t, 8, hourOfSlot("08:00-09:00"))
	assert.Equal(t, 16, hourOfSlot("16:00-17:00"))
	assert.Equal(t, 0, hourOfSlot("bogus"))
}
