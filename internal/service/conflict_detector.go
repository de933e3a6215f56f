package service

import (
	"fmt"

	"github.com/smart-classroom/scs-api/internal/models"
)

// detectTimetableConflicts re-scans an assembled timetable for violations,
// independent of how the entries were produced (generator output or manual
// edits). The input is never mutated and repeated runs over the same entries
// yield the same conflict set.
func detectTimetableConflicts(entries []models.ScheduleEntry, timeSlots []string, constraints models.ConstraintConfig) []models.Conflict {
	conflicts := make([]models.Conflict, 0)

	slotIndex := make(map[string]int, len(timeSlots))
	for i, slot := range timeSlots {
		slotIndex[slot] = i
	}

	facultySeen := make(map[bookingKey]bool)
	roomSeen := make(map[bookingKey]bool)
	facultyDaily := make(map[string]int)
	dailyFlagged := make(map[string]bool)

	for _, entry := range entries {
		facultyKey := bookingKey{ResourceID: entry.FacultyID, Day: entry.Day, TimeSlot: entry.TimeSlot}
		roomKey := bookingKey{ResourceID: entry.ClassroomID, Day: entry.Day, TimeSlot: entry.TimeSlot}

		if facultySeen[facultyKey] {
			conflicts = append(conflicts, models.Conflict{
				Type:     models.ConflictTypeFaculty,
				Resource: entry.FacultyID,
				Message:  fmt.Sprintf("Faculty is double-booked at %s %s", entry.Day, entry.TimeSlot),
				Day:      entry.Day,
				TimeSlot: entry.TimeSlot,
			})
		} else {
			facultySeen[facultyKey] = true
			facultyDaily[dailyKey(entry.FacultyID, entry.Day)]++
		}

		if roomSeen[roomKey] {
			conflicts = append(conflicts, models.Conflict{
				Type:     models.ConflictTypeClassroom,
				Resource: entry.ClassroomID,
				Message:  fmt.Sprintf("Classroom is double-booked at %s %s", entry.Day, entry.TimeSlot),
				Day:      entry.Day,
				TimeSlot: entry.TimeSlot,
			})
		} else {
			roomSeen[roomKey] = true
		}
	}

	if constraints.MaxHoursPerDay > 0 {
		for _, entry := range entries {
			key := dailyKey(entry.FacultyID, entry.Day)
			if dailyFlagged[key] || facultyDaily[key] <= constraints.MaxHoursPerDay {
				continue
			}
			dailyFlagged[key] = true
			conflicts = append(conflicts, models.Conflict{
				Type:     models.ConflictTypeConstraint,
				Resource: entry.FacultyID,
				Message:  fmt.Sprintf("Faculty exceeds daily hours limit (%d) on %s", constraints.MaxHoursPerDay, entry.Day),
				Day:      entry.Day,
			})
		}
	}

	if constraints.AvoidBackToBack {
		pairFlagged := make(map[bookingKey]bool)
		for _, entry := range entries {
			idx, ok := slotIndex[entry.TimeSlot]
			if !ok || idx == 0 {
				continue
			}
			previous := bookingKey{ResourceID: entry.FacultyID, Day: entry.Day, TimeSlot: timeSlots[idx-1]}
			if !facultySeen[previous] {
				continue
			}
			pairKey := bookingKey{ResourceID: entry.FacultyID, Day: entry.Day, TimeSlot: entry.TimeSlot}
			if pairFlagged[pairKey] {
				continue
			}
			pairFlagged[pairKey] = true
			conflicts = append(conflicts, models.Conflict{
				Type:     models.ConflictTypeConstraint,
				Resource: entry.FacultyID,
				Message:  fmt.Sprintf("Faculty has back-to-back classes on %s", entry.Day),
				Day:      entry.Day,
				TimeSlot: entry.TimeSlot,
			})
		}
	}

	return conflicts
}

func dailyKey(resourceID, day string) string {
	return resourceID + "|" + day
}
