package dto

import (
	"time"

	"github.com/smart-classroom/scs-api/internal/models"
)

// GenerateTimetableRequest instructs the generator to build a draft timetable
// from the current catalog snapshot. Days and TimeSlots default to the
// reference 5x9 grid when omitted.
type GenerateTimetableRequest struct {
	Department  string                  `json:"department"`
	Days        []string                `json:"days" validate:"omitempty,min=1,dive,required"`
	TimeSlots   []string                `json:"timeSlots" validate:"omitempty,min=1,dive,required"`
	Constraints models.ConstraintConfig `json:"constraints"`
}

// GenerateTimetableResponse returns the generated draft.
type GenerateTimetableResponse struct {
	DraftID        string                 `json:"draftId"`
	Timetable      []models.ScheduleEntry `json:"timetable"`
	Conflicts      []models.Conflict      `json:"conflicts"`
	ScheduledCount int                    `json:"scheduledCount"`
	TotalCourses   int                    `json:"totalCourses"`
	Utilization    models.Utilization     `json:"utilization"`
}

// SaveTimetableRequest publishes a draft. Force persists a draft that still
// carries feasibility conflicts.
type SaveTimetableRequest struct {
	DraftID string `json:"draftId" validate:"required"`
	Force   bool   `json:"force"`
}

// EntryRequest captures a manual schedule-entry edit. Constraints feed the
// conflict re-scan that follows every mutation.
type EntryRequest struct {
	CourseID    string                  `json:"courseId" validate:"required"`
	FacultyID   string                  `json:"facultyId" validate:"required"`
	ClassroomID string                  `json:"classroomId" validate:"required"`
	Day         string                  `json:"day" validate:"required"`
	TimeSlot    string                  `json:"timeSlot" validate:"required"`
	Constraints models.ConstraintConfig `json:"constraints"`
}

// EntryMutationResponse returns the touched entry plus the refreshed conflict
// report for the whole timetable.
type EntryMutationResponse struct {
	Entry     *models.ScheduleEntry `json:"entry,omitempty"`
	Conflicts []models.Conflict     `json:"conflicts"`
}

// DeleteEntryRequest carries the optional constraint set for the conflict
// re-scan that follows an entry removal.
type DeleteEntryRequest struct {
	Constraints models.ConstraintConfig `json:"constraints"`
}

// DetectConflictsRequest re-runs the detector over the published timetable.
type DetectConflictsRequest struct {
	TimeSlots   []string                `json:"timeSlots"`
	Constraints models.ConstraintConfig `json:"constraints"`
}

// ExportTimetableResponse points at a rendered timetable artifact.
type ExportTimetableResponse struct {
	Format    string    `json:"format"`
	URL       string    `json:"url"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
