package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/utils/dates"
)

var (
	// ErrDivisionNotFound is returned for an unknown division id
	ErrDivisionNotFound = errors.New("division not found")
	// ErrHolidayDate is returned when attendance is submitted for a holiday
	ErrHolidayDate = errors.New("attendance cannot be recorded on a holiday")
)

// AttendanceService answers roster queries and records attendance marks,
// suppressing holiday dates.
type AttendanceService struct {
	db *gorm.DB
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{db: db}
}

// HolidayMatch describes why a date counts as a holiday
type HolidayMatch struct {
	IsHoliday bool   `json:"is_holiday"`
	Title     string `json:"title,omitempty"`  // set for regular holidays
	Weekly    bool   `json:"weekly,omitempty"` // true for weekly recurring holidays
}

// CheckHoliday reports whether the given date is a holiday for the
// institute, either inside a regular holiday range or on a weekly
// recurring day.
func (s *AttendanceService) CheckHoliday(ctx context.Context, instituteID uint, date datatypes.Date) (HolidayMatch, error) {
	day := dates.Time(date)

	var weekly []model.WeeklyHoliday
	if err := s.db.WithContext(ctx).Where("institute_id = ?", instituteID).Find(&weekly).Error; err != nil {
		return HolidayMatch{}, err
	}
	for _, w := range weekly {
		if int(day.Weekday()) == w.DayOfWeek {
			return HolidayMatch{IsHoliday: true, Weekly: true}, nil
		}
	}

	var holidays []model.Holiday
	if err := s.db.WithContext(ctx).Where("institute_id = ?", instituteID).Find(&holidays).Error; err != nil {
		return HolidayMatch{}, err
	}
	for _, h := range holidays {
		if dates.WithinRange(day, time.Time(h.FromDate), time.Time(h.ToDate)) {
			return HolidayMatch{IsHoliday: true, Title: h.Title}, nil
		}
	}

	return HolidayMatch{}, nil
}

// AttendanceMark is one student's mark inside a save request
type AttendanceMark struct {
	StudentID uint   `json:"student_id" validate:"required"`
	IsPresent bool   `json:"is_present"`
	Remarks   string `json:"remarks" validate:"omitempty,max=255"`
}

// SaveAttendanceRequest records marks for a division on a date. SubjectID,
// SlotID and TimeSlot refine the key tuple for per-lecture attendance.
type SaveAttendanceRequest struct {
	DivisionID uint
	Date       datatypes.Date
	SubjectID  *uint
	SlotID     *uint
	TimeSlot   string
	Marks      []AttendanceMark
	MarkedBy   uint
}

// SaveAttendance upserts one attendance row per student for the request's
// key tuple. Holiday dates are rejected outright.
func (s *AttendanceService) SaveAttendance(ctx context.Context, req SaveAttendanceRequest) (int, error) {
	var division model.Division
	if err := s.db.WithContext(ctx).First(&division, req.DivisionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrDivisionNotFound
		}
		return 0, err
	}

	match, err := s.CheckHoliday(ctx, division.InstituteID, req.Date)
	if err != nil {
		return 0, err
	}
	if match.IsHoliday {
		return 0, ErrHolidayDate
	}

	saved := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, mark := range req.Marks {
			existing, err := s.findMark(tx, mark.StudentID, req)
			if err != nil {
				return err
			}

			if existing != nil {
				existing.IsPresent = mark.IsPresent
				existing.Remarks = mark.Remarks
				existing.MarkedBy = req.MarkedBy
				if err := tx.Save(existing).Error; err != nil {
					return err
				}
			} else {
				row := model.Attendance{
					InstituteID: division.InstituteID,
					DivisionID:  req.DivisionID,
					StudentID:   mark.StudentID,
					Date:        req.Date,
					SubjectID:   req.SubjectID,
					SlotID:      req.SlotID,
					TimeSlot:    req.TimeSlot,
					IsPresent:   mark.IsPresent,
					Remarks:     mark.Remarks,
					MarkedBy:    req.MarkedBy,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return saved, nil
}

// findMark locates the existing attendance row for a student and the
// request's key tuple, or nil when the student is still unmarked. NULL
// tuple members must match explicitly, an upsert on the unique index
// would treat them as always-distinct.
func (s *AttendanceService) findMark(tx *gorm.DB, studentID uint, req SaveAttendanceRequest) (*model.Attendance, error) {
	query := tx.Where("student_id = ? AND date = ? AND time_slot = ?", studentID, req.Date, req.TimeSlot)
	if req.SubjectID != nil {
		query = query.Where("subject_id = ?", *req.SubjectID)
	} else {
		query = query.Where("subject_id IS NULL")
	}
	if req.SlotID != nil {
		query = query.Where("slot_id = ?", *req.SlotID)
	} else {
		query = query.Where("slot_id IS NULL")
	}

	var existing model.Attendance
	if err := query.First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}

// RosterEntry is one student in a roster response; Marked is false for
// students with no attendance row for the key tuple.
type RosterEntry struct {
	Student   model.Student `json:"student"`
	Marked    bool          `json:"marked"`
	IsPresent bool          `json:"is_present"`
	Remarks   string        `json:"remarks,omitempty"`
}

// RosterRequest identifies the roster to fetch
type RosterRequest struct {
	DivisionID uint
	Date       datatypes.Date
	SubjectID  *uint
	SlotID     *uint
	TimeSlot   string
}

// Roster returns the division's students joined with any existing
// attendance rows for the key tuple, defaulting unseen students to
// unmarked. Holiday dates return an empty roster with the holiday match.
func (s *AttendanceService) Roster(ctx context.Context, req RosterRequest) ([]RosterEntry, HolidayMatch, error) {
	var division model.Division
	if err := s.db.WithContext(ctx).First(&division, req.DivisionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, HolidayMatch{}, ErrDivisionNotFound
		}
		return nil, HolidayMatch{}, err
	}

	match, err := s.CheckHoliday(ctx, division.InstituteID, req.Date)
	if err != nil {
		return nil, HolidayMatch{}, err
	}
	if match.IsHoliday {
		return []RosterEntry{}, match, nil
	}

	var students []model.Student
	err = s.db.WithContext(ctx).
		Where("division_id = ? AND status = ?", req.DivisionID, "active").
		Order("roll_number ASC").
		Find(&students).Error
	if err != nil {
		return nil, HolidayMatch{}, err
	}

	query := s.db.WithContext(ctx).
		Where("division_id = ? AND date = ?", req.DivisionID, req.Date)
	if req.SubjectID != nil {
		query = query.Where("subject_id = ?", *req.SubjectID)
	}
	if req.SlotID != nil {
		query = query.Where("slot_id = ?", *req.SlotID)
	}
	if req.TimeSlot != "" {
		query = query.Where("time_slot = ?", req.TimeSlot)
	}

	var marks []model.Attendance
	if err := query.Find(&marks).Error; err != nil {
		return nil, HolidayMatch{}, err
	}

	byStudent := make(map[uint]model.Attendance, len(marks))
	for _, m := range marks {
		byStudent[m.StudentID] = m
	}

	roster := make([]RosterEntry, 0, len(students))
	for _, student := range students {
		entry := RosterEntry{Student: student}
		if m, ok := byStudent[student.ID]; ok {
			entry.Marked = true
			entry.IsPresent = m.IsPresent
			entry.Remarks = m.Remarks
		}
		roster = append(roster, entry)
	}

	return roster, match, nil
}
