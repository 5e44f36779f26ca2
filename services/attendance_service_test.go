package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
)

func seedDivision(t *testing.T, db *gorm.DB, instituteID uint) model.Division {
	t.Helper()

	division := model.Division{
		InstituteID: instituteID,
		CourseName:  "Diploma in Pharmacy",
		Year:        1,
		Name:        "A",
		Capacity:    60,
	}
	if err := db.Create(&division).Error; err != nil {
		t.Fatalf("failed to seed division: %v", err)
	}
	return division
}

func seedStudents(t *testing.T, db *gorm.DB, instituteID, divisionID uint, n int) []model.Student {
	t.Helper()

	students := make([]model.Student, 0, n)
	for i := 1; i <= n; i++ {
		student := model.Student{
			InstituteID: instituteID,
			DivisionID:  &divisionID,
			PRN:         fmt.Sprintf("PRN-%d-%d", divisionID, i),
			RollNumber:  i,
			Name:        fmt.Sprintf("Student %d", i),
			Status:      "active",
		}
		if err := db.Create(&student).Error; err != nil {
			t.Fatalf("failed to seed student: %v", err)
		}
		students = append(students, student)
	}
	return students
}

func TestCheckHoliday(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.WeeklyHoliday{
		InstituteID: institute.ID,
		DayOfWeek:   0, // Sunday
	}).Error)
	require.NoError(t, db.Create(&model.Holiday{
		InstituteID: institute.ID,
		Title:       "New Year Break",
		FromDate:    mustDate(t, "2024-01-01"),
		ToDate:      mustDate(t, "2024-01-03"),
	}).Error)

	// 2024-01-07 is a Sunday
	match, err := svc.CheckHoliday(ctx, institute.ID, mustDate(t, "2024-01-07"))
	require.NoError(t, err)
	assert.True(t, match.IsHoliday)
	assert.True(t, match.Weekly)

	// Inside the regular range, boundaries inclusive
	for _, day := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		match, err = svc.CheckHoliday(ctx, institute.ID, mustDate(t, day))
		require.NoError(t, err)
		assert.True(t, match.IsHoliday, "expected %s to be a holiday", day)
		assert.Equal(t, "New Year Break", match.Title)
	}

	// 2024-01-04 is a Thursday, outside the range
	match, err = svc.CheckHoliday(ctx, institute.ID, mustDate(t, "2024-01-04"))
	require.NoError(t, err)
	assert.False(t, match.IsHoliday)
}

func TestRosterHolidaySuppression(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	division := seedDivision(t, db, institute.ID)
	seedStudents(t, db, institute.ID, division.ID, 3)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Holiday{
		InstituteID: institute.ID,
		Title:       "New Year Break",
		FromDate:    mustDate(t, "2024-01-01"),
		ToDate:      mustDate(t, "2024-01-03"),
	}).Error)

	roster, match, err := svc.Roster(ctx, RosterRequest{
		DivisionID: division.ID,
		Date:       mustDate(t, "2024-01-02"),
	})
	require.NoError(t, err)
	assert.True(t, match.IsHoliday)
	assert.Empty(t, roster)

	roster, match, err = svc.Roster(ctx, RosterRequest{
		DivisionID: division.ID,
		Date:       mustDate(t, "2024-01-04"),
	})
	require.NoError(t, err)
	assert.False(t, match.IsHoliday)
	require.Len(t, roster, 3)
	for _, entry := range roster {
		assert.False(t, entry.Marked)
	}
}

func TestSaveAttendanceAndRoster(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	division := seedDivision(t, db, institute.ID)
	students := seedStudents(t, db, institute.ID, division.ID, 3)
	svc := NewAttendanceService(db)
	ctx := context.Background()
	day := mustDate(t, "2024-01-04")

	saved, err := svc.SaveAttendance(ctx, SaveAttendanceRequest{
		DivisionID: division.ID,
		Date:       day,
		Marks: []AttendanceMark{
			{StudentID: students[0].ID, IsPresent: true},
			{StudentID: students[1].ID, IsPresent: false, Remarks: "sick"},
		},
		MarkedBy: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	roster, _, err := svc.Roster(ctx, RosterRequest{DivisionID: division.ID, Date: day})
	require.NoError(t, err)
	require.Len(t, roster, 3)
	assert.True(t, roster[0].Marked)
	assert.True(t, roster[0].IsPresent)
	assert.True(t, roster[1].Marked)
	assert.False(t, roster[1].IsPresent)
	assert.Equal(t, "sick", roster[1].Remarks)
	assert.False(t, roster[2].Marked) // never submitted, defaults to unmarked

	// Re-submitting updates in place instead of duplicating rows
	saved, err = svc.SaveAttendance(ctx, SaveAttendanceRequest{
		DivisionID: division.ID,
		Date:       day,
		Marks:      []AttendanceMark{{StudentID: students[1].ID, IsPresent: true}},
		MarkedBy:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)

	var count int64
	require.NoError(t, db.Model(&model.Attendance{}).
		Where("division_id = ?", division.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	roster, _, err = svc.Roster(ctx, RosterRequest{DivisionID: division.ID, Date: day})
	require.NoError(t, err)
	assert.True(t, roster[1].IsPresent)
}

func TestSaveAttendanceRejectsHoliday(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	division := seedDivision(t, db, institute.ID)
	students := seedStudents(t, db, institute.ID, division.ID, 1)
	svc := NewAttendanceService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.WeeklyHoliday{
		InstituteID: institute.ID,
		DayOfWeek:   0,
	}).Error)

	_, err := svc.SaveAttendance(ctx, SaveAttendanceRequest{
		DivisionID: division.ID,
		Date:       mustDate(t, "2024-01-07"), // Sunday
		Marks:      []AttendanceMark{{StudentID: students[0].ID, IsPresent: true}},
		MarkedBy:   1,
	})
	assert.ErrorIs(t, err, ErrHolidayDate)

	_, err = svc.SaveAttendance(ctx, SaveAttendanceRequest{
		DivisionID: 9999,
		Date:       mustDate(t, "2024-01-04"),
		MarkedBy:   1,
	})
	assert.ErrorIs(t, err, ErrDivisionNotFound)
}

func TestSaveAttendancePerLectureTuples(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	division := seedDivision(t, db, institute.ID)
	students := seedStudents(t, db, institute.ID, division.ID, 1)
	svc := NewAttendanceService(db)
	ctx := context.Background()
	day := mustDate(t, "2024-01-04")

	subjectA := uint(1)
	subjectB := uint(2)

	for _, subject := range []*uint{&subjectA, &subjectB, nil} {
		_, err := svc.SaveAttendance(ctx, SaveAttendanceRequest{
			DivisionID: division.ID,
			Date:       day,
			SubjectID:  subject,
			Marks:      []AttendanceMark{{StudentID: students[0].ID, IsPresent: true}},
			MarkedBy:   1,
		})
		require.NoError(t, err)
	}

	// Distinct subjects (and the subject-less tuple) keep separate rows
	var count int64
	require.NoError(t, db.Model(&model.Attendance{}).
		Where("student_id = ?", students[0].ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}
