package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
)

func seedStaff(t *testing.T, db *gorm.DB, instituteID uint) model.Staff {
	t.Helper()

	staff := model.Staff{
		InstituteID:  instituteID,
		EmployeeCode: "EMP-001",
		Name:         "Asha Kulkarni",
		Email:        "asha@example.com",
		Designation:  "Lecturer",
		Status:       "active",
	}
	if err := db.Create(&staff).Error; err != nil {
		t.Fatalf("failed to seed staff: %v", err)
	}
	return staff
}

func seedUser(t *testing.T, db *gorm.DB, email, role string, instituteID *uint) model.User {
	t.Helper()

	user := model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         email,
		Role:         role,
		InstituteID:  instituteID,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestApplyLeaveNotifiesAdmins(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	staff := seedStaff(t, db, institute.ID)
	admin := seedUser(t, db, "admin@example.com", model.RoleAdmin, &institute.ID)
	superAdmin := seedUser(t, db, "super@example.com", model.RoleAdmin, nil)
	seedUser(t, db, "viewer@example.com", model.RoleViewer, &institute.ID)
	svc := NewLeaveService(db)

	leave := model.Leave{
		StaffID:   staff.ID,
		LeaveType: "casual",
		FromDate:  mustDate(t, "2024-07-01"),
		ToDate:    mustDate(t, "2024-07-03"),
		Reason:    "family function",
	}
	require.NoError(t, svc.Apply(context.Background(), &leave))
	assert.Equal(t, model.LeavePending, leave.Status)
	assert.Equal(t, institute.ID, leave.InstituteID)

	// Institute admin and super-admin get notified, the viewer does not
	var notified []model.Notification
	require.NoError(t, db.Where("category = ?", model.NotificationCategoryLeave).Find(&notified).Error)
	require.Len(t, notified, 2)
	recipients := []uint{notified[0].UserID, notified[1].UserID}
	assert.ElementsMatch(t, []uint{admin.ID, superAdmin.ID}, recipients)
}

func TestApplyLeaveInvalidRange(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	staff := seedStaff(t, db, institute.ID)
	svc := NewLeaveService(db)

	leave := model.Leave{
		StaffID:   staff.ID,
		LeaveType: "casual",
		FromDate:  mustDate(t, "2024-07-05"),
		ToDate:    mustDate(t, "2024-07-01"),
	}
	err := svc.Apply(context.Background(), &leave)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	leave.ToDate = mustDate(t, "2024-07-05")
	leave.StaffID = 9999
	err = svc.Apply(context.Background(), &leave)
	assert.EqualError(t, err, "staff not found")
}

func TestDecideLeave(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	staff := seedStaff(t, db, institute.ID)
	approver := seedUser(t, db, "admin@example.com", model.RoleAdmin, &institute.ID)
	// User account matching the staff email receives the decision notification
	staffUser := seedUser(t, db, staff.Email, model.RoleStaff, &institute.ID)
	svc := NewLeaveService(db)
	ctx := context.Background()

	leave := model.Leave{
		StaffID:   staff.ID,
		LeaveType: "medical",
		FromDate:  mustDate(t, "2024-07-01"),
		ToDate:    mustDate(t, "2024-07-02"),
	}
	require.NoError(t, svc.Apply(ctx, &leave))

	decided, err := svc.Decide(ctx, leave.ID, approver.ID, true, "get well soon")
	require.NoError(t, err)
	assert.Equal(t, model.LeaveApproved, decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, approver.ID, *decided.ApprovedBy)
	assert.NotNil(t, decided.ApprovedAt)
	assert.Equal(t, "get well soon", decided.Remark)

	var notification model.Notification
	err = db.Where("user_id = ? AND category = ?", staffUser.ID, model.NotificationCategoryLeave).
		First(&notification).Error
	require.NoError(t, err)
	assert.Equal(t, model.NotificationTypeSuccess, notification.Type)

	// A decision can never be overwritten
	_, err = svc.Decide(ctx, leave.ID, approver.ID, false, "changed my mind")
	assert.ErrorIs(t, err, ErrLeaveAlreadyDecided)

	var reloaded model.Leave
	require.NoError(t, db.First(&reloaded, leave.ID).Error)
	assert.Equal(t, model.LeaveApproved, reloaded.Status)

	_, err = svc.Decide(ctx, 9999, approver.ID, true, "")
	assert.ErrorIs(t, err, ErrLeaveNotFound)
}

func TestRejectLeave(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	staff := seedStaff(t, db, institute.ID)
	approver := seedUser(t, db, "admin@example.com", model.RoleAdmin, &institute.ID)
	svc := NewLeaveService(db)
	ctx := context.Background()

	leave := model.Leave{
		StaffID:   staff.ID,
		LeaveType: "earned",
		FromDate:  mustDate(t, "2024-08-01"),
		ToDate:    mustDate(t, "2024-08-10"),
	}
	require.NoError(t, svc.Apply(ctx, &leave))

	decided, err := svc.Decide(ctx, leave.ID, approver.ID, false, "peak admission period")
	require.NoError(t, err)
	assert.Equal(t, model.LeaveRejected, decided.Status)
}
