package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/utils/dates"
)

var (
	// ErrLeaveNotFound is returned for an unknown leave id
	ErrLeaveNotFound = errors.New("leave not found")
	// ErrLeaveAlreadyDecided is returned when approving/rejecting a
	// leave that is no longer pending
	ErrLeaveAlreadyDecided = errors.New("leave has already been decided")
	// ErrInvalidDateRange is returned when from_date is after to_date
	ErrInvalidDateRange = errors.New("from_date must not be after to_date")
)

// LeaveService handles staff leave applications and their approval workflow
type LeaveService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewLeaveService creates a new leave service
func NewLeaveService(db *gorm.DB) *LeaveService {
	return &LeaveService{
		db:            db,
		notifications: NewNotificationService(db),
	}
}

// Apply files a new leave application in pending state and notifies the
// institute's admin users.
func (s *LeaveService) Apply(ctx context.Context, leave *model.Leave) error {
	if dates.Time(leave.FromDate).After(dates.Time(leave.ToDate)) {
		return ErrInvalidDateRange
	}

	var staff model.Staff
	if err := s.db.WithContext(ctx).First(&staff, leave.StaffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("staff not found")
		}
		return err
	}

	leave.InstituteID = staff.InstituteID
	leave.Status = model.LeavePending
	if err := s.db.WithContext(ctx).Create(leave).Error; err != nil {
		return err
	}

	// Notify institute admins; failures here must not fail the application
	var admins []model.User
	err := s.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", model.RoleAdmin, true).
		Where("institute_id = ? OR institute_id IS NULL", staff.InstituteID).
		Find(&admins).Error
	if err == nil {
		for _, admin := range admins {
			s.notifications.CreateNotification(ctx, CreateNotificationRequest{
				UserID:   admin.ID,
				Type:     model.NotificationTypeInfo,
				Category: model.NotificationCategoryLeave,
				Title:    "New leave application",
				Message:  fmt.Sprintf("%s applied for %s leave from %s to %s", staff.Name, leave.LeaveType, dates.Format(leave.FromDate), dates.Format(leave.ToDate)),
				Metadata: &model.NotificationMetadata{InstituteID: staff.InstituteID, LeaveID: leave.ID},
			})
		}
	}

	return nil
}

// Decide transitions a pending leave to approved or rejected. Decisions on
// already-decided leaves are rejected so a decision can never be silently
// overwritten.
func (s *LeaveService) Decide(ctx context.Context, leaveID, approverID uint, approve bool, remark string) (*model.Leave, error) {
	var leave model.Leave

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&leave, leaveID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeaveNotFound
			}
			return err
		}

		if leave.Status != model.LeavePending {
			return ErrLeaveAlreadyDecided
		}

		now := time.Now()
		leave.Status = model.LeaveRejected
		if approve {
			leave.Status = model.LeaveApproved
		}
		leave.ApprovedBy = &approverID
		leave.ApprovedAt = &now
		leave.Remark = remark

		return tx.Save(&leave).Error
	})
	if err != nil {
		return nil, err
	}

	// Notify the staff member's user account when one exists (matched by email)
	var staff model.Staff
	if err := s.db.WithContext(ctx).First(&staff, leave.StaffID).Error; err == nil && staff.Email != "" {
		var user model.User
		if err := s.db.WithContext(ctx).Where("email = ?", staff.Email).First(&user).Error; err == nil {
			notifType := model.NotificationTypeSuccess
			if leave.Status == model.LeaveRejected {
				notifType = model.NotificationTypeWarning
			}
			s.notifications.CreateNotification(ctx, CreateNotificationRequest{
				UserID:   user.ID,
				Type:     notifType,
				Category: model.NotificationCategoryLeave,
				Title:    fmt.Sprintf("Leave %s", leave.Status),
				Message:  fmt.Sprintf("Your %s leave from %s to %s was %s", leave.LeaveType, dates.Format(leave.FromDate), dates.Format(leave.ToDate), leave.Status),
				Metadata: &model.NotificationMetadata{InstituteID: leave.InstituteID, LeaveID: leave.ID},
			})
		}
	}

	return &leave, nil
}
