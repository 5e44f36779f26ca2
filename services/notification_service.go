package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
)

// NotificationService handles per-user notifications and notice fan-out
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	UserID   uint
	NoticeID *uint
	Type     model.NotificationType
	Category model.NotificationCategory
	Title    string
	Message  string
	Metadata *model.NotificationMetadata
}

// CreateNotification creates a new notification for a user
func (s *NotificationService) CreateNotification(ctx context.Context, req CreateNotificationRequest) (*model.Notification, error) {
	notification := &model.Notification{
		UserID:   req.UserID,
		NoticeID: req.NoticeID,
		Type:     req.Type,
		Category: req.Category,
		Title:    req.Title,
		Message:  req.Message,
		Read:     false,
	}

	if req.Metadata != nil {
		metadataJSON, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		notification.Metadata = datatypes.JSON(metadataJSON)
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return notification, nil
}

// FanOutNotice creates one notification per user in the notice audience.
// "staff" reaches staff and admin users of the institute; "students"
// reaches viewer accounts; "all" reaches every active user. Runs in a
// single transaction so a partial fan-out is never visible.
func (s *NotificationService) FanOutNotice(ctx context.Context, notice *model.Notice) (int, error) {
	query := s.db.WithContext(ctx).Model(&model.User{}).
		Where("is_active = ?", true).
		Where("institute_id = ? OR institute_id IS NULL", notice.InstituteID)

	switch notice.Audience {
	case model.NoticeAudienceStaff:
		query = query.Where("role IN ?", []string{model.RoleAdmin, model.RoleStaff})
	case model.NoticeAudienceStudents:
		query = query.Where("role = ?", model.RoleViewer)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		return 0, err
	}

	metadata, err := json.Marshal(model.NotificationMetadata{
		InstituteID: notice.InstituteID,
		NoticeID:    notice.ID,
		Audience:    notice.Audience,
	})
	if err != nil {
		return 0, err
	}

	created := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, user := range users {
			notification := model.Notification{
				UserID:   user.ID,
				NoticeID: &notice.ID,
				Type:     model.NotificationTypeInfo,
				Category: model.NotificationCategoryNotice,
				Title:    notice.Title,
				Message:  notice.Body,
				Metadata: datatypes.JSON(metadata),
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// ListNotificationsOptions represents options for listing notifications
type ListNotificationsOptions struct {
	UserID     uint
	UnreadOnly bool
	Category   string
	Page       int
	Limit      int
}

// ListNotifications returns a page of the user's notifications, newest first
func (s *NotificationService) ListNotifications(ctx context.Context, opts ListNotificationsOptions) ([]model.Notification, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ?", opts.UserID)

	if opts.UnreadOnly {
		query = query.Where("read = ?", false)
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 20
	}

	var notifications []model.Notification
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkRead marks a single notification as read, scoped to its owner
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead marks all of a user's notifications as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

// UnreadCount returns the user's unread notification count
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
