package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
)

func TestFanOutNoticeAudiences(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	admin := seedUser(t, db, "admin@example.com", model.RoleAdmin, &institute.ID)
	staff := seedUser(t, db, "staff@example.com", model.RoleStaff, &institute.ID)
	viewer := seedUser(t, db, "viewer@example.com", model.RoleViewer, &institute.ID)
	// Inactive users never receive fan-out
	inactive := seedUser(t, db, "former@example.com", model.RoleStaff, &institute.ID)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	svc := NewNotificationService(db)
	ctx := context.Background()

	cases := []struct {
		audience string
		want     []uint
	}{
		{model.NoticeAudienceStaff, []uint{admin.ID, staff.ID}},
		{model.NoticeAudienceStudents, []uint{viewer.ID}},
		{model.NoticeAudienceAll, []uint{admin.ID, staff.ID, viewer.ID}},
	}

	for _, tc := range cases {
		notice := model.Notice{
			InstituteID: institute.ID,
			Title:       "Exam timetable published",
			Body:        "See the exam calendar for details",
			NoticeDate:  mustDate(t, "2024-09-01"),
			Audience:    tc.audience,
			CreatedBy:   admin.ID,
		}
		require.NoError(t, db.Create(&notice).Error)

		created, err := svc.FanOutNotice(ctx, &notice)
		require.NoError(t, err)
		assert.Equal(t, len(tc.want), created, "audience %q", tc.audience)

		var rows []model.Notification
		require.NoError(t, db.Where("notice_id = ?", notice.ID).Find(&rows).Error)
		got := make([]uint, 0, len(rows))
		for _, row := range rows {
			got = append(got, row.UserID)
			assert.Equal(t, model.NotificationCategoryNotice, row.Category)
			assert.False(t, row.Read)
		}
		assert.ElementsMatch(t, tc.want, got, "audience %q", tc.audience)
	}
}

func TestFanOutNoticeScopedToInstitute(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	other := model.Institute{Name: "Other Institute", Code: "OTH", IsActive: true}
	require.NoError(t, db.Create(&other).Error)

	local := seedUser(t, db, "local@example.com", model.RoleStaff, &institute.ID)
	seedUser(t, db, "elsewhere@example.com", model.RoleStaff, &other.ID)
	global := seedUser(t, db, "super@example.com", model.RoleAdmin, nil)

	svc := NewNotificationService(db)

	notice := model.Notice{
		InstituteID: institute.ID,
		Title:       "Committee meeting",
		NoticeDate:  mustDate(t, "2024-09-01"),
		Audience:    model.NoticeAudienceAll,
		CreatedBy:   global.ID,
	}
	require.NoError(t, db.Create(&notice).Error)

	created, err := svc.FanOutNotice(context.Background(), &notice)
	require.NoError(t, err)
	assert.Equal(t, 2, created) // the local user and the institute-less super-admin

	var rows []model.Notification
	require.NoError(t, db.Where("notice_id = ?", notice.ID).Find(&rows).Error)
	got := make([]uint, 0, len(rows))
	for _, row := range rows {
		got = append(got, row.UserID)
	}
	assert.ElementsMatch(t, []uint{local.ID, global.ID}, got)
}

func TestMarkReadIsOwnerScoped(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	owner := seedUser(t, db, "owner@example.com", model.RoleStaff, &institute.ID)
	intruder := seedUser(t, db, "intruder@example.com", model.RoleStaff, &institute.ID)
	svc := NewNotificationService(db)
	ctx := context.Background()

	notification, err := svc.CreateNotification(ctx, CreateNotificationRequest{
		UserID:   owner.ID,
		Type:     model.NotificationTypeInfo,
		Category: model.NotificationCategoryGeneral,
		Title:    "hello",
	})
	require.NoError(t, err)

	err = svc.MarkRead(ctx, intruder.ID, notification.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, svc.MarkRead(ctx, owner.ID, notification.ID))

	count, err := svc.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestListAndMarkAllRead(t *testing.T) {
	db := setupTestDB(t)
	institute := seedInstitute(t, db)
	user := seedUser(t, db, "user@example.com", model.RoleStaff, &institute.ID)
	svc := NewNotificationService(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateNotification(ctx, CreateNotificationRequest{
			UserID:   user.ID,
			Type:     model.NotificationTypeInfo,
			Category: model.NotificationCategoryGeneral,
			Title:    "general",
		})
		require.NoError(t, err)
	}
	_, err := svc.CreateNotification(ctx, CreateNotificationRequest{
		UserID:   user.ID,
		Type:     model.NotificationTypeWarning,
		Category: model.NotificationCategoryLeave,
		Title:    "leave",
	})
	require.NoError(t, err)

	all, total, err := svc.ListNotifications(ctx, ListNotificationsOptions{UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 4)

	leaveOnly, total, err := svc.ListNotifications(ctx, ListNotificationsOptions{
		UserID:   user.ID,
		Category: string(model.NotificationCategoryLeave),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, leaveOnly, 1)

	count, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	updated, err := svc.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated)

	unread, total, err := svc.ListNotifications(ctx, ListNotificationsOptions{
		UserID:     user.ID,
		UnreadOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, unread)
}
