package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/services"
)

// CleanupExpiredTokens removes blacklisted JWT entries whose expiry has
// passed. Runs hourly; expired tokens fail signature validation anyway so
// the rows are only kept while they could still be presented.
func (m *CronManager) CleanupExpiredTokens() {
	jobName := "cleanup_expired_tokens"

	result := m.db.Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&model.JWTTokenBlacklist{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete expired tokens: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d expired blacklist entries", result.RowsAffected))
}

// ReconcileStockClosing recomputes the closing quantity of every product
// from its ledger rows. Runs nightly as a safety net in case a movement
// write ever lands without its recompute.
func (m *CronManager) ReconcileStockClosing() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	jobName := "reconcile_stock_closing"

	var productIDs []uint
	if err := m.db.Model(&model.Product{}).Pluck("id", &productIDs).Error; err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to list products: %w", err))
		return
	}

	stockService := services.NewStockService(m.db)
	recomputed := 0
	failed := 0

	for _, id := range productIDs {
		if _, err := stockService.RecalculateClosingQty(ctx, id); err != nil {
			log.Printf("[CRON] Failed to recompute closing qty for product %d: %v", id, err)
			failed++
			continue
		}
		recomputed++
	}

	m.logJobComplete(jobName, fmt.Sprintf("Recomputed %d products, failed %d", recomputed, failed))
}

// RemindPendingLeaves notifies admin users about leave applications that
// have been waiting on a decision for more than 7 days.
func (m *CronManager) RemindPendingLeaves() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "pending_leave_reminders"
	cutoff := time.Now().AddDate(0, 0, -7)

	var leaves []model.Leave
	err := m.db.Preload("Staff").
		Where("status = ? AND created_at < ?", model.LeavePending, cutoff).
		Find(&leaves).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to query stale leaves: %w", err))
		return
	}

	if len(leaves) == 0 {
		m.logJobComplete(jobName, "No stale pending leaves")
		return
	}

	// Group by institute so each admin gets one reminder per run
	byInstitute := make(map[uint]int)
	for _, leave := range leaves {
		byInstitute[leave.InstituteID]++
	}

	notifications := services.NewNotificationService(m.db)
	notified := 0

	for instituteID, count := range byInstitute {
		var admins []model.User
		err := m.db.Where("role = ? AND is_active = ?", model.RoleAdmin, true).
			Where("institute_id = ? OR institute_id IS NULL", instituteID).
			Find(&admins).Error
		if err != nil {
			log.Printf("[CRON] Failed to load admins for institute %d: %v", instituteID, err)
			continue
		}

		for _, admin := range admins {
			_, err := notifications.CreateNotification(ctx, services.CreateNotificationRequest{
				UserID:   admin.ID,
				Type:     model.NotificationTypeWarning,
				Category: model.NotificationCategoryLeave,
				Title:    "Pending leave applications",
				Message:  fmt.Sprintf("%d leave application(s) have been pending for more than 7 days", count),
				Metadata: &model.NotificationMetadata{InstituteID: instituteID},
			})
			if err != nil {
				log.Printf("[CRON] Failed to notify admin %d: %v", admin.ID, err)
				continue
			}
			notified++
		}
	}

	m.logJobComplete(jobName, fmt.Sprintf("Sent %d reminders for %d stale leaves", notified, len(leaves)))
}

// CleanupOldLogs removes cron job logs older than 90 days
func (m *CronManager) CleanupOldLogs() {
	jobName := "cleanup_old_logs"
	cutoff := time.Now().AddDate(0, 0, -90)

	result := m.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete old logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d old cron logs", result.RowsAffected))
}
