package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

func unreadCountKey(userID int64) string {
	return fmt.Sprintf("unread_count_%d", userID)
}

// notify persists a notification, queues its delivery event, and drops the
// cached unread count. Failures are logged, not surfaced; a lost notification
// must never fail the operation that caused it.
func (h *Handler) notify(userID int64, title, message, kind, link string) {
	n := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
		Link:    link,
	}
	if err := h.repository.CreateNotification(n); err != nil {
		slog.Error("failed to store notification", "user", userID, "type", kind, "error", err)
		return
	}

	h.invalidateUnreadCount(userID)

	user, err := h.repository.GetUserByID(userID)
	if err != nil {
		slog.Error("failed to load notification recipient", "user", userID, "error", err)
		return
	}

	event := domain.NotificationEvent{
		Notification: *n,
		Email:        user.Email,
		FullName:     user.FullName(),
	}
	if err := h.publisher.Publish(event); err != nil {
		slog.Error("failed to queue notification event", "user", userID, "type", kind, "error", err)
	}
}

func (h *Handler) invalidateUnreadCount(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := h.redisClient.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
		slog.Warn("failed to invalidate unread count cache", "user", userID, "error", err)
	}
}

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	notifications, err := h.repository.GetNotificationsByUser(actor.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "notifications fetched", notifications)
}

func (h *Handler) GetUnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type payload struct {
		Count int64 `json:"count"`
	}

	// Badge polling is frequent enough to be worth a short-lived cache.
	cached, err := h.redisClient.Get(r.Context(), unreadCountKey(actor.ID)).Result()
	if err == nil {
		count, parseErr := strconv.ParseInt(cached, 10, 64)
		if parseErr == nil {
			h.successResponse(w, r, "unread count fetched", payload{Count: count})
			return
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("unread count cache read failed", "user", actor.ID, "error", err)
	}

	count, err := h.repository.CountUnreadNotifications(actor.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ttl := time.Duration(h.config.Redis.UnreadCountTTL) * time.Second
	if err := h.redisClient.Set(r.Context(), unreadCountKey(actor.ID), count, ttl).Err(); err != nil {
		slog.Warn("unread count cache write failed", "user", actor.ID, "error", err)
	}

	h.successResponse(w, r, "unread count fetched", payload{Count: count})
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid notification id")
		return
	}

	n, err := h.repository.GetNotificationByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "notification not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if n.UserID != actor.ID {
		h.errorResponse(w, r, "not your notification")
		return
	}

	if err := h.repository.MarkNotificationRead(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	n.IsRead = true

	h.invalidateUnreadCount(actor.ID)

	h.successResponse(w, r, "notification marked read", n)
}

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.MarkAllNotificationsRead(actor.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateUnreadCount(actor.ID)

	h.successResponse(w, r, "all notifications marked read", nil)
}
