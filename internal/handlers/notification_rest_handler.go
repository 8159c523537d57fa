package handlers

import (
	"net/http"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/msgs"

	"github.com/gin-gonic/gin"
)

// ListNotifications godoc
// @Summary      List the caller's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Param        filter  query     string  false  "read | unread | empty for all"
// @Param        page    query     int     false  "Page number"
// @Param        size    query     int     false  "Page size, capped server side"
// @Success      200     {object}  models.Response
// @Router       /api/v1/notifications [get]
func (rh *RestHandler) ListNotifications(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}
	page, size := pagination(ctx)

	notifications, err := rh.notificationService.List(userID, ctx.Query("filter"), page, size)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    notifications,
	})
}

func (rh *RestHandler) UnreadNotificationsCount(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}

	count, err := rh.notificationService.UnreadCount(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    gin.H{"unread": count},
	})
}

func (rh *RestHandler) MarkNotificationRead(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}
	notificationID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	if err := rh.notificationService.MarkRead(notificationID, userID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgNotificationsRead,
	})
}

func (rh *RestHandler) MarkAllNotificationsRead(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}

	marked, err := rh.notificationService.MarkAllRead(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgNotificationsRead,
		Data:    gin.H{"marked": marked},
	})
}

func (rh *RestHandler) DeleteNotification(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}
	notificationID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	if err := rh.notificationService.Delete(notificationID, userID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgNotificationDeleted,
	})
}
