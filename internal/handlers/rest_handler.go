package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/msgs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/services"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RestHandler struct {
	chatService         *services.ChatService
	notificationService *services.NotificationService
	deviceService       *services.DeviceService
	engagementService   *services.EngagementService
	dedupService        *services.DedupService
	fileManagerService  *services.FileManagerService
}

func NewRestHandler(
	chatService *services.ChatService,
	notificationService *services.NotificationService,
	deviceService *services.DeviceService,
	engagementService *services.EngagementService,
	dedupService *services.DedupService,
	fileManagerService *services.FileManagerService,
) *RestHandler {
	return &RestHandler{
		chatService:         chatService,
		notificationService: notificationService,
		deviceService:       deviceService,
		engagementService:   engagementService,
		dedupService:        dedupService,
		fileManagerService:  fileManagerService,
	}
}

// statusFor maps service sentinels onto HTTP status codes. Anything the
// services did not classify is a 500.
func statusFor(err error) int {
	switch err {
	case errs.ErrUnauthorized:
		return http.StatusUnauthorized
	case errs.ErrForbidden:
		return http.StatusForbidden
	case errs.ErrNotFound:
		return http.StatusNotFound
	case errs.ErrInvalidParticipants,
		errs.ErrEmptyMessage,
		errs.ErrInvalidKind,
		errs.ErrMissingFields,
		errs.ErrInvalidRequestBody,
		errs.ErrInvalidParams,
		errs.ErrInvalidToken,
		errs.ErrInvalidPlatform,
		errs.ErrNoFileUploaded:
		return http.StatusBadRequest
	case errs.ErrStorageNotReady:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(statusFor(err), models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  []error{err},
	})
}

// mustUserID pulls the authenticated user id or writes a 401.
func mustUserID(ctx *gin.Context) (uint, bool) {
	userID := utils.GetUserIdFromContext(ctx)
	if userID < 1 {
		respondError(ctx, errs.ErrUnauthorized)
		return 0, false
	}
	return userID, true
}

// uintParam parses a positive integer path param or writes a 400.
func uintParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		respondError(ctx, errs.ErrInvalidParams)
		return 0, false
	}
	return uint(parsed), true
}

// pagination reads page/size query params, falling back to 1/10.
func pagination(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.Query("size"))
	if err != nil || size < 1 {
		size = 10
	}
	return page, size
}

// Health godoc
// @Summary      Liveness probe
// @Produce      json
// @Success      200  {object}  models.Response
// @Router       /healthz [get]
func (rh *RestHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
	})
}

// CreateConversation godoc
// @Summary      Get or create the single conversation with another user
// @Description  Returns the oldest existing pair conversation or creates one. One side must be a doctor.
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateConversationRequestBody  true  "Other participant"
// @Success      200   {object}  models.Response
// @Failure      400   {object}  models.Response
// @Router       /api/v1/conversations [post]
func (rh *RestHandler) CreateConversation(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}

	var body models.CreateConversationRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	conversation, err := rh.chatService.GetOrCreateConversation(userID, body.ParticipantID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgConversationCreated,
		Data:    conversation,
	})
}

// GetUserConversations godoc
// @Summary      List the caller's conversations, duplicates collapsed
// @Tags         conversations
// @Produce      json
// @Success      200  {object}  models.Response
// @Router       /api/v1/conversations [get]
func (rh *RestHandler) GetUserConversations(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}

	conversations, err := rh.chatService.GetUserConversations(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversations,
	})
}

// SendMessage godoc
// @Summary      Send a message into a conversation
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Param        id    path      int                            true  "Conversation ID"
// @Param        body  body      models.SendMessageRequestBody  true  "Message body and attachments"
// @Success      200   {object}  models.Response
// @Failure      400   {object}  models.Response
// @Failure      403   {object}  models.Response
// @Failure      404   {object}  models.Response
// @Router       /api/v1/conversations/{id}/messages [post]
func (rh *RestHandler) SendMessage(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}
	conversationID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var body models.SendMessageRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	message, err := rh.chatService.SendMessage(conversationID, userID, body.Body, body.Attachments)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgMessageSent,
		Data:    message,
	})
}

func (rh *RestHandler) GetConversationMessages(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}
	conversationID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	page, size := pagination(ctx)

	messages, err := rh.chatService.GetConversationMessages(conversationID, userID, page, size)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    messages,
	})
}

func (rh *RestHandler) MarkSeen(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}
	conversationID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	marked, err := rh.chatService.MarkSeen(conversationID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgMessagesMarkedSeen,
		Data:    gin.H{"marked": marked},
	})
}

func (rh *RestHandler) UploadChatAttachment(ctx *gin.Context) {
	if _, ok := mustUserID(ctx); !ok {
		return
	}

	file, err := ctx.FormFile("attachment")
	if err != nil {
		respondError(ctx, errs.ErrNoFileUploaded)
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(ctx, errs.ErrNoFileUploaded)
		return
	}
	defer src.Close()

	fileName := fmt.Sprintf("chat_attachment_%s%s", uuid.NewString(), filepath.Ext(file.Filename))
	url, err := rh.fileManagerService.UploadChatAttachment(fileName, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    gin.H{"url": url, "mimeType": file.Header.Get("Content-Type")},
	})
}
