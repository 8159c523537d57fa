package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	socketModels "github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models/socket"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/msgs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/presence"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/services"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// SocketGatewayHandler owns the single websocket endpoint. A connection
// is keyed by the authenticated user, not by conversation: joining once
// subscribes the device to everything addressed to that user. Inbound
// frames carry an event name and a raw payload; unknown events and
// malformed payloads are dropped with a log line, never answered, so a
// misbehaving client cannot learn anything from the socket.
type SocketGatewayHandler struct {
	upgrader    websocket.Upgrader
	registry    *presence.Registry
	chatService *services.ChatService
	callService *services.CallService
}

func NewSocketGatewayHandler(
	registry *presence.Registry,
	chatService *services.ChatService,
	callService *services.CallService,
) *SocketGatewayHandler {
	return &SocketGatewayHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		registry:    registry,
		chatService: chatService,
		callService: callService,
	}
}

// HandleSocketRoute authenticates the upgrade request and hands the
// connection to the read loop. Auth failures are rejected before the
// upgrade so the client gets a plain HTTP status.
func (sgh *SocketGatewayHandler) HandleSocketRoute(ctx *gin.Context) {
	jwtToken := ctx.GetHeader("Authorization")
	if strings.Contains(jwtToken, "Bearer") {
		jwtToken = strings.Replace(jwtToken, "Bearer ", "", 1)
	}
	if jwtToken == "" {
		jwtToken = ctx.Query("token")
	}
	if jwtToken == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	claims, err := utils.VerifyToken(jwtToken, utils.GetJwtKey())
	if err != nil || claims.ID == 0 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	sgh.handleConnection(ctx, claims.ID)
}

func (sgh *SocketGatewayHandler) handleConnection(ctx *gin.Context, userID uint) {
	ws, err := sgh.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warn("failed to upgrade connection", "userId", userID, "error", err)
		return
	}

	client := sgh.registry.Join(userID, ws)
	defer func() {
		sgh.registry.Leave(client)
		if err := ws.Close(); err != nil {
			logger.Debug("error closing connection", "userId", userID, "error", err)
		}
	}()

	logger.Debug("socket connected", "userId", userID)
	sgh.readLoop(ws, userID)
	logger.Debug("socket disconnected", "userId", userID)
}

func (sgh *SocketGatewayHandler) readLoop(ws *websocket.Conn, userID uint) {
	for {
		var event socketModels.SocketEvent
		if err := ws.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("socket read failed", "userId", userID, "error", err)
			}
			return
		}

		switch event.Event {
		case enums.SOCKET_EVENT_SEND_TYPING:
			sgh.handleTypingEvent(event.Payload, userID, false)
		case enums.SOCKET_EVENT_SEND_STOP_TYPING:
			sgh.handleTypingEvent(event.Payload, userID, true)
		case enums.SOCKET_EVENT_CALL_INITIATE:
			sgh.handleCallInitiateEvent(event.Payload, userID)
		case enums.SOCKET_EVENT_CALL_ACCEPT:
			sgh.handleCallAcceptEvent(event.Payload, userID)
		case enums.SOCKET_EVENT_CALL_HANGUP:
			sgh.handleCallEndEvent(event.Payload, userID)
		default:
			logger.Warn("unknown socket event", "userId", userID, "event", event.Event)
		}
	}
}

func (sgh *SocketGatewayHandler) handleTypingEvent(payload json.RawMessage, userID uint, stop bool) {
	var typing socketModels.SendTypingPayload
	if err := json.Unmarshal(payload, &typing); err != nil {
		logger.Warn("malformed typing payload", "userId", userID, "error", err)
		return
	}
	if err := sgh.chatService.RelayTyping(typing.ConversationID, userID, stop); err != nil {
		logger.Warn("typing relay dropped", "userId", userID, "conversationId", typing.ConversationID, "error", err)
	}
}

func (sgh *SocketGatewayHandler) handleCallInitiateEvent(payload json.RawMessage, userID uint) {
	var initiate socketModels.CallInitiatePayload
	if err := json.Unmarshal(payload, &initiate); err != nil {
		logger.Warn("malformed call initiate payload", "userId", userID, "error", err)
		return
	}
	if _, err := sgh.callService.Initiate(userID, initiate.CalleeID, initiate.ConversationID, initiate.Kind); err != nil {
		logger.Warn("call initiate dropped", "callerId", userID, "calleeId", initiate.CalleeID, "error", err)
	}
}

func (sgh *SocketGatewayHandler) handleCallAcceptEvent(payload json.RawMessage, userID uint) {
	var accept socketModels.CallAcceptPayload
	if err := json.Unmarshal(payload, &accept); err != nil {
		logger.Warn("malformed call accept payload", "userId", userID, "error", err)
		return
	}
	if err := sgh.callService.Accept(userID, accept.CallerID); err != nil {
		logger.Warn("call accept dropped", "calleeId", userID, "callerId", accept.CallerID, "error", err)
	}
}

func (sgh *SocketGatewayHandler) handleCallEndEvent(payload json.RawMessage, userID uint) {
	var end socketModels.CallEndPayload
	if err := json.Unmarshal(payload, &end); err != nil {
		logger.Warn("malformed call end payload", "userId", userID, "error", err)
		return
	}
	if err := sgh.callService.End(userID, end.OtherUserID); err != nil {
		logger.Warn("call end dropped", "userId", userID, "otherUserId", end.OtherUserID, "error", err)
	}
}
