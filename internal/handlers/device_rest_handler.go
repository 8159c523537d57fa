package handlers

import (
	"net/http"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/msgs"

	"github.com/gin-gonic/gin"
)

// RegisterDevice godoc
// @Summary      Register a push token for the caller
// @Description  Re-registering a known token re-points it to the caller. Oldest endpoints beyond the per-platform cap are deactivated.
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterDeviceRequestBody  true  "Token and platform"
// @Success      200   {object}  models.Response
// @Failure      400   {object}  models.Response
// @Router       /api/v1/devices [post]
func (rh *RestHandler) RegisterDevice(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}

	var body models.RegisterDeviceRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	endpoint, err := rh.deviceService.Register(userID, body.Token, body.Platform)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgDeviceRegistered,
		Data:    endpoint,
	})
}

func (rh *RestHandler) UnregisterDevice(ctx *gin.Context) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}

	var body models.UnregisterDeviceRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	if err := rh.deviceService.Unregister(userID, body.Token); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgDeviceUnregistered,
	})
}
