package handlers

import (
	"net/http"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/msgs"

	"github.com/gin-gonic/gin"
)

// DedupeConversations godoc
// @Summary      Merge duplicate pair conversations immediately
// @Description  Runs the same sweep the nightly schedule runs. Safe to call repeatedly.
// @Tags         maintenance
// @Produce      json
// @Success      200  {object}  models.Response
// @Router       /api/v1/maintenance/dedupe-conversations [post]
func (rh *RestHandler) DedupeConversations(ctx *gin.Context) {
	if _, ok := mustUserID(ctx); !ok {
		return
	}

	summary, err := rh.dedupService.Run()
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgDeduplicationFinished,
		Data:    summary,
	})
}
