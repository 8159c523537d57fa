package handlers

import (
	"net/http"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/msgs"

	"github.com/gin-gonic/gin"
)

// TogglePostLike godoc
// @Summary      Like or unlike a post
// @Description  Second call by the same user removes the like. The author is notified unless they liked their own post.
// @Tags         engagement
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Router       /api/v1/posts/{id}/like [post]
func (rh *RestHandler) TogglePostLike(ctx *gin.Context) {
	rh.toggleLike(ctx, enums.TARGET_POST)
}

func (rh *RestHandler) ToggleReelLike(ctx *gin.Context) {
	rh.toggleLike(ctx, enums.TARGET_REEL)
}

func (rh *RestHandler) AddPostComment(ctx *gin.Context) {
	rh.addComment(ctx, enums.TARGET_POST)
}

func (rh *RestHandler) AddReelComment(ctx *gin.Context) {
	rh.addComment(ctx, enums.TARGET_REEL)
}

func (rh *RestHandler) ListPostComments(ctx *gin.Context) {
	rh.listComments(ctx, enums.TARGET_POST)
}

func (rh *RestHandler) ListReelComments(ctx *gin.Context) {
	rh.listComments(ctx, enums.TARGET_REEL)
}

func (rh *RestHandler) toggleLike(ctx *gin.Context, targetType string) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}
	targetID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	result, err := rh.engagementService.ToggleLike(userID, targetType, targetID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    result,
	})
}

func (rh *RestHandler) addComment(ctx *gin.Context, targetType string) {
	userID, ok := mustUserID(ctx)
	if !ok {
		return
	}
	targetID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var body models.AddCommentRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	comment, err := rh.engagementService.AddComment(userID, targetType, targetID, body.Content)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    comment,
	})
}

func (rh *RestHandler) listComments(ctx *gin.Context, targetType string) {
	if _, ok := mustUserID(ctx); !ok {
		return
	}
	targetID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	page, size := pagination(ctx)

	comments, total, err := rh.engagementService.ListComments(targetType, targetID, page, size)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    gin.H{"comments": comments, "total": total},
	})
}
