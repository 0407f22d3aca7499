package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockprep/internal/controller"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/middleware"
	"github.com/lshigami/mockprep/internal/service"
)

type ResultController struct {
	resultService service.ResultService
}

func NewResultController(resultService service.ResultService) *ResultController {
	return &ResultController{resultService: resultService}
}

// GetResults godoc
// @Summary List a user's test sessions
// @Description Returns every completed session of the user, newest first, with the average score. Users may only read their own results unless they are admins.
// @Tags Results
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} dto.ResultsDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Results of another user"
// @Failure 502 {object} dto.ErrorResponse "Session store unavailable"
// @Router /results/{userId} [get]
func (c *ResultController) GetResults(ctx *gin.Context) {
	id, ok := ownerOrAdmin(ctx, "userId", "You can only view your own results")
	if !ok {
		return
	}

	results, err := c.resultService.GetResults(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, "GetResults", err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}

// GetNextDifficulty godoc
// @Summary Recommend the next difficulty
// @Description Averages the user's session scores and maps the average onto easy (< 0.4), medium (<= 0.7) or hard.
// @Tags Results
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} dto.NextDifficultyDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Results of another user"
// @Failure 502 {object} dto.ErrorResponse "Session store unavailable"
// @Router /next-difficulty/{userId} [get]
func (c *ResultController) GetNextDifficulty(ctx *gin.Context) {
	id, ok := ownerOrAdmin(ctx, "userId", "You can only view your own results")
	if !ok {
		return
	}

	next, err := c.resultService.GetNextDifficulty(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, "GetNextDifficulty", err)
		return
	}
	ctx.JSON(http.StatusOK, next)
}

// GetSession godoc
// @Summary Get one test session
// @Description Returns a recorded session with its graded answers and media artifacts.
// @Tags Results
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.TestSessionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Session of another user"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id} [get]
func (c *ResultController) GetSession(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	claims := middleware.CurrentUser(ctx)
	if claims == nil {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	session, err := c.resultService.GetSession(ctx.Request.Context(), id, claims.UserID, claims.IsAdmin())
	if err != nil {
		controller.RespondError(ctx, "GetSession", err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// ownerOrAdmin reads the user id path parameter and checks that the caller
// is that user or an admin. It writes the error response itself.
func ownerOrAdmin(ctx *gin.Context, param, forbidden string) (uint, bool) {
	id, ok := controller.ParseID(ctx, param)
	if !ok {
		return 0, false
	}
	claims := middleware.CurrentUser(ctx)
	if claims == nil {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return 0, false
	}
	if claims.UserID != id && !claims.IsAdmin() {
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: forbidden})
		return 0, false
	}
	return id, true
}
