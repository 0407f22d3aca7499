package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockprep/config"
	"github.com/lshigami/mockprep/internal/controller"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/middleware"
	"github.com/lshigami/mockprep/internal/service"
	"github.com/rs/zerolog/log"
)

type SubmissionController struct {
	submissionService service.SubmissionService
	maxUploadBytes    int64
}

func NewSubmissionController(submissionService service.SubmissionService, cfg *config.Config) *SubmissionController {
	return &SubmissionController{
		submissionService: submissionService,
		maxUploadBytes:    cfg.Media.MaxUploadBytes,
	}
}

// SubmitMCQ godoc
// @Summary Submit a multiple-choice test
// @Description Grades the answers against every MCQ question of the course and difficulty. Unanswered questions count as wrong.
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission body dto.SubmitMCQRequest true "MCQ answers"
// @Success 201 {object} dto.SubmissionResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "No questions for course and difficulty"
// @Failure 502 {object} dto.ErrorResponse "Storage failure"
// @Router /submit/mcq [post]
func (c *SubmissionController) SubmitMCQ(ctx *gin.Context) {
	var req dto.SubmitMCQRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, "SubmitMCQ", err)
		return
	}

	result, err := c.submissionService.SubmitMCQ(ctx.Request.Context(), userID(ctx), req)
	if err != nil {
		controller.RespondError(ctx, "SubmitMCQ", err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// SubmitText godoc
// @Summary Submit a free-text answer
// @Description Scores the answer by keyword coverage. With question_id only that question's keywords are used.
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission body dto.SubmitTextRequest true "Text answer"
// @Success 201 {object} dto.SubmissionResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or empty answer"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "No questions for course and difficulty"
// @Router /submit/text [post]
func (c *SubmissionController) SubmitText(ctx *gin.Context) {
	var req dto.SubmitTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, "SubmitText", err)
		return
	}

	result, err := c.submissionService.SubmitText(ctx.Request.Context(), userID(ctx), req)
	if err != nil {
		controller.RespondError(ctx, "SubmitText", err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// SubmitVoice godoc
// @Summary Submit a voice answer
// @Description Transcribes the uploaded audio, scores the transcript by keyword coverage and stores the recording.
// @Tags Submissions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param course_id formData int true "Course ID"
// @Param difficulty formData string true "easy, medium or hard"
// @Param question_id formData int false "Question ID"
// @Param audio formData file true "Recorded answer"
// @Success 201 {object} dto.SubmissionResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid form or missing audio"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "No questions for course and difficulty"
// @Failure 413 {object} dto.ErrorResponse "Upload too large"
// @Failure 502 {object} dto.ErrorResponse "Transcription or storage failure"
// @Router /submit/voice [post]
func (c *SubmissionController) SubmitVoice(ctx *gin.Context) {
	c.submitMedia(ctx, "SubmitVoice", "audio", c.submissionService.SubmitVoice)
}

// SubmitVideo godoc
// @Summary Submit a video answer
// @Description Extracts frames from the video, transcribes it, scores the transcript by keyword coverage and stores the video and frames.
// @Tags Submissions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param course_id formData int true "Course ID"
// @Param difficulty formData string true "easy, medium or hard"
// @Param question_id formData int false "Question ID"
// @Param video formData file true "Recorded answer"
// @Success 201 {object} dto.SubmissionResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid form or missing video"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "No questions for course and difficulty"
// @Failure 413 {object} dto.ErrorResponse "Upload too large"
// @Failure 502 {object} dto.ErrorResponse "Media analysis or storage failure"
// @Router /submit/video [post]
func (c *SubmissionController) SubmitVideo(ctx *gin.Context) {
	c.submitMedia(ctx, "SubmitVideo", "video", c.submissionService.SubmitVideo)
}

type mediaSubmitter func(ctx context.Context, userID uint, req dto.SubmitMediaRequest, media service.MediaFile) (*dto.SubmissionResultDTO, error)

func (c *SubmissionController) submitMedia(ctx *gin.Context, op, field string, submit mediaSubmitter) {
	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	var req dto.SubmitMediaRequest
	if err := ctx.ShouldBind(&req); err != nil {
		if isTooLarge(err) {
			c.tooLarge(ctx, op)
			return
		}
		controller.BindError(ctx, op, err)
		return
	}

	media, err := c.readMedia(ctx, field)
	if err != nil {
		if isTooLarge(err) {
			c.tooLarge(ctx, op)
			return
		}
		log.Warn().Err(err).Msgf("%s: failed to read %s upload", op, field)
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: fmt.Sprintf("Could not read %s file", field), Details: []string{err.Error()}})
		return
	}

	result, err := submit(ctx.Request.Context(), userID(ctx), req, media)
	if err != nil {
		controller.RespondError(ctx, op, err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// readMedia returns an empty MediaFile when the field is absent so the
// service can report the missing upload.
func (c *SubmissionController) readMedia(ctx *gin.Context, field string) (service.MediaFile, error) {
	header, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return service.MediaFile{}, nil
	}
	if err != nil {
		return service.MediaFile{}, err
	}

	f, err := header.Open()
	if err != nil {
		return service.MediaFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.MediaFile{}, err
	}
	return service.MediaFile{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	}, nil
}

func (c *SubmissionController) tooLarge(ctx *gin.Context, op string) {
	log.Warn().Int64("limit", c.maxUploadBytes).Msgf("%s: upload exceeds limit", op)
	ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
		Message: fmt.Sprintf("Upload exceeds the %d byte limit", c.maxUploadBytes),
	})
}

// isTooLarge also matches on the message because multipart parsing does not
// always wrap the reader error.
func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// userID is 0 when the route is not behind middleware.Auth; the service
// rejects that as unauthorized.
func userID(ctx *gin.Context) uint {
	if claims := middleware.CurrentUser(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}
