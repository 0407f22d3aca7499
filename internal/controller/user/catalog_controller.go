package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockprep/internal/controller"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/service"
)

// CatalogController serves the read-only course catalog used to pick a test.
type CatalogController struct {
	categoryService service.CategoryService
	courseService   service.CourseService
	questionService service.QuestionService
}

func NewCatalogController(
	categoryService service.CategoryService,
	courseService service.CourseService,
	questionService service.QuestionService,
) *CatalogController {
	return &CatalogController{
		categoryService: categoryService,
		courseService:   courseService,
		questionService: questionService,
	}
}

// ListCategories godoc
// @Summary List course categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} dto.CategoryResponseDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /categories [get]
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.categoryService.ListCategories(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "ListCategories", err)
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Get a category
// @Tags Catalog
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} dto.CategoryResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid category ID"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /categories/{id} [get]
func (c *CatalogController) GetCategory(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	category, err := c.categoryService.GetCategory(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, "GetCategory", err)
		return
	}
	ctx.JSON(http.StatusOK, category)
}

// ListCourses godoc
// @Summary List courses
// @Description Lists courses with their question counts, optionally filtered by category.
// @Tags Catalog
// @Produce json
// @Param category_id query int false "Category ID"
// @Success 200 {array} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid category ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	var categoryID *uint
	if raw := ctx.Query("category_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid category_id format in query"})
			return
		}
		id := uint(v)
		categoryID = &id
	}

	courses, err := c.courseService.ListCourses(ctx.Request.Context(), categoryID)
	if err != nil {
		controller.RespondError(ctx, "ListCourses", err)
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary Get a course
// @Tags Catalog
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CatalogController) GetCourse(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	course, err := c.courseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, "GetCourse", err)
		return
	}
	ctx.JSON(http.StatusOK, course)
}

// ListQuestions godoc
// @Summary List practice questions
// @Description Returns the questions of a course at one difficulty. Answer keys are never included.
// @Tags Catalog
// @Produce json
// @Param courseId path int true "Course ID"
// @Param difficulty path string true "easy, medium or hard"
// @Success 200 {array} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID or difficulty"
// @Failure 404 {object} dto.ErrorResponse "No questions found"
// @Router /questions/{courseId}/{difficulty} [get]
func (c *CatalogController) ListQuestions(ctx *gin.Context) {
	courseID, ok := controller.ParseID(ctx, "courseId")
	if !ok {
		return
	}
	questions, err := c.questionService.ListForPractice(ctx.Request.Context(), courseID, ctx.Param("difficulty"))
	if err != nil {
		controller.RespondError(ctx, "ListQuestions", err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}
