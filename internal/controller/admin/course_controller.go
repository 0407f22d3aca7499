package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockprep/internal/controller"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/service"
)

type CourseController struct {
	courseService   service.CourseService
	categoryService service.CategoryService
}

func NewCourseController(courseService service.CourseService, categoryService service.CategoryService) *CourseController {
	return &CourseController{courseService: courseService, categoryService: categoryService}
}

// CreateCourse godoc
// @Summary (Admin) Create a course
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course body dto.CourseCreateDTO true "Course data"
// @Success 201 {object} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /admin/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, "Admin CreateCourse", err)
		return
	}
	course, err := c.courseService.CreateCourse(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Admin CreateCourse", err)
		return
	}
	ctx.JSON(http.StatusCreated, course)
}

// UpdateCourse godoc
// @Summary (Admin) Update a course
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param course body dto.CourseCreateDTO true "Course data"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Course or category not found"
// @Router /admin/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.CourseCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, "Admin UpdateCourse", err)
		return
	}
	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, "Admin UpdateCourse", err)
		return
	}
	ctx.JSON(http.StatusOK, course)
}

// DeleteCourse godoc
// @Summary (Admin) Delete a course
// @Description Deleting a course also drops its cached question pools. Recorded sessions are kept.
// @Tags Admin - Courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /admin/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, "Admin DeleteCourse", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Course deleted"})
}

// CreateCategory godoc
// @Summary (Admin) Create a category
// @Tags Admin - Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body dto.CategoryCreateDTO true "Category data"
// @Success 201 {object} dto.CategoryResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 409 {object} dto.ErrorResponse "Slug already used"
// @Router /admin/categories [post]
func (c *CourseController) CreateCategory(ctx *gin.Context) {
	var req dto.CategoryCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, "Admin CreateCategory", err)
		return
	}
	category, err := c.categoryService.CreateCategory(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Admin CreateCategory", err)
		return
	}
	ctx.JSON(http.StatusCreated, category)
}

// DeleteCategory godoc
// @Summary (Admin) Delete a category
// @Tags Admin - Categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /admin/categories/{id} [delete]
func (c *CourseController) DeleteCategory(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.categoryService.DeleteCategory(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, "Admin DeleteCategory", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Category deleted"})
}
