package repository

import (
	"context"

	"github.com/lshigami/mockprep/internal/model"
	"gorm.io/gorm"
)

// CourseWithCount is a course row plus the number of live questions.
type CourseWithCount struct {
	model.Course
	QuestionCount int
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	FindAllWithQuestionCount(ctx context.Context, categoryID *uint) ([]CourseWithCount, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uint) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return translate(r.db.WithContext(ctx).Create(course).Error, "course", course.ID)
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, translate(err, "course", id)
	}
	return &course, nil
}

func (r *courseRepository) FindAllWithQuestionCount(ctx context.Context, categoryID *uint) ([]CourseWithCount, error) {
	var results []CourseWithCount
	query := r.db.WithContext(ctx).Model(&model.Course{}).
		Select("courses.*, (SELECT COUNT(*) FROM questions WHERE questions.course_id = courses.id AND questions.deleted_at IS NULL) as question_count").
		Where("courses.deleted_at IS NULL")
	if categoryID != nil {
		query = query.Where("courses.category_id = ?", *categoryID)
	}
	if err := query.Order("courses.created_at DESC").Scan(&results).Error; err != nil {
		return nil, translate(err, "courses", 0)
	}
	return results, nil
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	return translate(r.db.WithContext(ctx).Save(course).Error, "course", course.ID)
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Course{}, id)
	if res.Error != nil {
		return translate(res.Error, "course", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "course", id)
	}
	return nil
}
