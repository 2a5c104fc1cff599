package repository

import (
	"time"

	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var c model.Course
	err := r.DB.First(&c, id).Error
	return &c, err
}

func (r *CourseRepository) List(page, limit int, publishedOnly bool) ([]model.Course, int64, error) {
	var cs []model.Course
	var total int64
	query := r.DB.Model(&model.Course{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&cs).Error
	return cs, total, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Publish(id uint) error {
	now := time.Now()
	return r.DB.Model(&model.Course{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_published": true, "published_at": &now}).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}
