package repository

import (
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) Create(c *model.Certificate) error {
	return r.DB.Create(c).Error
}

func (r *CertificateRepository) Find(userID, courseID uint) (*model.Certificate, error) {
	var c model.Certificate
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
