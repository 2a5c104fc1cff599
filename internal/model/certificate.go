package model

import "time"

// Certificate is only ever written through the eligibility gate in the
// grade service.
//
// swagger:model Certificate
type Certificate struct {
	BaseModel
	UserID   uint      `gorm:"uniqueIndex:idx_user_course_cert;index;type:bigint unsigned" json:"userId"`
	CourseID uint      `gorm:"uniqueIndex:idx_user_course_cert;type:bigint unsigned" json:"courseId"`
	SerialNo string    `gorm:"size:36;uniqueIndex" json:"serialNo"`
	IssuedAt time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
