package model

// ContentType tags a lesson with the kind of material it carries. The
// variant decides both the player rendering and the completion policy.
type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentText     ContentType = "text"
	ContentCode     ContentType = "code"
	ContentQuiz     ContentType = "quiz"
	ContentProject  ContentType = "project"
	ContentResource ContentType = "resource"
)

// RequiresSubmission reports whether completion of this content type is
// driven by the submission workflow rather than a direct learner action.
func (t ContentType) RequiresSubmission() bool {
	switch t {
	case ContentQuiz, ContentProject:
		return true
	}
	return false
}

func (t ContentType) Valid() bool {
	switch t {
	case ContentVideo, ContentText, ContentCode, ContentQuiz, ContentProject, ContentResource:
		return true
	}
	return false
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID uint `gorm:"uniqueIndex:idx_course_step;index;type:bigint unsigned" json:"courseId"`
	// StepNumber is dense and ascending within a course, starting at 1.
	StepNumber    int         `gorm:"uniqueIndex:idx_course_step;not null" json:"stepNumber"`
	Title         string      `gorm:"size:255;not null" json:"title"`
	ContentType   ContentType `gorm:"size:20;not null" json:"contentType"`
	IsPreview     bool        `gorm:"default:false" json:"isPreview"`
	Body          string      `gorm:"type:text" json:"body,omitempty"`
	VideoURL      string      `gorm:"size:255" json:"videoUrl,omitempty"`
	VideoDuration float64     `gorm:"default:0" json:"videoDuration,omitempty"` // seconds
	ResourceURL   string      `gorm:"size:255" json:"resourceUrl,omitempty"`
	ProjectBrief  string      `gorm:"type:text" json:"projectBrief,omitempty"`

	// Quiz is populated only for quiz lessons.
	Quiz *Quiz `gorm:"foreignKey:LessonID" json:"quiz,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
