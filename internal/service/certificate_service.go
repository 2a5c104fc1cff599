package service

import (
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// CertificateService renders certificate state for the downstream consumer.
// It never authorizes issuance itself; the grade service's eligibility gate
// is the only authority.
type CertificateService struct {
	Certificates CertificateStore
	Enrollments  EnrollmentStore
	Grades       *GradeService
}

func NewCertificateService(certificates CertificateStore, enrollments EnrollmentStore, grades *GradeService) *CertificateService {
	return &CertificateService{
		Certificates: certificates,
		Enrollments:  enrollments,
		Grades:       grades,
	}
}

// CertificateView is what the certificate renderer consumes: either the
// issued certificate or the not-eligible state.
type CertificateView struct {
	Eligible    bool                 `json:"eligible"`
	Certificate *model.Certificate   `json:"certificate,omitempty"`
	Snapshot    *model.GradeSnapshot `json:"gradeSnapshot,omitempty"`
}

// Get returns the certificate state without issuing anything.
func (s *CertificateService) Get(userID, courseID uint) (*CertificateView, error) {
	enrollment, err := s.Enrollments.Find(userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, util.ErrNotEnrolled
	}

	snap, err := s.Grades.Snapshot(userID, courseID)
	if err != nil {
		return nil, err
	}

	view := &CertificateView{
		Eligible: s.Grades.IsCertificateEligible(enrollment, snap),
		Snapshot: snap,
	}

	cert, err := s.Certificates.Find(userID, courseID)
	if err != nil {
		return nil, err
	}
	view.Certificate = cert
	return view, nil
}

// Issue creates the certificate record once the gate passes. Issuing twice
// returns the existing certificate.
func (s *CertificateService) Issue(userID, courseID uint) (*model.Certificate, error) {
	enrollment, err := s.Enrollments.Find(userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, util.ErrNotEnrolled
	}

	snap, err := s.Grades.Snapshot(userID, courseID)
	if err != nil {
		return nil, err
	}

	if !s.Grades.IsCertificateEligible(enrollment, snap) {
		return nil, util.ErrCertificateNotReady
	}

	existing, err := s.Certificates.Find(userID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	cert := &model.Certificate{
		UserID:   userID,
		CourseID: courseID,
		SerialNo: model.GenerateUUID(),
		IssuedAt: time.Now(),
	}
	if err := s.Certificates.Create(cert); err != nil {
		return nil, err
	}

	monitoring.CertificatesIssuedTotal.Inc()
	logger.Log.Info("certificate issued",
		zap.Uint("userId", userID),
		zap.Uint("courseId", courseID),
		zap.String("serial", cert.SerialNo),
	)

	return cert, nil
}
