package service

import (
	"testing"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCertificateFixture() (*CertificateService, *fakeEnrollments, *fakeCatalog, *fakeSubmissions) {
	catalog := newFakeCatalog()
	enrollments := newFakeEnrollments()
	submissions := newFakeSubmissions()
	grading := NewGradingService(testPolicy())
	grades := NewGradeService(submissions, catalog, enrollments, &fakeCache{}, grading)
	svc := NewCertificateService(newFakeCertificates(), enrollments, grades)
	return svc, enrollments, catalog, submissions
}

func passedEnrollment(enrollments *fakeEnrollments) {
	enrollments.enrollments[subKey(testUser, testCourse)] = &model.Enrollment{
		UserID:      testUser,
		CourseID:    testCourse,
		IsCompleted: true,
		IsPassed:    boolPtr(true),
	}
}

func TestCertificateGetNotEnrolled(t *testing.T) {
	svc, _, _, _ := newCertificateFixture()

	_, err := svc.Get(testUser, testCourse)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestCertificateGetNotEligible(t *testing.T) {
	svc, enrollments, _, _ := newCertificateFixture()
	enrollments.enroll(testUser, testCourse)

	view, err := svc.Get(testUser, testCourse)
	require.NoError(t, err)
	assert.False(t, view.Eligible)
	assert.Nil(t, view.Certificate)
	assert.NotNil(t, view.Snapshot)
}

func TestCertificateIssueBeforeEligibility(t *testing.T) {
	svc, enrollments, _, _ := newCertificateFixture()
	enrollments.enroll(testUser, testCourse)

	_, err := svc.Issue(testUser, testCourse)
	assert.ErrorIs(t, err, util.ErrCertificateNotReady)
}

func TestCertificateIssueIsIdempotent(t *testing.T) {
	svc, enrollments, _, _ := newCertificateFixture()
	passedEnrollment(enrollments)

	first, err := svc.Issue(testUser, testCourse)
	require.NoError(t, err)
	assert.NotEmpty(t, first.SerialNo)

	second, err := svc.Issue(testUser, testCourse)
	require.NoError(t, err)
	assert.Equal(t, first.SerialNo, second.SerialNo)

	view, err := svc.Get(testUser, testCourse)
	require.NoError(t, err)
	assert.True(t, view.Eligible)
	require.NotNil(t, view.Certificate)
	assert.Equal(t, first.SerialNo, view.Certificate.SerialNo)
}
