package service

import (
	"testing"

	"github.com/learngate/learngate-backend/internal/model"
)

func TestEnrollStatus(t *testing.T) {
	free := &model.Course{PriceCents: 0}
	paid := &model.Course{PriceCents: 4999}

	if got := enrollStatus(free); got != model.EnrollmentStatusActive {
		t.Errorf("free course status = %s, want ACTIVE", got)
	}
	if got := enrollStatus(paid); got != model.EnrollmentStatusPending {
		t.Errorf("paid course status = %s, want PENDING", got)
	}
}

// A student who cancelled must be able to enroll again; every other existing
// row is a duplicate.
func TestCanReenroll(t *testing.T) {
	cases := []struct {
		status model.EnrollmentStatus
		want   bool
	}{
		{model.EnrollmentStatusCancelled, true},
		{model.EnrollmentStatusPending, false},
		{model.EnrollmentStatusActive, false},
		{model.EnrollmentStatusCompleted, false},
	}
	for _, c := range cases {
		if got := canReenroll(c.status); got != c.want {
			t.Errorf("canReenroll(%s) = %v, want %v", c.status, got, c.want)
		}
	}
}
