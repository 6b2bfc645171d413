package enums

import (
	"fmt"
	"strings"
)

// TestimonialStatus filters testimonials in the back office.
type TestimonialStatus string

const (
	TestimonialStatusAll      TestimonialStatus = "ALL"
	TestimonialStatusPending  TestimonialStatus = "PENDING"
	TestimonialStatusApproved TestimonialStatus = "APPROVED"
)

var validTestimonialStatuses = []TestimonialStatus{
	TestimonialStatusAll,
	TestimonialStatusPending,
	TestimonialStatusApproved,
}

// String implements fmt.Stringer.
func (s TestimonialStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TestimonialStatus.
func (s TestimonialStatus) IsValid() bool {
	for _, candidate := range validTestimonialStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTestimonialStatus converts raw input into a TestimonialStatus; empty input maps to ALL.
func ParseTestimonialStatus(value string) (TestimonialStatus, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return TestimonialStatusAll, nil
	}
	for _, candidate := range validTestimonialStatuses {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid testimonial status %q", value)
}
