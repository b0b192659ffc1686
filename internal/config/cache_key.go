package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's login session
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// CourseContentKey returns the cache key for a published course's
// student-facing content payload (answers stripped)
func (r *CacheKeyStruct) CourseContentKey(courseID string) string {
	return fmt.Sprintf("course:%s:content", courseID)
}

// CourseTotalsKey returns the cache key for a course's item totals used by
// progress recomputation
func (r *CacheKeyStruct) CourseTotalsKey(courseID string) string {
	return fmt.Sprintf("course:%s:totals", courseID)
}

// ExamKey returns the cache key for a published exam's full document
// (answer key included — never served to students directly)
func (r *CacheKeyStruct) ExamKey(courseID, examID string) string {
	return fmt.Sprintf("course:%s:exam:%s:key", courseID, examID)
}

// ExamSubmittedKey returns the key claimed atomically on first submission of
// an exam by a student
func (r *CacheKeyStruct) ExamSubmittedKey(studentID, courseID, examID string) string {
	return fmt.Sprintf("student:%s:course:%s:exam:%s:submitted", studentID, courseID, examID)
}

var CacheKey = NewCacheKeyStruct()
