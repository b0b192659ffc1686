package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden          ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly  ErrCode = "STUDENT_ACCESS_ONLY"
	ErrParentAccessOnly   ErrCode = "PARENT_ACCESS_ONLY"
	ErrInstructorOnly     ErrCode = "INSTRUCTOR_ACCESS_ONLY"
	ErrAdminAccessOnly    ErrCode = "ADMIN_ACCESS_ONLY"
	ErrNotCourseOwner     ErrCode = "NOT_COURSE_OWNER"
	ErrNotEnrolled        ErrCode = "NOT_ENROLLED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Course / exam ─────────────────────────────────────────────────
	ErrCourseNotPublished ErrCode = "COURSE_NOT_PUBLISHED"
	ErrCourseNotDraft     ErrCode = "COURSE_NOT_DRAFT"
	ErrPublishValidation  ErrCode = "PUBLISH_VALIDATION_FAILED"
	ErrExamNotFound       ErrCode = "EXAM_NOT_FOUND"
	ErrAlreadySubmitted   ErrCode = "EXAM_ALREADY_SUBMITTED"
	ErrVideoNotFound      ErrCode = "VIDEO_NOT_FOUND"

	// ─── Enrollment / payment ──────────────────────────────────────────
	ErrAlreadyEnrolled    ErrCode = "ALREADY_ENROLLED"
	ErrEnrollmentInactive ErrCode = "ENROLLMENT_NOT_ACTIVE"
	ErrPaymentReviewed    ErrCode = "PAYMENT_ALREADY_REVIEWED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrParentAccessOnly:
		return "This resource is restricted to parents."
	case ErrInstructorOnly:
		return "This resource is restricted to instructors."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrNotCourseOwner:
		return "You are not the instructor of this course."
	case ErrNotEnrolled:
		return "You are not enrolled in this course."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Course / exam ─────────────────────────────────────────────────
	case ErrCourseNotPublished:
		return "This course has not been published."
	case ErrCourseNotDraft:
		return "This course is not in DRAFT status."
	case ErrPublishValidation:
		return "The course content is not valid for publishing."
	case ErrExamNotFound:
		return "The exam was not found in this course."
	case ErrAlreadySubmitted:
		return "This exam has already been submitted."
	case ErrVideoNotFound:
		return "The video was not found in this course."

	// ─── Enrollment / payment ──────────────────────────────────────────
	case ErrAlreadyEnrolled:
		return "You are already enrolled in this course."
	case ErrEnrollmentInactive:
		return "This enrollment is not active yet."
	case ErrPaymentReviewed:
		return "This payment has already been reviewed."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
