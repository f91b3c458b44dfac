package models

// Course represents basic course metadata from the LMS.
type Course struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
}

// User represents the profile nested inside an enrollment.
type User struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	LoginID string `json:"login_id"`
	Email   string `json:"email"`
}

// Enrollment represents a user's membership in a course with a role and state.
type Enrollment struct {
	ID       int    `json:"id"`
	UserID   int    `json:"user_id"`
	CourseID int    `json:"course_id"`
	Type     string `json:"type"`
	State    string `json:"enrollment_state"`
	User     User   `json:"user"`
}

// DisplayName returns the enrolled user's name, or a placeholder when the
// API omitted it.
func (e Enrollment) DisplayName() string {
	if e.User.Name == "" {
		return "Unknown Name"
	}
	return e.User.Name
}

// ContactEmail returns the best available address for the enrolled user,
// preferring the login ID over the email field.
func (e Enrollment) ContactEmail() string {
	if e.User.LoginID != "" {
		return e.User.LoginID
	}
	if e.User.Email != "" {
		return e.User.Email
	}
	return "No Email"
}

// EnrollmentRequest describes one enrollment to create.
type EnrollmentRequest struct {
	UserID int    // LMS user ID of the person to enroll
	Type   string // Enrollment role, e.g. "StudentEnrollment" or "TaEnrollment"
	State  string // Initial state, defaults to "active"
	Notify bool   // Whether the LMS should notify the user
}

// ErrorRecord captures one failed enrollment attempt for the CSV report.
type ErrorRecord struct {
	UserID  int    `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Type    string `json:"enrollment_type"`
	Status  int    `json:"status"`
	Message string `json:"error_message"`
	Attempt string `json:"attempt"`
}

// CloneSummary holds the final counters for a clone run.
type CloneSummary struct {
	Enrolled int  `json:"enrolled"`
	Skipped  int  `json:"skipped"`
	Failed   int  `json:"failed"`
	DryRun   bool `json:"dry_run"`
}
