package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// ProfileJobID is the sentinel job id of the submission holding an applicant's base CV.
const ProfileJobID = "__profile__"

// scanString reads a text column into a string for the enum scanners below.
func scanString(value interface{}, typeName string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("failed to scan %s: value is not string or []byte", typeName)
	}
}

// --- Role Enum ---
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleHirer     Role = "hirer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleApplicant, RoleHirer, RoleAdmin:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface for Role
func (r *Role) Scan(value interface{}) error {
	s, err := scanString(value, "Role")
	if err != nil {
		return err
	}
	if !Role(s).Valid() {
		return fmt.Errorf("invalid Role value: %s", s)
	}
	*r = Role(s)
	return nil
}

// Value implements the driver.Valuer interface for Role
func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

// --- Status Step Enum ---
// StatusStep is the moderation escalation a hirer has reached.
type StatusStep string

const (
	StatusStepNone     StatusStep = "none"
	StatusStepNotice   StatusStep = "notice"
	StatusStepDeletion StatusStep = "deletion"
	StatusStepBan      StatusStep = "ban"
	StatusStepBanned   StatusStep = "banned"
)

func (s StatusStep) Valid() bool {
	switch s {
	case StatusStepNone, StatusStepNotice, StatusStepDeletion, StatusStepBan, StatusStepBanned:
		return true
	}
	return false
}

// IsWarning reports whether the step is one an admin sends as a notice.
func (s StatusStep) IsWarning() bool {
	return s == StatusStepNotice || s == StatusStepDeletion || s == StatusStepBan
}

// Scan implements the sql.Scanner interface for StatusStep
func (s *StatusStep) Scan(value interface{}) error {
	str, err := scanString(value, "StatusStep")
	if err != nil {
		return err
	}
	if str == "" {
		*s = StatusStepNone
		return nil
	}
	if !StatusStep(str).Valid() {
		return fmt.Errorf("invalid StatusStep value: %s", str)
	}
	*s = StatusStep(str)
	return nil
}

// Value implements the driver.Valuer interface for StatusStep
func (s StatusStep) Value() (driver.Value, error) {
	if s == "" {
		return string(StatusStepNone), nil
	}
	return string(s), nil
}

// --- Submission Status Enum ---
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionAccepted SubmissionStatus = "accepted"
	SubmissionRejected SubmissionStatus = "rejected"
)

// IsDecision reports whether the status is a hirer's final outcome.
func (s SubmissionStatus) IsDecision() bool {
	return s == SubmissionAccepted || s == SubmissionRejected
}

// Scan implements the sql.Scanner interface for SubmissionStatus
func (s *SubmissionStatus) Scan(value interface{}) error {
	str, err := scanString(value, "SubmissionStatus")
	if err != nil {
		return err
	}
	v := SubmissionStatus(str)
	switch v {
	case SubmissionPending, SubmissionAccepted, SubmissionRejected:
		*s = v
		return nil
	default:
		return fmt.Errorf("invalid SubmissionStatus value: %s", str)
	}
}

// Value implements the driver.Valuer interface for SubmissionStatus
func (s SubmissionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// --- Report Reason Enum ---
type ReportReason string

const (
	ReasonScam         ReportReason = "scam"
	ReasonUnresponsive ReportReason = "unresponsive"
	ReasonFakeListing  ReportReason = "fakeListing"
	ReasonSpam         ReportReason = "spam"
	ReasonOther        ReportReason = "other"
)

// ReportReasons lists the reasons a reporter can pick, in display order.
var ReportReasons = []ReportReason{ReasonScam, ReasonUnresponsive, ReasonFakeListing, ReasonSpam, ReasonOther}

func (r ReportReason) Valid() bool {
	for _, known := range ReportReasons {
		if r == known {
			return true
		}
	}
	return false
}

// Label is the human readable text shown next to a reason.
func (r ReportReason) Label() string {
	switch r {
	case ReasonScam:
		return "Scam or fraud"
	case ReasonUnresponsive:
		return "Hirer is unresponsive"
	case ReasonFakeListing:
		return "Fake listing"
	case ReasonSpam:
		return "Spam"
	case ReasonOther:
		return "Other"
	}
	return string(r)
}

// SocialLinks are the optional public contact links on a profile.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty" firestore:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty" firestore:"instagram,omitempty"`
	X         string `json:"x,omitempty" bson:"x,omitempty" firestore:"xLink,omitempty"`
	Gmail     string `json:"gmail,omitempty" bson:"gmail,omitempty" firestore:"gmail,omitempty"`
}

// User is an applicant, hirer or admin account.
type User struct {
	ID            string      `json:"id" db:"id" bson:"_id" firestore:"-"`
	Role          Role        `json:"role" db:"role" bson:"role" firestore:"role"`
	FirstName     string      `json:"first_name" db:"first_name" bson:"first_name" firestore:"firstName"`
	LastName      string      `json:"last_name" db:"last_name" bson:"last_name" firestore:"lastName"`
	Email         string      `json:"email" db:"email" bson:"email" firestore:"email"`
	About         string      `json:"about" db:"about" bson:"about" firestore:"about"`
	SocialLinks   SocialLinks `json:"social_links" db:"social_links" bson:"social_links" firestore:"socialLinks"`
	ProfileImage  string      `json:"profile_image,omitempty" db:"profile_image" bson:"profile_image" firestore:"profileImage"`
	Certified     bool        `json:"certified" db:"certified" bson:"certified" firestore:"certified"`
	StatusStep    StatusStep  `json:"status_step" db:"status_step" bson:"status_step" firestore:"statusStep"`
	Banned        bool        `json:"banned" db:"banned" bson:"banned" firestore:"banned"`
	TotalLikes    int         `json:"total_likes" db:"total_likes" bson:"total_likes" firestore:"totalLikes"`
	TotalReports  int         `json:"total_reports" db:"total_reports" bson:"total_reports" firestore:"totalReports"`
	CVURL         string      `json:"cv_url,omitempty" db:"cv_url" bson:"cv_url" firestore:"cvUrl"`
	EmailVerified bool        `json:"email_verified" db:"email_verified" bson:"email_verified" firestore:"emailVerified"`
	PasswordHash  string      `json:"-" db:"password_hash" bson:"password_hash" firestore:"passwordHash"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at" bson:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at" bson:"updated_at" firestore:"updatedAt"`
}

// DisplayName joins first and last name, falling back to the email.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// UserUpdate carries the fields to change on a User. Nil fields are left untouched.
type UserUpdate struct {
	Role          *Role
	FirstName     *string
	LastName      *string
	About         *string
	SocialLinks   *SocialLinks
	ProfileImage  *string
	Certified     *bool
	StatusStep    *StatusStep
	Banned        *bool
	CVURL         *string
	EmailVerified *bool
}

// Apply copies the set fields onto u.
func (upd UserUpdate) Apply(u *User) {
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.About != nil {
		u.About = *upd.About
	}
	if upd.SocialLinks != nil {
		u.SocialLinks = *upd.SocialLinks
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = *upd.ProfileImage
	}
	if upd.Certified != nil {
		u.Certified = *upd.Certified
	}
	if upd.StatusStep != nil {
		u.StatusStep = *upd.StatusStep
	}
	if upd.Banned != nil {
		u.Banned = *upd.Banned
	}
	if upd.CVURL != nil {
		u.CVURL = *upd.CVURL
	}
	if upd.EmailVerified != nil {
		u.EmailVerified = *upd.EmailVerified
	}
}

// Job is a listing posted by a hirer, with its engagement counters.
type Job struct {
	ID           string         `json:"id" db:"id" bson:"_id" firestore:"-"`
	HirerID      string         `json:"hirer_id" db:"hirer_id" bson:"hirer_id" firestore:"hirerId"`
	Position     string         `json:"position" db:"position" bson:"position" firestore:"position"`
	CompanyName  string         `json:"company_name" db:"company_name" bson:"company_name" firestore:"companyName"`
	Location     string         `json:"location" db:"location" bson:"location" firestore:"location"`
	Salary       float64        `json:"salary" db:"salary" bson:"salary" firestore:"salary"`
	Description  string         `json:"description" db:"description" bson:"description" firestore:"description"`
	JobImage     string         `json:"job_image,omitempty" db:"job_image" bson:"job_image" firestore:"jobImage"`
	Frozen       bool           `json:"frozen" db:"frozen" bson:"frozen" firestore:"frozen"`
	LikedBy      []string       `json:"liked_by" db:"liked_by" bson:"liked_by" firestore:"likedBy"`
	LikesCount   int            `json:"likes_count" db:"likes_count" bson:"likes_count" firestore:"likesCount"`
	ReportedBy   []string       `json:"reported_by" db:"reported_by" bson:"reported_by" firestore:"reportedBy"`
	ReportsCount int            `json:"reports_count" db:"reports_count" bson:"reports_count" firestore:"reportsCount"`
	ReasonCounts map[string]int `json:"reason_counts" db:"reason_counts" bson:"reason_counts" firestore:"reasonCounts"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at" bson:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at" bson:"updated_at" firestore:"updatedAt"`
}

// LikedByUser reports whether userID is in LikedBy.
func (j Job) LikedByUser(userID string) bool {
	return contains(j.LikedBy, userID)
}

// ReportedByUser reports whether userID is in ReportedBy.
func (j Job) ReportedByUser(userID string) bool {
	return contains(j.ReportedBy, userID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// JobFilter narrows a job listing. Results are ordered by CreatedAt, newest first.
type JobFilter struct {
	HirerID string
	Frozen  *bool
	Limit   int
}

// JobUpdate carries the content fields a hirer may edit.
type JobUpdate struct {
	Position    *string
	CompanyName *string
	Location    *string
	Salary      *float64
	Description *string
	JobImage    *string
}

// Apply copies the set fields onto j.
func (upd JobUpdate) Apply(j *Job) {
	if upd.Position != nil {
		j.Position = *upd.Position
	}
	if upd.CompanyName != nil {
		j.CompanyName = *upd.CompanyName
	}
	if upd.Location != nil {
		j.Location = *upd.Location
	}
	if upd.Salary != nil {
		j.Salary = *upd.Salary
	}
	if upd.Description != nil {
		j.Description = *upd.Description
	}
	if upd.JobImage != nil {
		j.JobImage = *upd.JobImage
	}
}

// Report is one account's complaint about a job.
type Report struct {
	ID         string         `json:"id" db:"id" bson:"_id" firestore:"-"`
	JobID      string         `json:"job_id" db:"job_id" bson:"job_id" firestore:"jobId"`
	ReporterID string         `json:"reporter_id" db:"reporter_id" bson:"reporter_id" firestore:"reporterId"`
	Reasons    []ReportReason `json:"reasons" db:"reasons" bson:"reasons" firestore:"reasons"`
	Note       string         `json:"note" db:"note" bson:"note" firestore:"note"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at" bson:"created_at" firestore:"createdAt"`
}

// Submission is an applicant's CV link for a job, or for their profile when JobID is ProfileJobID.
type Submission struct {
	ID          string           `json:"id" db:"id" bson:"_id" firestore:"-"`
	UserID      string           `json:"user_id" db:"user_id" bson:"user_id" firestore:"userId"`
	JobID       string           `json:"job_id" db:"job_id" bson:"job_id" firestore:"jobId"`
	PDFURL      string           `json:"pdf_url" db:"pdf_url" bson:"pdf_url" firestore:"pdfUrl"`
	Status      SubmissionStatus `json:"status" db:"status" bson:"status" firestore:"status"`
	SubmittedAt time.Time        `json:"submitted_at" db:"submitted_at" bson:"submitted_at" firestore:"submittedAt"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at" bson:"updated_at" firestore:"updatedAt"`
	DecidedAt   *time.Time       `json:"decided_at,omitempty" db:"decided_at" bson:"decided_at,omitempty" firestore:"decidedAt"`
}

// IsProfile reports whether s is the applicant's base CV record.
func (s Submission) IsProfile() bool {
	return s.JobID == ProfileJobID
}

// Like mirrors one entry of Job.LikedBy for admin display.
type Like struct {
	ID        string    `json:"id" db:"id" bson:"_id" firestore:"-"`
	JobID     string    `json:"job_id" db:"job_id" bson:"job_id" firestore:"jobId"`
	UserID    string    `json:"user_id" db:"user_id" bson:"user_id" firestore:"userId"`
	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"created_at" firestore:"createdAt"`
}
