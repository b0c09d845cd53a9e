package leads

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/mikeskafld/dojo-web/app/models"
	"github.com/mikeskafld/dojo-web/internal/pkg/env"
	"github.com/mikeskafld/dojo-web/internal/pkg/mail"
)

// Machine-readable error codes on a failed Result.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeInvalidEmail    = "INVALID_EMAIL"
	CodeDuplicateEmail  = "DUPLICATE_EMAIL"
	CodeUnknownError    = "UNKNOWN_ERROR"
)

// emailPattern is deliberately permissive: anything with a local part, an @
// and a dotted domain passes. The mail provider is the real arbiter.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the uniform submission outcome for both lead forms. Message is
// human-readable and safe to flash to the page; Error is empty on success.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// CreatorApplicationInput is a raw creator-form submission.
type CreatorApplicationInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Niche        string `json:"niche"`
	SocialLink   string `json:"socialLink"`
	AudienceSize string `json:"audienceSize"`
}

// LearnerWaitlistInput is a raw waitlist-form submission.
type LearnerWaitlistInput struct {
	Email     string   `json:"email"`
	Name      string   `json:"name,omitempty"`
	Interests []string `json:"interests"`
}

// Service validates and stores lead-capture submissions.
type Service struct {
	repo Repository
}

// NewService creates a lead service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a lead service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// SubmitCreatorApplication validates a creator submission and stores it.
// Validation runs before any DB access; the stored email is lower-cased.
func (s *Service) SubmitCreatorApplication(ctx context.Context, in CreatorApplicationInput) Result {
	_ = ctx

	if in.Name == "" || in.Email == "" || in.Niche == "" || in.SocialLink == "" || in.AudienceSize == "" {
		return Result{Success: false, Message: "All fields are required", Error: CodeValidationError}
	}
	if !emailPattern.MatchString(in.Email) {
		return Result{Success: false, Message: "Please enter a valid email address", Error: CodeInvalidEmail}
	}
	if u, err := url.Parse(in.SocialLink); err != nil || !u.IsAbs() || u.Host == "" {
		return Result{Success: false, Message: "Please enter a valid link to your channel", Error: CodeValidationError}
	}

	app := &models.CreatorApplication{
		Name:         in.Name,
		Email:        strings.ToLower(in.Email),
		Niche:        in.Niche,
		SocialLink:   in.SocialLink,
		AudienceSize: in.AudienceSize,
	}

	if err := s.repo.InsertCreatorApplication(app); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return Result{Success: false, Message: "This email has already been submitted", Error: CodeDuplicateEmail}
		}
		log.Errorf("[Leads] creator application insert failed: email=%s err=%v", app.Email, err)
		return Result{Success: false, Message: "Something went wrong. Please try again.", Error: err.Error()}
	}

	go notifyNewLead("New creator application", fmt.Sprintf(
		"<p><strong>%s</strong> (%s)<br>Niche: %s<br>Audience: %s<br>Link: %s</p>",
		html.EscapeString(app.Name), html.EscapeString(app.Email),
		html.EscapeString(app.Niche), html.EscapeString(app.AudienceSize),
		html.EscapeString(app.SocialLink)))

	return Result{Success: true, Message: "Application received! We'll be in touch soon."}
}

// SubmitLearnerWaitlist validates a waitlist submission and stores it.
// Name is optional and trimmed; at least one interest is required.
func (s *Service) SubmitLearnerWaitlist(ctx context.Context, in LearnerWaitlistInput) Result {
	_ = ctx

	if in.Email == "" {
		return Result{Success: false, Message: "Email is required", Error: CodeValidationError}
	}
	if !emailPattern.MatchString(in.Email) {
		return Result{Success: false, Message: "Please enter a valid email address", Error: CodeInvalidEmail}
	}
	if len(in.Interests) == 0 {
		return Result{Success: false, Message: "Please select at least one interest", Error: CodeValidationError}
	}

	entry := &models.LearnerWaitlistEntry{
		Email: strings.ToLower(in.Email),
		Name:  strings.TrimSpace(in.Name),
	}
	if err := entry.SetInterests(in.Interests); err != nil {
		log.Errorf("[Leads] waitlist interests encode failed: err=%v", err)
		return Result{Success: false, Message: "Something went wrong. Please try again.", Error: CodeUnknownError}
	}

	if err := s.repo.InsertLearnerWaitlistEntry(entry); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return Result{Success: false, Message: "This email is already on the waitlist", Error: CodeDuplicateEmail}
		}
		log.Errorf("[Leads] waitlist insert failed: email=%s err=%v", entry.Email, err)
		return Result{Success: false, Message: "Something went wrong. Please try again.", Error: err.Error()}
	}

	go notifyNewLead("New waitlist signup", fmt.Sprintf(
		"<p><strong>%s</strong><br>Interests: %s</p>",
		html.EscapeString(entry.Email), html.EscapeString(strings.Join(in.Interests, ", "))))

	return Result{Success: true, Message: "You're on the list! We'll notify you when we launch."}
}

// ListCreatorApplications returns all creator leads, newest first.
func (s *Service) ListCreatorApplications(ctx context.Context) ([]models.CreatorApplication, error) {
	_ = ctx
	return s.repo.ListCreatorApplications()
}

// ListLearnerWaitlistEntries returns all waitlist leads, newest first.
func (s *Service) ListLearnerWaitlistEntries(ctx context.Context) ([]models.LearnerWaitlistEntry, error) {
	_ = ctx
	return s.repo.ListLearnerWaitlistEntries()
}

// Counts returns the lead totals shown on the admin dashboard.
func (s *Service) Counts(ctx context.Context) (creators int64, learners int64, err error) {
	_ = ctx
	creators, err = s.repo.CountCreatorApplications()
	if err != nil {
		return 0, 0, err
	}
	learners, err = s.repo.CountLearnerWaitlistEntries()
	if err != nil {
		return 0, 0, err
	}
	return creators, learners, nil
}

// notifyNewLead mails the configured team address. Best effort; submission
// success never depends on SMTP.
func notifyNewLead(subject, body string) {
	to := env.GetEnv("LEAD_NOTIFY_EMAIL", "")
	if to == "" {
		return
	}
	if err := mail.SendMail(to, subject, body); err != nil {
		log.Warnf("[Leads] notification mail failed: %v", err)
	}
}
