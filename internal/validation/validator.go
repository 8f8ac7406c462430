package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"brand-plan/internal/domain"
)

const (
	maxNicheLength    = 200
	maxURLLength      = 500
	maxCVTextLength   = 20000
	maxFileNameLength = 255
)

var validULID = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateQuizInput validates a complete questionnaire before generation.
func (v *Validator) ValidateQuizInput(input domain.QuizInput) domain.ValidationErrors {
	errors := v.ValidateQuizDraft(input)

	if strings.TrimSpace(input.Niche) == "" {
		errors = append(errors, domain.NewMissingFieldError("niche"))
	}
	if strings.TrimSpace(input.CVText) == "" && strings.TrimSpace(input.ProfileURL) == "" {
		errors = append(errors, domain.NewMissingFieldError("cv_text"))
	}

	return errors
}

// ValidateQuizDraft validates wizard answers that may still be incomplete.
func (v *Validator) ValidateQuizDraft(input domain.QuizInput) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if !input.Objective.IsValid() {
		errors = append(errors, domain.NewInvalidChoiceError("objective", input.Objective, objectiveNames()))
	}
	if !input.SocialNetwork.IsValid() {
		errors = append(errors, domain.NewInvalidChoiceError("social_network", input.SocialNetwork, networkNames()))
	}
	if !input.DailyTime.IsValid() {
		errors = append(errors, domain.NewInvalidChoiceError("daily_time", input.DailyTime, dailyTimeNames()))
	}

	if n := utf8.RuneCountInString(input.Niche); n > maxNicheLength {
		errors = append(errors, domain.NewOutOfRangeError("niche", n, 1, maxNicheLength))
	}
	if n := utf8.RuneCountInString(input.CVText); n > maxCVTextLength {
		errors = append(errors, domain.NewOutOfRangeError("cv_text", n, 0, maxCVTextLength))
	}
	if n := utf8.RuneCountInString(input.CVFileName); n > maxFileNameLength {
		errors = append(errors, domain.NewOutOfRangeError("cv_file_name", n, 0, maxFileNameLength))
	}

	if profileURL := strings.TrimSpace(input.ProfileURL); profileURL != "" {
		if len(profileURL) > maxURLLength {
			errors = append(errors, domain.NewOutOfRangeError("profile_url", len(profileURL), 0, maxURLLength))
		} else if !isValidProfileURL(profileURL) {
			errors = append(errors, domain.NewInvalidFormatError("profile_url", profileURL))
		}
	}

	return errors
}

// ValidateTask validates a checklist task sent by the client. Membership in
// the installed plan is checked by the session, so any extracted item is
// accepted whatever its length.
func (v *Validator) ValidateTask(task string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(task) == "" {
		errors = append(errors, domain.NewMissingFieldError("task"))
	}

	return errors
}

// ValidateID validates session and plan identifiers.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError(field))
	} else if !isValidULID(id) {
		errors = append(errors, domain.NewInvalidFormatError(field, id))
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	return validULID.MatchString(s)
}

func isValidProfileURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func objectiveNames() []string {
	names := make([]string, len(domain.Objectives))
	for i, o := range domain.Objectives {
		names[i] = string(o)
	}
	return names
}

func networkNames() []string {
	names := make([]string, len(domain.SocialNetworks))
	for i, n := range domain.SocialNetworks {
		names[i] = string(n)
	}
	return names
}

func dailyTimeNames() []string {
	names := make([]string, len(domain.DailyTimes))
	for i, d := range domain.DailyTimes {
		names[i] = string(d)
	}
	return names
}
