package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/embodywellness/member-api/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("tier", validateTier); err != nil {
		panic(fmt.Sprintf("failed to register tier validator: %v", err))
	}
	if err := Validate.RegisterValidation("message_sender", validateMessageSender); err != nil {
		panic(fmt.Sprintf("failed to register message_sender validator: %v", err))
	}
}

// validateTier validates that a string is a valid Tier enum value
func validateTier(fl validator.FieldLevel) bool {
	return models.Tier(fl.Field().String()).IsValid()
}

// validateMessageSender validates that a string is a valid MessageSender enum value
func validateMessageSender(fl validator.FieldLevel) bool {
	return models.MessageSender(fl.Field().String()).IsValid()
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateTier validates a Tier string value
func ValidateTier(value string) error {
	if !models.Tier(value).IsValid() {
		return fmt.Errorf("invalid tier: %s (must be 'foundation', 'transformation', or 'lifetime')", value)
	}
	return nil
}
