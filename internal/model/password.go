package model

// PasswordRequirements configures a single policy evaluation. A zero value is
// not useful; start from DefaultPasswordRequirements.
type PasswordRequirements struct {
	MinLength              int  `json:"min_length" mapstructure:"min_length"`
	MaxLength              int  `json:"max_length" mapstructure:"max_length"`
	RequireUppercase       bool `json:"require_uppercase" mapstructure:"require_uppercase"`
	RequireLowercase       bool `json:"require_lowercase" mapstructure:"require_lowercase"`
	RequireNumbers         bool `json:"require_numbers" mapstructure:"require_numbers"`
	RequireSymbols         bool `json:"require_symbols" mapstructure:"require_symbols"`
	MaxRepeatingChars      int  `json:"max_repeating_chars" mapstructure:"max_repeating_chars"`
	PreventCommonPasswords bool `json:"prevent_common_passwords" mapstructure:"prevent_common_passwords"`
	PreventPersonalInfo    bool `json:"prevent_personal_info" mapstructure:"prevent_personal_info"`
}

// DefaultPasswordRequirements returns the policy applied to new credentials.
func DefaultPasswordRequirements() PasswordRequirements {
	return PasswordRequirements{
		MinLength:              12,
		MaxLength:              128,
		RequireUppercase:       true,
		RequireLowercase:       true,
		RequireNumbers:         true,
		RequireSymbols:         true,
		MaxRepeatingChars:      3,
		PreventCommonPasswords: true,
		PreventPersonalInfo:    true,
	}
}

// PersonalInfo is the optional user context checked against password content.
type PersonalInfo struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// PasswordStrength is one of six ordered tiers derived from the score.
type PasswordStrength string

const (
	StrengthVeryWeak   PasswordStrength = "very-weak"
	StrengthWeak       PasswordStrength = "weak"
	StrengthFair       PasswordStrength = "fair"
	StrengthGood       PasswordStrength = "good"
	StrengthStrong     PasswordStrength = "strong"
	StrengthVeryStrong PasswordStrength = "very-strong"
)

// StrengthForScore maps a clamped score onto its tier.
func StrengthForScore(score int) PasswordStrength {
	switch {
	case score < 20:
		return StrengthVeryWeak
	case score < 40:
		return StrengthWeak
	case score < 60:
		return StrengthFair
	case score < 80:
		return StrengthGood
	case score < 95:
		return StrengthStrong
	default:
		return StrengthVeryStrong
	}
}

// PasswordValidationResult is the verdict of a policy evaluation.
// IsValid holds exactly when Errors is empty; warnings never block.
type PasswordValidationResult struct {
	IsValid  bool             `json:"is_valid"`
	Errors   []string         `json:"errors"`
	Warnings []string         `json:"warnings"`
	Strength PasswordStrength `json:"strength"`
	Score    int              `json:"score"`
}
