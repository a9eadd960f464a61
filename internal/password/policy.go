package password

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
)

// Scoring weights. Contributions are additive and independent so each one
// can be re-derived from the verdict.
const (
	lengthWeight    = 25.0
	uppercaseWeight = 15.0
	lowercaseWeight = 15.0
	numberWeight    = 15.0
	symbolWeight    = 20.0

	entropyThreshold = 40.0
	entropyCap       = 10.0
	entropyDivisor   = 6.0

	sequencePenalty = 10.0

	lowercaseSetSize = 26
	uppercaseSetSize = 26
	digitSetSize     = 10
	symbolSetSize    = 32
)

// Keyboard and alphabet runs checked for 3-character fragments.
var knownSequences = []string{
	"abcdefghijklmnopqrstuvwxyz",
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
	"0123456789",
	"9876543210",
}

var defaultCommonPasswords = []string{
	"password", "password1", "password123", "123456", "1234567",
	"12345678", "123456789", "1234567890", "qwerty", "qwerty123",
	"abc123", "admin", "letmein", "welcome", "welcome1", "monkey",
	"dragon", "iloveyou", "sunshine", "princess", "football",
	"baseball", "trustno1", "master", "superman", "696969",
}

// Policy evaluates password candidates against a requirement set. It is pure:
// no I/O, deterministic output for a given input.
type Policy struct {
	commonPasswords map[string]struct{}
}

// NewPolicy returns a policy with the built-in common-password deny-list.
func NewPolicy() *Policy {
	return NewPolicyWithDenyList(defaultCommonPasswords)
}

// NewPolicyWithDenyList overrides the deny-list, matched case-insensitively.
func NewPolicyWithDenyList(denyList []string) *Policy {
	common := make(map[string]struct{}, len(denyList))
	for _, p := range denyList {
		common[strings.ToLower(p)] = struct{}{}
	}
	return &Policy{commonPasswords: common}
}

// Validate scores the candidate and collects blocking errors and advisory
// warnings. The result is valid exactly when no errors were recorded.
func (p *Policy) Validate(candidate string, req model.PasswordRequirements, info *model.PersonalInfo) model.PasswordValidationResult {
	result := model.PasswordValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	length := len([]rune(candidate))
	score := 0.0

	if length < req.MinLength {
		result.Errors = append(result.Errors, fmt.Sprintf("password must be at least %d characters long", req.MinLength))
	}
	if req.MaxLength > 0 && length > req.MaxLength {
		result.Errors = append(result.Errors, fmt.Sprintf("password must not exceed %d characters", req.MaxLength))
	}

	if req.MinLength > 0 {
		score += lengthWeight * math.Min(1, float64(length)/float64(req.MinLength))
	}

	hasUpper, hasLower, hasNumber, hasSymbol := classify(candidate)

	if hasUpper {
		score += uppercaseWeight
	} else if req.RequireUppercase {
		result.Errors = append(result.Errors, "password must contain an uppercase letter")
	}
	if hasLower {
		score += lowercaseWeight
	} else if req.RequireLowercase {
		result.Errors = append(result.Errors, "password must contain a lowercase letter")
	}
	if hasNumber {
		score += numberWeight
	} else if req.RequireNumbers {
		result.Errors = append(result.Errors, "password must contain a number")
	}
	if hasSymbol {
		score += symbolWeight
	} else if req.RequireSymbols {
		result.Errors = append(result.Errors, "password must contain a symbol")
	}

	entropy := estimateEntropy(length, hasUpper, hasLower, hasNumber, hasSymbol)
	if entropy < entropyThreshold {
		result.Warnings = append(result.Warnings, "password is easily guessable, consider making it longer or more varied")
	} else {
		score += math.Min(entropyCap, entropy/entropyDivisor)
	}

	if req.MaxRepeatingChars > 0 && hasRepeatRun(candidate, req.MaxRepeatingChars) {
		result.Errors = append(result.Errors, fmt.Sprintf("password must not repeat the same character %d or more times in a row", req.MaxRepeatingChars))
	}

	if hasSequentialFragment(candidate) {
		result.Warnings = append(result.Warnings, "password contains a predictable character sequence")
		score -= sequencePenalty
	}

	if req.PreventCommonPasswords {
		if _, ok := p.commonPasswords[strings.ToLower(candidate)]; ok {
			result.Errors = append(result.Errors, "password is too common")
		}
	}

	if req.PreventPersonalInfo && info != nil && containsPersonalInfo(candidate, info) {
		result.Errors = append(result.Errors, "password must not contain your name or email")
	}

	result.Score = clampScore(score)
	result.Strength = model.StrengthForScore(result.Score)
	result.IsValid = len(result.Errors) == 0
	return result
}

func classify(s string) (hasUpper, hasLower, hasNumber, hasSymbol bool) {
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSymbol = true
		}
	}
	return
}

func estimateEntropy(length int, hasUpper, hasLower, hasNumber, hasSymbol bool) float64 {
	charset := 0
	if hasLower {
		charset += lowercaseSetSize
	}
	if hasUpper {
		charset += uppercaseSetSize
	}
	if hasNumber {
		charset += digitSetSize
	}
	if hasSymbol {
		charset += symbolSetSize
	}
	if charset == 0 {
		return 0
	}
	return float64(length) * math.Log2(float64(charset))
}

func hasRepeatRun(s string, max int) bool {
	run := 0
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= max {
			return true
		}
		prev = r
	}
	return false
}

func hasSequentialFragment(s string) bool {
	lower := strings.ToLower(s)
	runes := []rune(lower)
	for i := 0; i+3 <= len(runes); i++ {
		fragment := string(runes[i : i+3])
		for _, seq := range knownSequences {
			if strings.Contains(seq, fragment) {
				return true
			}
		}
	}
	return false
}

func containsPersonalInfo(candidate string, info *model.PersonalInfo) bool {
	lower := strings.ToLower(candidate)

	if info.Email != "" {
		email := strings.ToLower(strings.TrimSpace(info.Email))
		if at := strings.Index(email, "@"); at > 0 {
			local := email[:at]
			if len(local) > 2 && strings.Contains(lower, local) {
				return true
			}
			// Only the first domain label identifies the user; matching
			// the TLD would block "com" for every .com address.
			domain := strings.SplitN(email[at+1:], ".", 2)[0]
			if len(domain) > 2 && strings.Contains(lower, domain) {
				return true
			}
		}
	}

	if info.Name != "" {
		for _, token := range strings.Fields(strings.ToLower(info.Name)) {
			if len(token) > 2 && strings.Contains(lower, token) {
				return true
			}
		}
	}

	return false
}

func clampScore(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(math.Round(score))
}
