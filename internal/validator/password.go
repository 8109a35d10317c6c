package validator

import (
	"strings"
	"unicode"
)

const specialChars = `!@#$%^&*(),.?":{}|<>`

var commonPasswords = map[string]bool{
	"password":    true,
	"password1!":  true,
	"12345678":    true,
	"qwerty":      true,
	"abc123":      true,
	"password123": true,
	"admin123":    true,
	"passw0rd!":   true,
	"1q2w3e4r":    true,
}

type passwordTraits struct {
	upper, lower, digit, special bool
}

func traitsOf(password string) passwordTraits {
	var tr passwordTraits
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			tr.upper = true
		case unicode.IsLower(r):
			tr.lower = true
		case unicode.IsDigit(r):
			tr.digit = true
		}
		if strings.ContainsRune(specialChars, r) {
			tr.special = true
		}
	}
	return tr
}

// ValidatePassword checks password against the security policy and returns
// one message per violated rule. An empty result means the password is
// acceptable.
func ValidatePassword(password string) []string {
	var problems []string
	tr := traitsOf(password)

	if len(password) < 8 {
		problems = append(problems, "Password must be at least 8 characters long")
	}
	if !tr.upper {
		problems = append(problems, "Password must contain at least one uppercase letter")
	}
	if !tr.lower {
		problems = append(problems, "Password must contain at least one lowercase letter")
	}
	if !tr.digit {
		problems = append(problems, "Password must contain at least one digit")
	}
	if !tr.special {
		problems = append(problems, "Password must contain at least one special character ("+specialChars+")")
	}
	if commonPasswords[strings.ToLower(password)] {
		problems = append(problems, "Password is too common, choose a more secure one")
	}
	return problems
}

// Strength is a 0..4 password score with improvement hints.
type Strength struct {
	Score    int      `json:"score"`
	Strength string   `json:"strength"`
	Feedback []string `json:"feedback"`
}

// PasswordStrength scores a password from 0 to 4. Length and character
// classes add to the score, lower case and digits count half.
func PasswordStrength(password string) Strength {
	var score float64
	feedback := []string{}
	tr := traitsOf(password)

	if len(password) >= 8 {
		score++
	} else {
		feedback = append(feedback, "Use at least 8 characters")
	}
	if tr.upper {
		score++
	} else {
		feedback = append(feedback, "Add uppercase letters")
	}
	if tr.lower {
		score += 0.5
	} else {
		feedback = append(feedback, "Add lowercase letters")
	}
	if tr.digit {
		score += 0.5
	} else {
		feedback = append(feedback, "Add digits")
	}
	if tr.special {
		score++
	} else {
		feedback = append(feedback, "Add special characters")
	}
	if len(password) >= 12 {
		score++
	}
	final := min(int(score), 4)
	return Strength{Score: final, Strength: strengthLabel(final), Feedback: feedback}
}

func strengthLabel(score int) string {
	switch {
	case score < 2:
		return "weak"
	case score < 3:
		return "fair"
	case score < 4:
		return "good"
	default:
		return "strong"
	}
}
