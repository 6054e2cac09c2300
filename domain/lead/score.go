// Package lead holds pure lead qualification logic.
package lead

import (
	"strings"
	"unicode/utf8"
)

const (
	baseScore        = 10
	highValueBonus   = 20
	companyBonus     = 15
	longMessageBonus = 10
	essayBonus       = 5
	maxScore         = 100

	longMessage = 100
	essay       = 200
)

// HighValueProjectTypes earn the project type bonus.
var HighValueProjectTypes = []string{"Web Application", "E-commerce Store"}

// Contact is the part of a contact submission the score looks at.
type Contact struct {
	ProjectType string
	Company     string
	Message     string
}

// Score rates a contact enquiry from 0 to 100. It is computed once when the
// lead is created.
func Score(c Contact) int {
	score := baseScore

	for _, t := range HighValueProjectTypes {
		if c.ProjectType == t {
			score += highValueBonus
			break
		}
	}
	if strings.TrimSpace(c.Company) != "" {
		score += companyBonus
	}

	n := utf8.RuneCountInString(c.Message)
	if n > longMessage {
		score += longMessageBonus
	}
	if n > essay {
		score += essayBonus
	}

	if score > maxScore {
		return maxScore
	}
	return score
}
