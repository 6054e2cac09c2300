package lead

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		want    int
	}{
		{"minimal", Contact{ProjectType: "Other", Message: "short"}, 10},
		{"high value with company and long message", Contact{
			ProjectType: "Web Application",
			Company:     "Acme",
			Message:     strings.Repeat("a", 150),
		}, 55},
		{"everything", Contact{
			ProjectType: "E-commerce Store",
			Company:     "Acme",
			Message:     strings.Repeat("a", 250),
		}, 60},
		{"blank company ignored", Contact{ProjectType: "Landing Page", Company: "   ", Message: "hello there"}, 10},
		{"boundary 100 is not long", Contact{ProjectType: "Other", Message: strings.Repeat("a", 100)}, 10},
		{"boundary 101", Contact{ProjectType: "Other", Message: strings.Repeat("a", 101)}, 20},
		{"boundary 200", Contact{ProjectType: "Other", Message: strings.Repeat("a", 200)}, 20},
		{"boundary 201", Contact{ProjectType: "Other", Message: strings.Repeat("a", 201)}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.contact))
		})
	}
}

func TestScoreRange(t *testing.T) {
	types := append([]string{"", "Other", "Mobile App"}, HighValueProjectTypes...)
	for _, pt := range types {
		for _, company := range []string{"", "Acme"} {
			for _, n := range []int{0, 50, 101, 201, 5000} {
				c := Contact{ProjectType: pt, Company: company, Message: strings.Repeat("x", n)}
				got := Score(c)
				assert.GreaterOrEqual(t, got, 0)
				assert.LessOrEqual(t, got, 100)
				assert.Equal(t, got, Score(c), "deterministic")
			}
		}
	}
}
