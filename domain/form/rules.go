package form

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// RuleKind names a validation constraint
type RuleKind string

const (
	RuleRequired  RuleKind = "required"
	RuleMinLength RuleKind = "min_length"
	RuleMaxLength RuleKind = "max_length"
	RulePattern   RuleKind = "pattern"
	RuleRange     RuleKind = "range"
	RuleOneOf     RuleKind = "one_of"
	RuleInteger   RuleKind = "integer"
)

// Named formats accepted by pattern rules in place of a regex.
const (
	FormatEmail = "email"
	FormatURL   = "url"
)

// Rule is one declarative constraint on a field value.
type Rule struct {
	Kind    RuleKind `yaml:"kind"`
	N       int      `yaml:"n,omitempty"`
	Regex   string   `yaml:"regex,omitempty"`
	Format  string   `yaml:"format,omitempty"`
	Min     float64  `yaml:"min,omitempty"`
	Max     float64  `yaml:"max,omitempty"`
	Values  []string `yaml:"values,omitempty"`
	Message string   `yaml:"message"`

	re *regexp.Regexp
}

func Required(message string) Rule {
	return Rule{Kind: RuleRequired, Message: message}
}

func MinLength(n int, message string) Rule {
	return Rule{Kind: RuleMinLength, N: n, Message: message}
}

func MaxLength(n int, message string) Rule {
	return Rule{Kind: RuleMaxLength, N: n, Message: message}
}

// Pattern matches the trimmed value against a regular expression. It panics
// on an invalid expression, like regexp.MustCompile.
func Pattern(expr, message string) Rule {
	return Rule{Kind: RulePattern, Regex: expr, Message: message, re: regexp.MustCompile(expr)}
}

func Email(message string) Rule {
	return Rule{Kind: RulePattern, Format: FormatEmail, Message: message}
}

func URL(message string) Rule {
	return Rule{Kind: RulePattern, Format: FormatURL, Message: message}
}

func Range(min, max float64, message string) Rule {
	return Rule{Kind: RuleRange, Min: min, Max: max, Message: message}
}

// Integer rejects numbers with a fractional part.
func Integer(message string) Rule {
	return Rule{Kind: RuleInteger, Message: message}
}

func OneOf(values []string, message string) Rule {
	return Rule{Kind: RuleOneOf, Values: append([]string(nil), values...), Message: message}
}

// compile checks the rule definition and prepares its regex.
func (r *Rule) compile() error {
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("%s rule needs a message", r.Kind)
	}
	switch r.Kind {
	case RuleRequired, RuleInteger:
	case RuleMinLength, RuleMaxLength:
		if r.N < 0 {
			return fmt.Errorf("%s rule needs n >= 0", r.Kind)
		}
	case RulePattern:
		switch {
		case r.Format != "":
			if r.Format != FormatEmail && r.Format != FormatURL {
				return fmt.Errorf("unknown pattern format %q", r.Format)
			}
		case r.Regex != "":
			re, err := regexp.Compile(r.Regex)
			if err != nil {
				return fmt.Errorf("invalid pattern %q: %w", r.Regex, err)
			}
			r.re = re
		default:
			return fmt.Errorf("pattern rule needs regex or format")
		}
	case RuleRange:
		if r.Min > r.Max {
			return fmt.Errorf("range rule has min %v > max %v", r.Min, r.Max)
		}
	case RuleOneOf:
		if len(r.Values) == 0 {
			return fmt.Errorf("one_of rule needs values")
		}
	default:
		return fmt.Errorf("unknown rule kind %q", r.Kind)
	}
	return nil
}

// check reports whether value satisfies the rule.
func (r Rule) check(value any) bool {
	switch r.Kind {
	case RuleRequired:
		return !isEmpty(value)
	case RuleMinLength:
		n, ok := length(value)
		return ok && n >= r.N
	case RuleMaxLength:
		n, ok := length(value)
		return ok && n <= r.N
	case RulePattern:
		s, ok := asString(value)
		if !ok {
			return false
		}
		return r.matches(strings.TrimSpace(s))
	case RuleRange:
		n, ok := asNumber(value)
		return ok && n >= r.Min && n <= r.Max
	case RuleInteger:
		n, ok := asNumber(value)
		return ok && n == math.Trunc(n)
	case RuleOneOf:
		if s, ok := asString(value); ok {
			return r.allows(strings.TrimSpace(s))
		}
		list, ok := asList(value)
		if !ok {
			return false
		}
		for _, item := range list {
			if !r.allows(item) {
				return false
			}
		}
		return true
	}
	return false
}

func (r Rule) matches(s string) bool {
	switch r.Format {
	case FormatEmail:
		return looksLikeEmail(s)
	case FormatURL:
		return looksLikeURL(s)
	}
	re := r.re
	if re == nil {
		compiled, err := regexp.Compile(r.Regex)
		if err != nil {
			return false
		}
		re = compiled
	}
	return re.MatchString(s)
}

func (r Rule) allows(s string) bool {
	for _, allowed := range r.Values {
		if s == allowed {
			return true
		}
	}
	return false
}

// length counts characters after trimming for strings and items for sets.
// A missing value has length zero.
func length(value any) (int, bool) {
	if value == nil {
		return 0, true
	}
	if s, ok := asString(value); ok {
		return utf8.RuneCountInString(strings.TrimSpace(s)), true
	}
	if list, ok := asList(value); ok {
		return len(list), true
	}
	return 0, false
}

// looksLikeEmail accepts anything with an "@" followed by a non-empty
// domain. Loosely formed addresses are accepted on purpose.
func looksLikeEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	if at < 0 || at == len(s)-1 {
		return false
	}
	return strings.TrimSpace(s[at+1:]) != ""
}

func looksLikeURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateField evaluates rules in declaration order and returns the message
// of the first failing rule. ok is true when every rule passes.
func ValidateField(value any, rules []Rule) (message string, ok bool) {
	for _, rule := range rules {
		if !rule.check(value) {
			return rule.Message, false
		}
	}
	return "", true
}
