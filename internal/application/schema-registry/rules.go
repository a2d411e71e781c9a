// internal/application/schema-registry/rules.go
package schemaregistry

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"candidate-intake/internal/models"
)

var validate = validator.New()

// asString treats an absent value as the empty string.
func asString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	default:
		return "", false
	}
}

func check(fn func(value interface{}) bool) CheckFunc {
	return func(_ context.Context, value interface{}) (bool, error) {
		return fn(value), nil
	}
}

func stringCheck(fn func(s string) bool) CheckFunc {
	return check(func(value interface{}) bool {
		s, ok := asString(value)
		return ok && fn(s)
	})
}

func isText(message string) Rule {
	return Rule{Name: "text", Message: message, Check: check(func(value interface{}) bool {
		_, ok := asString(value)
		return ok
	})}
}

func minLength(n int, message string) Rule {
	return Rule{Name: "min_length", Message: message, Check: stringCheck(func(s string) bool {
		return utf8.RuneCountInString(s) >= n
	})}
}

func maxLength(n int, message string) Rule {
	return Rule{Name: "max_length", Message: message, Check: stringCheck(func(s string) bool {
		return utf8.RuneCountInString(s) <= n
	})}
}

func nonEmpty(message string) Rule {
	return Rule{Name: "required", Message: message, Check: stringCheck(func(s string) bool {
		return s != ""
	})}
}

func oneOf(values []string, message string) Rule {
	allowed := make(map[string]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}
	return Rule{Name: "one_of", Message: message, Check: stringCheck(func(s string) bool {
		return allowed[s]
	})}
}

func tagRule(name, tag, message string) Rule {
	return Rule{Name: name, Message: message, Check: stringCheck(func(s string) bool {
		return validate.Var(s, tag) == nil
	})}
}

func email(message string) Rule {
	return tagRule("email", "email", message)
}

func url(message string) Rule {
	return tagRule("url", "url", message)
}

// optionalURL accepts the empty string.
func optionalURL(message string) Rule {
	return Rule{Name: "url", Message: message, Check: stringCheck(func(s string) bool {
		return s == "" || validate.Var(s, "url") == nil
	})}
}

// containsFold is a case-insensitive substring marker.
func containsFold(marker, message string) Rule {
	marker = strings.ToLower(marker)
	return Rule{Name: "contains", Message: message, Check: stringCheck(func(s string) bool {
		return strings.Contains(strings.ToLower(s), marker)
	})}
}

// optionalPattern accepts the empty string.
func optionalPattern(re *regexp.Regexp, message string) Rule {
	return Rule{Name: "pattern", Message: message, Check: stringCheck(func(s string) bool {
		return s == "" || re.MatchString(s)
	})}
}

// locationParts requires exactly "City, Region, Country".
func locationParts(message string) Rule {
	return Rule{Name: "location", Message: message, Check: stringCheck(func(s string) bool {
		parts := strings.Split(s, ", ")
		if len(parts) != 3 {
			return false
		}
		for _, p := range parts {
			if strings.TrimSpace(p) == "" {
				return false
			}
		}
		return true
	})}
}

// enneagramAdjacentWing rejects a wing that is not next to the main type.
func enneagramAdjacentWing(message string) Rule {
	return Rule{Name: "enneagram_wing", Message: message, Check: stringCheck(func(s string) bool {
		if s == "" {
			return true
		}
		m := enneagramWing.FindStringSubmatch(s)
		if m == nil {
			return false
		}
		if m[3] == "" {
			return true
		}
		primary := int(m[1][0] - '0')
		wing := int(m[3][0] - '0')
		diff := primary - wing
		return (diff == 1 || diff == -1) && wing >= 1 && wing <= 9
	})}
}

// ParseHourlyRate converts "R$ 1.500,50" (prefix optional) to 1500.50.
func ParseHourlyRate(s string) (float64, error) {
	s = strings.TrimPrefix(s, "R$ ")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func hourlyRateRange(message string) Rule {
	return Rule{Name: "rate_range", Message: message, Check: stringCheck(func(s string) bool {
		if s == "" {
			return true
		}
		v, err := ParseHourlyRate(s)
		return err == nil && v >= 0 && v <= MaxHourlyRate
	})}
}

func maxItems(n int, message string) Rule {
	return Rule{Name: "max_items", Message: message, Check: check(func(value interface{}) bool {
		list, ok := value.([]string)
		return ok && len(list) <= n
	})}
}

func attachmentRequired(message string) Rule {
	return Rule{Name: "required", Message: message, Check: check(func(value interface{}) bool {
		a, ok := value.(*models.Attachment)
		return ok && a != nil
	})}
}

func attachmentMaxSize(n int64, message string) Rule {
	return Rule{Name: "max_size", Message: message, Check: check(func(value interface{}) bool {
		a, ok := value.(*models.Attachment)
		return !ok || a == nil || a.Size <= n
	})}
}

func attachmentType(mime, message string) Rule {
	return Rule{Name: "mime_type", Message: message, Check: check(func(value interface{}) bool {
		a, ok := value.(*models.Attachment)
		return !ok || a == nil || a.MimeType == mime
	})}
}

// Transforms

func lowerCase(value interface{}) interface{} {
	if s, ok := value.(string); ok {
		return strings.ToLower(s)
	}
	return value
}

// stringList defaults an absent list to empty and accepts []interface{} of strings.
func stringList(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return value
			}
			out = append(out, s)
		}
		return out
	default:
		return value
	}
}

// firstAttachment yields *models.Attachment or an untyped nil.
func firstAttachment(value interface{}) interface{} {
	if a := models.NormalizeAttachment(value); a != nil {
		return a
	}
	return nil
}
