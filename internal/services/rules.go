package services

import (
	"strings"
	"time"

	"github.com/diewo77/go-mairie/internal/models"
	"github.com/diewo77/go-mairie/validation"
)

// MairieRules guards the municipality identity fields.
var MairieRules = validation.Rules{
	"ville":       {validation.StringLength(2, 50)},
	"commune":     {validation.StringLength(2, 50)},
	"region":      {validation.StringLength(2, 50)},
	"prefecture":  {validation.StringLength(2, 50)},
	"nomMaire":    {validation.StringLength(1, 255)},
	"prenomMaire": {validation.StringLength(1, 255)},
}

// UserRules guards account fields. Usernames may not contain "@" so a login
// never matches both a username and an email.
var UserRules = validation.Rules{
	"username": {validation.StringLength(3, 30), validation.Excludes("@")},
	"email":    {validation.Email()},
	"password": {validation.MinLength(8)},
	"role":     {validation.OneOf(models.RoleAdmin, models.RoleResponsable)},
}

var personneRules = validation.Rules{
	"nom":    {validation.StringLength(1, 255)},
	"prenom": {validation.StringLength(1, 255)},
}

var variableRules = validation.Rules{
	"nomVariable": {validation.StringLength(1, 255)},
}

var templateRules = validation.Rules{
	"typeDocument": {validation.StringLength(1, 255)},
	"content":      {validation.NotBlank()},
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate accepts YYYY-MM-DD or RFC 3339.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// check runs the required-field and rule checks in one pass.
func check(values map[string]any, rules validation.Rules, required ...string) error {
	verr := validation.RequireFields(values, required...)
	if rerr := validation.Validate(values, rules); rerr != nil {
		if verr == nil {
			verr = rerr
		} else {
			verr.Merge(rerr)
		}
	}
	if verr != nil {
		return verr
	}
	return nil
}

// put adds *v to values when set.
func put(values map[string]any, field string, v *string) {
	if v != nil {
		values[field] = *v
	}
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
