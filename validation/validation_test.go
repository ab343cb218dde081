package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRules = Rules{
	"ville":    {StringLength(2, 50)},
	"email":    {Email()},
	"password": {MinLength(8)},
	"role":     {OneOf("ADMIN", "RESPONSABLE")},
}

func TestViolations(t *testing.T) {
	v := make(Violations)
	Required("name", "  ", v)
	PositiveFloat("price", 0, v)
	RangeFloat("rate", 2, 0, 1, v)
	assert.Equal(t, Violations{"name": "required", "price": "must_be_positive", "rate": "out_of_range"}, v)

	v.Add("name", "other")
	assert.Equal(t, "required", v["name"], "Add keeps the first code")
	assert.False(t, v.Empty())
}

func TestStringLength(t *testing.T) {
	rule := StringLength(2, 50)
	assert.Nil(t, rule("Lomé"))
	assert.Nil(t, rule("  Lo  "), "length is measured after trimming")

	f := rule("L")
	require.NotNil(t, f)
	assert.Equal(t, "length_between", f.Code)
	assert.Equal(t, []any{2, 50}, f.Args)

	require.NotNil(t, rule(string(make([]byte, 51))))
	assert.Equal(t, "not_a_string", rule(42).Code)
}

func TestEmailAndMinLength(t *testing.T) {
	assert.Nil(t, Email()("agent@mairie.tg"))
	for _, bad := range []string{"agent", "agent@mairie", "@mairie.tg", "a b@c.d"} {
		assert.NotNil(t, Email()(bad), bad)
	}
	assert.Nil(t, MinLength(8)("12345678"))
	assert.Equal(t, "min_length", MinLength(8)("1234567").Code)
}

func TestExcludes(t *testing.T) {
	rule := Excludes("@")
	assert.Nil(t, rule("agent"))
	f := rule("agent@mairie.tg")
	require.NotNil(t, f)
	assert.Equal(t, "invalid_characters", f.Code)
	assert.Equal(t, "not_a_string", rule(3).Code)
}

func TestValidate_AggregatesAllFields(t *testing.T) {
	verr := Validate(map[string]any{
		"ville":    "L",
		"email":    "nope",
		"password": "longenough",
		"other":    1,
	}, testRules)
	require.NotNil(t, verr)
	assert.Equal(t, Violations{"ville": "length_between", "email": "invalid_email"}, verr.Violations())
	assert.Equal(t, "validation failed: email: invalid email address; ville: must be between 2 and 50 characters", verr.Error())
	assert.Equal(t, "doit contenir entre 2 et 50 caractères", verr.Messages("fr")["ville"])

	assert.Nil(t, Validate(map[string]any{"ville": "Kara"}, testRules))
}

func TestRequireFields(t *testing.T) {
	verr := RequireFields(map[string]any{"a": "x", "b": " ", "c": nil}, "a", "b", "c", "d")
	require.NotNil(t, verr)
	assert.Equal(t, Violations{"b": "required", "c": "required", "d": "required"}, verr.Violations())
	assert.Nil(t, RequireFields(map[string]any{"a": "x"}, "a"))
}

func TestRecord_SetAcceptsValidValues(t *testing.T) {
	r := NewRecord(testRules)
	require.NoError(t, r.Set("ville", "Lomé"))
	v, ok := r.Get("ville")
	require.True(t, ok)
	assert.Equal(t, "Lomé", v)
	assert.Equal(t, "Lomé", r.String("ville"))
}

func TestRecord_SetRejectsAndKeepsPriorValue(t *testing.T) {
	r := NewRecord(testRules)
	err := r.Set("ville", "L")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ville")
	assert.False(t, r.Has("ville"), "failed write must not store anything")

	require.NoError(t, r.Set("ville", "Atakpamé"))
	require.Error(t, r.Set("ville", 12))
	assert.Equal(t, "Atakpamé", r.String("ville"))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "length_between", verr.Violations()["ville"])
}

func TestRecord_UnknownFieldsPassThrough(t *testing.T) {
	r := NewRecord(testRules)
	require.NoError(t, r.Set("nomMaire", ""))
	require.NoError(t, r.Set("anything", struct{}{}))
	assert.Len(t, r.Values(), 2)
}

func TestRecord_SetAll(t *testing.T) {
	r := NewRecord(testRules)
	err := r.SetAll(map[string]any{"ville": "Sokodé", "email": "bad", "role": "ADMIN"})
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, Violations{"email": "invalid_email"}, verr.Violations())
	assert.Equal(t, "Sokodé", r.String("ville"))
	assert.Equal(t, "ADMIN", r.String("role"))

	assert.NoError(t, NewRecord(testRules).SetAll(map[string]any{"ville": "Sokodé"}))
}
