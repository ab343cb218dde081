package validation

// Record is a field/value map whose writes are checked against a Rules
// table. A rejected write leaves the previous value in place.
type Record struct {
	rules  Rules
	values map[string]any
}

// NewRecord creates an empty record guarded by rules.
func NewRecord(rules Rules) *Record {
	return &Record{rules: rules, values: make(map[string]any)}
}

// Set stores value under field if it passes the field's rules.
func (r *Record) Set(field string, value any) error {
	if f := r.rules.Check(field, value); f != nil {
		return NewValidationError(field, f.Code, f.Args...)
	}
	r.values[field] = value
	return nil
}

// SetAll assigns every entry and returns the aggregated failures, or nil.
// Valid entries are stored even when others fail.
func (r *Record) SetAll(values map[string]any) error {
	var verr *ValidationError
	for field, value := range values {
		if err := r.Set(field, value); err != nil {
			if verr == nil {
				verr = &ValidationError{}
			}
			verr.Merge(err.(*ValidationError))
		}
	}
	if verr == nil {
		return nil
	}
	return verr
}

// Get returns the stored value.
func (r *Record) Get(field string) (any, bool) {
	v, ok := r.values[field]
	return v, ok
}

// String returns the stored value as a string, or "".
func (r *Record) String(field string) string {
	s, _ := r.values[field].(string)
	return s
}

// Has reports whether field holds a value.
func (r *Record) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

// Values returns a copy of the stored values.
func (r *Record) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
