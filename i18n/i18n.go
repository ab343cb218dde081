// Package i18n holds the French/English message catalogue used for API error
// details, and carries the request language through the context.
package i18n

import (
	"context"
	"fmt"
	"strings"
)

// DefaultLang is used when nothing better is known.
const DefaultLang = "fr"

type ctxKey struct{}

var catalogue = map[string]map[string]string{
	"fr": {
		"required":            "Requis",
		"not_a_string":        "doit être une chaîne de caractères",
		"length_between":      "doit contenir entre %d et %d caractères",
		"min_length":          "doit contenir au moins %d caractères",
		"invalid_email":       "adresse e-mail invalide",
		"invalid_choice":      "valeur non autorisée",
		"invalid_characters":  "ne doit pas contenir : %s",
		"invalid_date":        "date invalide (AAAA-MM-JJ)",
		"must_be_positive":    "doit être positif",
		"out_of_range":        "hors limites",
		"unknown_variable":    "variable inconnue : %v",
		"logo_required":       "le logo est requis",
		"invalid_file_type":   "type de fichier non autorisé",
		"file_too_large":      "fichier trop volumineux",
		"not_found":           "ressource introuvable",
		"unauthorized":        "authentification requise",
		"forbidden":           "accès refusé",
		"already_exists":      "existe déjà",
		"not_archived":        "le document doit être archivé avant suppression définitive",
		"invalid_credentials": "identifiants invalides",
		"registration_closed": "inscription fermée",
		"invalid_reference":   "référence invalide",
		"in_use":              "ressource encore utilisée",
		"last_admin":          "il doit rester au moins un administrateur",
		"invalid_json":        "corps JSON invalide",
		"invalid_form":        "formulaire multipart invalide",
		"internal_error":      "erreur interne",
	},
	"en": {
		"required":            "Required",
		"not_a_string":        "must be a string",
		"length_between":      "must be between %d and %d characters",
		"min_length":          "must be at least %d characters",
		"invalid_email":       "invalid email address",
		"invalid_choice":      "value not allowed",
		"invalid_characters":  "must not contain: %s",
		"invalid_date":        "invalid date (YYYY-MM-DD)",
		"must_be_positive":    "must be positive",
		"out_of_range":        "out of range",
		"unknown_variable":    "unknown variable: %v",
		"logo_required":       "logo is required",
		"invalid_file_type":   "file type not allowed",
		"file_too_large":      "file too large",
		"not_found":           "resource not found",
		"unauthorized":        "authentication required",
		"forbidden":           "access denied",
		"already_exists":      "already exists",
		"not_archived":        "document must be archived before permanent deletion",
		"invalid_credentials": "invalid credentials",
		"registration_closed": "registration closed",
		"invalid_reference":   "invalid reference",
		"in_use":              "resource still in use",
		"last_admin":          "at least one administrator must remain",
		"invalid_json":        "invalid JSON body",
		"invalid_form":        "invalid multipart form",
		"internal_error":      "internal error",
	},
}

// DetectLanguage picks "en" or "fr" from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if _, ok := catalogue[base]; ok {
			return base
		}
	}
	return DefaultLang
}

// T returns the message for code in lang, falling back to French and then
// to the code itself.
func T(lang, code string) string {
	if msgs, ok := catalogue[lang]; ok {
		if m, ok := msgs[code]; ok {
			return m
		}
	}
	if m, ok := catalogue[DefaultLang][code]; ok {
		return m
	}
	return code
}

// Tf is T followed by fmt.Sprintf when args are given.
func Tf(lang, code string, args ...any) string {
	msg := T(lang, code)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// WithLang stores the request language.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the request language or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}
