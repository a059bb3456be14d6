package auth

import (
	"strings"
	"unicode/utf8"
)

var frenchMessages = map[string]string{
	CodeInvalidCredentials: "Email ou mot de passe incorrect.",
	CodeUserAlreadyExists:  "Un compte existe déjà avec cet email.",
	CodeInvalidEmail:       "Adresse email invalide.",
	CodeInvalidName:        "Veuillez saisir votre nom.",
	CodePasswordTooShort:   "Le mot de passe doit contenir au moins 8 caractères.",
	CodePasswordTooLong:    "Le mot de passe ne peut pas dépasser 128 caractères.",
	CodeInvalidOTP:         "Code incorrect.",
	CodeOTPExpired:         "Code expiré. Demandez un nouveau code.",
	CodeTooManyAttempts:    "Trop de tentatives. Demandez un nouveau code.",
	CodeInvalidOTPType:     "Type de code invalide.",
	CodeUserNotFound:       "Aucun compte n'est associé à cet email.",
	CodeUnauthorized:       "Veuillez vous connecter.",
	CodeSessionExpired:     "Votre session a expiré. Veuillez vous reconnecter.",
	CodeProviderNotFound:   "Ce mode de connexion n'est pas disponible.",
	CodeInvalidState:       "La connexion a échoué. Veuillez réessayer.",
	CodeSocialEmailMissing: "Votre compte ne partage pas d'adresse email.",
	CodeForbidden:          "Accès refusé.",
}

// TranslateError maps an auth error code to a French message. Unknown codes
// yield fallback.
func TranslateError(code, fallback string) string {
	if msg, ok := frenchMessages[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return msg
	}
	return fallback
}

// MaskEmail hides all but the first character of the local part, with at least
// two stars: "jane@example.com" -> "j***@example.com". Input without a local
// part or a domain is returned unchanged.
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return email
	}
	local, domain := parts[0], parts[1]

	first, size := utf8.DecodeRuneInString(local)
	stars := utf8.RuneCountInString(local[size:])
	if stars < 2 {
		stars = 2
	}
	return string(first) + strings.Repeat("*", stars) + "@" + domain
}
