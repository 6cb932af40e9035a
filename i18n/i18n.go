// Package i18n resolves status message keys to localized text. Catalogs are
// static; locale matching uses BCP 47 tags so "en-US" or "es-419" resolve to
// their base catalogs.
package i18n

import "golang.org/x/text/language"

var supported = []language.Tag{
	language.English, // first entry is the fallback
	language.Spanish,
	language.Turkish,
}

var catalogs = map[language.Tag]map[string]string{
	language.English: {
		"UserNotFound":          "User not found",
		"EmailAlreadyExists":    "An account with this email already exists",
		"UsernameAlreadyExists": "An account with this username already exists",
		"RegistrationSuccess":   "Registration completed successfully",
	},
	language.Spanish: {
		"UserNotFound":          "Usuario no encontrado",
		"EmailAlreadyExists":    "Ya existe una cuenta con este correo",
		"UsernameAlreadyExists": "Ya existe una cuenta con este nombre de usuario",
		"RegistrationSuccess":   "Registro completado con éxito",
	},
	language.Turkish: {
		"UserNotFound":          "Kullanıcı bulunamadı",
		"EmailAlreadyExists":    "Bu e-posta ile kayıtlı bir hesap zaten var",
		"UsernameAlreadyExists": "Bu kullanıcı adı ile kayıtlı bir hesap zaten var",
		"RegistrationSuccess":   "Kayıt başarıyla tamamlandı",
	},
}

// Service resolves message keys against the static catalogs.
type Service struct {
	matcher language.Matcher
}

// New creates a localization service.
func New() *Service {
	return &Service{
		matcher: language.NewMatcher(supported),
	}
}

// Get returns the localized text for key in the closest supported locale.
// Unknown keys return the key itself so a missing catalog entry is visible
// instead of silent.
func (s *Service) Get(key, locale string) string {
	tag := s.match(locale)

	if msg, ok := catalogs[tag][key]; ok {
		return msg
	}

	if msg, ok := catalogs[language.English][key]; ok {
		return msg
	}

	return key
}

func (s *Service) match(locale string) language.Tag {
	if locale == "" {
		return language.English
	}

	desired, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(desired) == 0 {
		return language.English
	}

	_, index, _ := s.matcher.Match(desired...)
	return supported[index]
}
