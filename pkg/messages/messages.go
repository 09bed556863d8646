// Package messages turns client errors into localized user messages.
package messages

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"code.anagramas.org/golang/pkg/anagrams"
	"code.anagramas.org/golang/pkg/session"
)

// Message keys
const (
	KeyInvalidData        = "invalid-data"
	KeyInvalidCredentials = "invalid-credentials"
	KeyUsernameTaken      = "username-taken"
	KeyLoginFailed        = "login-failed"
	KeyRegisterFailed     = "register-failed"
	KeyAnagramsFailed     = "anagrams-failed"
	KeyInvalidLetters     = "invalid-letters"
	KeyLoginRequired      = "login-required"
	KeyLoggedInAs         = "logged-in-as"
	KeyLoggedOut          = "logged-out"
	KeyNotLoggedIn        = "not-logged-in"
)

// Default is the language used for unsupported tags.
var Default = language.BrazilianPortuguese

var supported = []language.Tag{language.BrazilianPortuguese, language.English}

var translations = map[string][2]string{
	KeyInvalidData:        {"Dados inválidos. Verifique username e senha.", "Invalid data. Check username and password."},
	KeyInvalidCredentials: {"Credenciais inválidas. Verifique username e senha.", "Invalid credentials. Check username and password."},
	KeyUsernameTaken:      {"Nome de usuário já existe. Escolha outro nome.", "Username already exists. Choose another name."},
	KeyLoginFailed:        {"Erro ao fazer login. Tente novamente.", "Login failed. Try again."},
	KeyRegisterFailed:     {"Erro ao registrar usuário. Tente novamente.", "User registration failed. Try again."},
	KeyAnagramsFailed:     {"Erro ao gerar anagramas. Tente novamente.", "Anagram generation failed. Try again."},
	KeyInvalidLetters:     {"Informe entre %d e %d letras.", "Enter between %d and %d letters."},
	KeyLoginRequired:      {"Faça login para continuar.", "Log in to continue."},
	KeyLoggedInAs:         {"Conectado como %s (%s).", "Logged in as %s (%s)."},
	KeyLoggedOut:          {"Sessão encerrada.", "Logged out."},
	KeyNotLoggedIn:        {"Nenhum usuário conectado.", "No user logged in."},
}

var (
	cat     *catalog.Builder
	matcher language.Matcher
)

// Match returns the supported language closest to lang, Default if lang can not be parsed.
func Match(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if nil != err {
		return Default
	}
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}

// Printer returns a message.Printer for tag using the package catalog.
func Printer(tag language.Tag) *message.Printer {
	_, idx, _ := matcher.Match(tag)
	return message.NewPrinter(supported[idx], message.Catalog(cat))
}

// AuthMessage returns the user message for an error returned by session.Store Authenticate or Register.
// A validation error carrying a server message keeps that message.
func AuthMessage(tag language.Tag, err error, register bool) string {
	p := Printer(tag)

	var authErr *session.AuthError
	switch {
	case errors.Is(err, session.ErrValidation):
		if errors.As(err, &authErr) && 0 != authErr.Status && "" != authErr.Message {
			return authErr.Message
		}
		return p.Sprintf(KeyInvalidData)
	case errors.Is(err, session.ErrInvalidCredentials):
		return p.Sprintf(KeyInvalidCredentials)
	case errors.Is(err, session.ErrConflict):
		return p.Sprintf(KeyUsernameTaken)
	case register:
		return p.Sprintf(KeyRegisterFailed)
	default:
		return p.Sprintf(KeyLoginFailed)
	}
}

// AnagramsMessage returns the user message for an error returned by anagrams.Client.
func AnagramsMessage(tag language.Tag, err error) string {
	p := Printer(tag)

	switch {
	case errors.Is(err, anagrams.ErrInvalidLetters):
		return p.Sprintf(KeyInvalidLetters, anagrams.MinLetters, anagrams.MaxLetters)
	case errors.Is(err, anagrams.ErrUnauthorized):
		return p.Sprintf(KeyLoginRequired)
	default:
		return p.Sprintf(KeyAnagramsFailed)
	}
}

func init() {
	cat = catalog.NewBuilder(catalog.Fallback(Default))
	for key, msgs := range translations {
		for pos, tag := range supported {
			if err := cat.SetString(tag, key, msgs[pos]); nil != err {
				panic(err)
			}
		}
	}
	matcher = language.NewMatcher(supported)
}
