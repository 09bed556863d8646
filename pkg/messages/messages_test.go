package messages

import (
	"fmt"
	"testing"

	"golang.org/x/text/language"

	"code.anagramas.org/golang/internal/utils"
	"code.anagramas.org/golang/pkg/anagrams"
	"code.anagramas.org/golang/pkg/session"
)

func TestAuthMessage(t *testing.T) {
	pt := language.BrazilianPortuguese
	testcases := []struct {
		err      error
		register bool
		expect   string
	}{
		{
			err:    &session.AuthError{Kind: session.ErrValidation, Status: 400, Message: "Username muito curto"},
			expect: "Username muito curto",
		},
		{
			err:    &session.AuthError{Kind: session.ErrValidation, Message: "local check"},
			expect: "Dados inválidos. Verifique username e senha.",
		},
		{
			err:    &session.AuthError{Kind: session.ErrInvalidCredentials, Status: 401, Message: "Credenciais inválidas"},
			expect: "Credenciais inválidas. Verifique username e senha.",
		},
		{
			err:      &session.AuthError{Kind: session.ErrConflict, Status: 409},
			register: true,
			expect:   "Nome de usuário já existe. Escolha outro nome.",
		},
		{
			err:    &session.AuthError{Kind: session.ErrTransport, Status: 500},
			expect: "Erro ao fazer login. Tente novamente.",
		},
		{
			err:      &session.AuthError{Kind: session.ErrTransport},
			register: true,
			expect:   "Erro ao registrar usuário. Tente novamente.",
		},
		{
			err:    fmt.Errorf("wrapped: %w", &session.AuthError{Kind: session.ErrConflict, Status: 409}),
			expect: "Nome de usuário já existe. Escolha outro nome.",
		},
	}

	for pos, tc := range testcases {
		msg := AuthMessage(pt, tc.err, tc.register)
		if tc.expect != msg {
			t.Errorf("[%d] got %q", pos, msg)
		}
	}
}

func TestAuthMessageEnglish(t *testing.T) {
	msg := AuthMessage(Match("en-US"), &session.AuthError{Kind: session.ErrInvalidCredentials}, false)
	if "Invalid credentials. Check username and password." != msg {
		t.Errorf("got %q", msg)
	}
}

func TestAnagramsMessage(t *testing.T) {
	pt := Match("pt-BR")
	invalid := utils.NewError(0, anagrams.ErrInvalidLetters, "too long")
	if msg := AnagramsMessage(pt, invalid); "Informe entre 1 e 10 letras." != msg {
		t.Errorf("got %q", msg)
	}
	unauthorized := utils.WrapError(anagrams.StatusError{Status: 401}, 0, anagrams.ErrUnauthorized, "rejected")
	if msg := AnagramsMessage(pt, unauthorized); "Faça login para continuar." != msg {
		t.Errorf("got %q", msg)
	}
	if msg := AnagramsMessage(language.English, fmt.Errorf("boom")); "Anagram generation failed. Try again." != msg {
		t.Errorf("got %q", msg)
	}
}

func TestMatch(t *testing.T) {
	testcases := map[string]language.Tag{
		"pt-BR":     language.BrazilianPortuguese,
		"en":        language.English,
		"not a tag": Default,
	}
	for lang, expect := range testcases {
		if tag := Match(lang); expect != tag {
			t.Errorf("Match(%q) returned %v", lang, tag)
		}
	}
}
