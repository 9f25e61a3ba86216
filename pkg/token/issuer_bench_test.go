package token_test

import (
	"testing"

	"github.com/dmitrymomot/sessionkit/pkg/token"
)

func BenchmarkIssuer_Issue(b *testing.B) {
	issuer, err := token.NewIssuer("benchmark-secret")
	if err != nil {
		b.Fatal(err)
	}
	payload := map[string]any{"sub": "42", "role": "admin"}

	for b.Loop() {
		if _, err := issuer.Issue(payload); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInspect(b *testing.B) {
	issuer, err := token.NewIssuer("benchmark-secret")
	if err != nil {
		b.Fatal(err)
	}
	tok, err := issuer.Issue(map[string]any{"sub": "42"})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := token.Inspect(tok); err != nil {
			b.Fatal(err)
		}
	}
}
