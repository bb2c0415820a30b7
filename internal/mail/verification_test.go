package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/rolodex-app/rolodex/testing"
)

func TestVerificationEmail(t *testing.T) {
	subject, body := VerificationEmail("https://rolodex.example", "tok123")

	assert.Equal(t, "Verify your email address", subject)
	assert.Contains(t, body, "https://rolodex.example/verify-email?token=tok123")
}

func TestVerificationEmailTrimsTrailingSlash(t *testing.T) {
	_, body := VerificationEmail("https://rolodex.example/", "tok123")
	assert.Contains(t, body, "https://rolodex.example/verify-email?token=tok123")
	assert.NotContains(t, body, "example//verify-email")
}

func TestVerificationEmailEscapesToken(t *testing.T) {
	_, body := VerificationEmail("https://rolodex.example", "a+b/c")
	assert.Contains(t, body, "token=a%2Bb%2Fc")
}
