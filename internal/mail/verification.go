package mail

import (
	"fmt"
	"net/url"
	"strings"
)

// VerificationEmail composes the subject and HTML body carrying the
// single-use verification link.
func VerificationEmail(baseURL, token string) (subject, body string) {
	link := strings.TrimSuffix(baseURL, "/") + "/verify-email?token=" + url.QueryEscape(token)
	subject = "Verify your email address"
	body = fmt.Sprintf(
		"<p>Please click the following link to verify your email address:</p><p><a href=%q>%s</a></p>",
		link, link)
	return subject, body
}
