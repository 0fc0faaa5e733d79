package lead

import (
	"strings"
	"unicode"
)

// SpellOut converts an email address into the token sequence Sylvia
// reads back to the caller, e.g. "jane.doe@acme.com" becomes
// "j a n e dot d o e at a c m e dot c o m". Strings without an "@" are
// returned unchanged.
func SpellOut(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return email
	}

	local, domain := email[:at], email[at+1:]

	var tokens []string
	tokens = appendLocalTokens(tokens, local)
	tokens = append(tokens, "at")
	tokens = appendDomainTokens(tokens, domain)

	return strings.Join(tokens, " ")
}

func appendLocalTokens(tokens []string, local string) []string {
	for _, r := range local {
		switch {
		case r == '.':
			tokens = append(tokens, "dot")
		case r == '_':
			tokens = append(tokens, "underscore")
		case r == '-':
			tokens = append(tokens, "dash")
		case unicode.IsLetter(r):
			tokens = append(tokens, string(unicode.ToLower(r)))
		default:
			tokens = append(tokens, string(r))
		}
	}
	return tokens
}

func appendDomainTokens(tokens []string, domain string) []string {
	for i, label := range strings.Split(domain, ".") {
		if i > 0 {
			tokens = append(tokens, "dot")
		}
		for _, r := range label {
			tokens = append(tokens, strings.ToLower(string(r)))
		}
	}
	return tokens
}
