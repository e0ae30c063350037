// Package redact scrubs secrets from text before it is logged: credentials in
// database and S3 URLs, session tokens, password hashes, AWS keys and account
// emails. Everything else, including file paths, SQL errors and stack frames,
// is left intact so logs stay useful for debugging.
package redact

import "regexp"

// Placeholders substituted for redacted values.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedHashPlaceholder       = "[REDACTED_HASH]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// rules run in order; URL credentials go first so the email rule never sees
// the "user:pass@host" part of a DSN.
var rules = []rule{
	// userinfo of postgres, sqlite, s3 and http(s) URLs
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|sqlite|s3|https?)://[^/\s@]+@`),
		"${1}://" + RedactedCredentialPlaceholder + "@",
	},
	// presigned S3 query parameters
	{
		regexp.MustCompile(`(X-Amz-(?:Signature|Credential|Security-Token)=)[^&\s"]+`),
		"${1}" + RedactionPlaceholder,
	},
	{
		regexp.MustCompile(`\b(?:AKIA|ASIA)[A-Z0-9]{16}\b`),
		RedactedKeyPlaceholder,
	},
	{
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		RedactedJWTPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(bearer\s+)[A-Za-z0-9._~+/-]+=*`),
		"${1}" + RedactionPlaceholder,
	},
	{
		regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}`),
		RedactedHashPlaceholder,
	},
	// key=value and key: value pairs naming a secret
	{
		regexp.MustCompile(`(?i)\b(password|jwt_secret|secret_key|access_key|secret|authtoken)(\s*[=:]\s*"?)[^\s"&,]+`),
		"${1}${2}" + RedactedCredentialPlaceholder,
	},
	// the terminator keeps module paths such as "toolchain@v0.0.1-go1.24.0.linux-amd64/src" out
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@(?:[A-Za-z0-9-]+\.)+[A-Za-z]{2,}([^\w/-]|$)`),
		RedactedEmailPlaceholder + "${1}",
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.re.ReplaceAllString(input, r.repl)
	}
	return input
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
