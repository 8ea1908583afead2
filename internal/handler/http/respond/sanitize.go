package respond

import "regexp"

// secretMasks are applied in order; the Anthropic key form must be masked
// before the shorter OpenAI form can match inside it.
var secretMasks = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`), "sk-ant-****"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`), "sk-****"},
	{regexp.MustCompile(`hf_[a-zA-Z0-9]{10,}`), "hf_****"},
	{regexp.MustCompile(`://([^:/]+):([^@]+)@`), "://$1:****@"},
}

// SanitizeError returns the error message with API keys, access tokens and
// DSN passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, m := range secretMasks {
		msg = m.pattern.ReplaceAllString(msg, m.repl)
	}
	return msg
}
