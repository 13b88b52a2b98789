package redact

import (
	"regexp"
	"strings"
)

// Masked replaces every redacted value.
const Masked = "[REDACTED]"

// secretParams lists transform parameters whose values act as key material.
var secretParams = map[string]struct{}{
	"key":   {},
	"prime": {},
	"seed":  {},
}

var (
	// DomainError renders the offending character as 'c' (U+XXXX).
	charLiteralRe = regexp.MustCompile(`character '(?:[^'\\]|\\.)+' \(U\+[0-9A-F]{4,6}\)`)
	kvSecretRe    = regexp.MustCompile(`(?i)\b(key|prime|seed)(\s*[:=]\s*)(-?[0-9]+|\[[0-9,\s-]*\])`)
	// ParamError renders as: invalid parameter "key": <reason>
	paramReasonRe = regexp.MustCompile(`(?i)(parameter "(?:key|prime|seed)":\s*)([^\n]+)`)
	longTokenRe   = regexp.MustCompile(`\b[A-Za-z0-9]{32,}\b`)
)

// IsSecret reports whether the named parameter is key material.
func IsSecret(param string) bool {
	_, ok := secretParams[strings.ToLower(strings.TrimSpace(param))]
	return ok
}

// String masks plaintext characters and key material from free text such as
// error reasons.
func String(in string) string {
	if strings.TrimSpace(in) == "" {
		return in
	}
	masked := charLiteralRe.ReplaceAllString(in, "character "+Masked)
	masked = paramReasonRe.ReplaceAllStringFunc(masked, maskParamReason)
	masked = kvSecretRe.ReplaceAllString(masked, `$1$2`+Masked)
	masked = longTokenRe.ReplaceAllString(masked, Masked)
	return masked
}

// maskParamReason keeps the reason of a secret parameter only when it cannot
// carry the value.
func maskParamReason(match string) string {
	parts := paramReasonRe.FindStringSubmatch(match)
	if strings.TrimSpace(parts[2]) == "required" {
		return match
	}
	return parts[1] + Masked
}

// Params returns a copy of a transform parameter map with secret values masked.
func Params(in map[string]interface{}) map[string]interface{} {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		if IsSecret(k) {
			out[k] = Masked
			continue
		}
		out[k] = Interface(v)
	}
	return out
}

// Interface redacts recognised sensitive values within nested structures.
func Interface(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return String(v)
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = String(s)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			out[i] = Interface(elem)
		}
		return out
	case map[string]interface{}:
		return Params(v)
	default:
		return value
	}
}
