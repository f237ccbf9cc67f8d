package types

// SecretString wraps sensitive configuration values to prevent accidental
// logging. Both fmt verbs and JSON encoding render a redaction marker; the
// raw value is only reachable through Reveal.
type SecretString string

const redacted = "[REDACTED]"

// String implements fmt.Stringer with a redacted value.
func (s SecretString) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// GoString redacts the value in %#v output as well.
func (s SecretString) GoString() string {
	return s.String()
}

// MarshalJSON redacts the value in JSON output.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte(`""`), nil
	}
	return []byte(`"` + redacted + `"`), nil
}

// Reveal returns the raw secret value.
func (s SecretString) Reveal() string {
	return string(s)
}
