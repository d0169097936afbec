package config

// SecretString holds a sensitive value and redacts it when marshaled or
// printed, so credentials never leak into logs or serialized config dumps.
type SecretString struct {
	value string
}

// NewSecretString creates a SecretString with the provided value.
func NewSecretString(value string) SecretString {
	return SecretString{value: value}
}

// Value returns the underlying secret.
func (s SecretString) Value() string {
	return s.value
}

// IsEmpty reports whether the secret is unset.
func (s SecretString) IsEmpty() bool {
	return s.value == ""
}

func (s SecretString) String() string {
	if s.value == "" {
		return ""
	}
	return "[REDACTED]"
}

// MarshalJSON redacts the value.
func (s SecretString) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// UnmarshalJSON accepts a plain string value.
func (s *SecretString) UnmarshalJSON(data []byte) error {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		s.value = string(data[1 : len(data)-1])
	}
	return nil
}

// UnmarshalText lets SecretString be populated from environment variables.
func (s *SecretString) UnmarshalText(text []byte) error {
	s.value = string(text)
	return nil
}
