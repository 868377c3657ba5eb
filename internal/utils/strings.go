package utils

// FormatRef renders a secret/field reference the way the CLI prints it.
func FormatRef(secretID, fieldID string) string {
	if fieldID == "" {
		return secretID
	}
	return secretID + "/" + fieldID
}
