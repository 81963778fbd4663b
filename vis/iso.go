package vis

// IsISOString reports whether every byte of s is in the ISO 19848
// identifier character set: ASCII letters, digits, and the four marks
// '-', '.', '_', '~'. The empty string is valid.
func IsISOString(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isISOByte(s[i]) {
			return false
		}
	}
	return true
}

func isISOByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	default:
		return false
	}
}
