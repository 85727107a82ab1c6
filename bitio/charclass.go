package bitio

// The character-class predicates below implement the per-type
// character set rules from §4.6 (NumericString, PrintableString,
// IA5String, VisibleString). They live beside the other byte-level
// helpers (§4.5) rather than in the asn1 package because they operate
// on raw bytes with no ASN.1-specific state.

// IsNumericStringChar reports whether b is valid in an ASN.1
// NumericString: '0'-'9' and space.
func IsNumericStringChar(b byte) bool {
	return (b >= '0' && b <= '9') || b == ' '
}

// IsPrintableStringChar reports whether b is valid in an ASN.1
// PrintableString: A-Z a-z 0-9 ' ( ) + , - . / : = ? and space.
func IsPrintableStringChar(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b >= '0' && b <= '9':
		return true
	}
	switch b {
	case ' ', '\'', '(', ')', '+', ',', '-', '.', '/', ':', '=', '?':
		return true
	}
	return false
}

// IsIA5Char reports whether b is valid in an ASN.1 IA5String: any
// byte <= 0x7F.
func IsIA5Char(b byte) bool {
	return b <= 0x7F
}

// IsVisibleChar reports whether b is valid in an ASN.1 VisibleString:
// 0x20..0x7E.
func IsVisibleChar(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}
