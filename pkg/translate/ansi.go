package translate

import "github.com/acarl005/stripansi"

// stripANSI removes colour and cursor escape sequences so a marker split by
// styling codes still matches.
func stripANSI(s string) string {
	return stripansi.Strip(s)
}
