package media

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"unicode"
)

// avatarPalette backs the deterministic background color per name.
var avatarPalette = []string{
	"#F97316", "#8B5CF6", "#0EA5E9", "#10B981", "#EF4444", "#F59E0B",
}

// serveInitialsAvatar renders a simple SVG avatar from the name's initials,
// standing in for the hosted avatar service the mobile client used.
func (s *HTTPServer) serveInitialsAvatar(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	initials := extractInitials(name)
	color := avatarPalette[hashName(name)%uint32(len(avatarPalette))]

	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="96" height="96">`+
		`<rect width="96" height="96" fill=%q/>`+
		`<text x="48" y="48" dy="0.35em" text-anchor="middle" `+
		`font-family="sans-serif" font-size="40" fill="#fff">%s</text></svg>`,
		color, initials)
}

// extractInitials takes the first letter of up to two words.
func extractInitials(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				initials = append(initials, unicode.ToUpper(r))
			}
			break
		}
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

func hashName(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()
}
