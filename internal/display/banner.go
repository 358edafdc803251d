package display

import (
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

const bannerArt = `
                 _                   _
  ___ ___   ___ | | ____   _____  (_) ___ ___
 / __/ _ \ / _ \| |/ /\ \ / / _ \ | |/ __/ _ \
| (_| (_) | (_) |   <  \ V / (_) || | (_|  __/
 \___\___/ \___/|_|\_\  \_/ \___/ |_|\___\___|
`

// RenderBanner returns the banner art horizontally centred for width.
// A width of zero or less uses the current terminal width.
func RenderBanner(width int) string {
	if width <= 0 {
		width = termWidth()
	}

	lines := strings.Split(strings.Trim(bannerArt, "\n"), "\n")

	maxW := 0
	for _, l := range lines {
		maxW = max(maxW, len(l))
	}

	var b strings.Builder
	for _, l := range lines {
		if width > maxW {
			b.WriteString(strings.Repeat(" ", (width-maxW)/2))
		}
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
