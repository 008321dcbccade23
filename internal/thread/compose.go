package thread

import (
	"strings"

	"pagetalk/internal/model"
)

// Quote derives a reply draft from an existing comment: an @nickname
// attribution line, the original content quoted line by line, and two blank
// lines for the reply body. Purely local; the caller places the result in the
// composer with the cursor at the end.
func Quote(c model.Comment) string {
	lines := strings.Split(c.Content, "\n")
	out := make([]string, 0, len(lines)+2)
	out = append(out, "> @"+c.Nickname)
	for _, line := range lines {
		out = append(out, "> "+line)
	}
	out = append(out, "\n\n")
	return strings.Join(out, "\n")
}
