// Package invite extracts canonical invite codes from free-form input lines.
package invite

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Accepted shapes: a bare code, discord.com/invite/<code>, or the short
// discord.gg/<code> domain (including common misspellings), each with an
// optional scheme, optional www. prefix and optional trailing slash. The
// trailing path segment of letters, digits and hyphens is the code.
var codePattern = regexp2.MustCompile(
	`(?:https?://)?(?:www\.)?(?:discord(?:app)?\.com/invite/|disco?rd\.gg/)?([A-Za-z0-9-]+)/?$`,
	regexp2.None,
)

// Normalize returns the invite code contained in line, or false when the
// line is blank or matches no accepted shape. Normalizing an already
// normalized code returns it unchanged.
func Normalize(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	m, err := codePattern.FindStringMatch(line)
	if err != nil || m == nil {
		return "", false
	}

	g := m.GroupByNumber(1)
	if g == nil || len(g.Captures) == 0 {
		return "", false
	}
	return g.Capture.String(), true
}
