package cleaner_test

import (
	"strings"
	"testing"

	"github.com/project-tktt/go-jobboard/internal/common/cleaner"
)

func TestCleanToText(t *testing.T) {
	c := cleaner.NewCleaner()
	cases := []struct {
		name, in, want string
	}{
		{"plain", "Build APIs", "Build APIs"},
		{"paragraphs", "<p>Build APIs</p><p>Ship <strong>fast</strong></p>", "Build APIs\n\nShip fast"},
		{"list", "<ul><li>Go</li><li>SQL</li></ul>", "Go\n\nSQL"},
		{"line break", "Remote<br/>friendly", "Remote\nfriendly"},
		{"entities", "<p>R&amp;D &lt;team&gt;</p>", "R&D <team>"},
		{"script dropped", "<p>Hi</p><script>alert(1)</script>", "Hi"},
		{"whitespace", "  <div>  lots   of\tspace </div>  ", "lots of space"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.CleanToText(tc.in); got != tc.want {
				t.Errorf("CleanToText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestClean_KeepsFormattingDropsScripts(t *testing.T) {
	c := cleaner.NewCleaner()
	got := c.Clean(`<p onclick="x()">We <b>ship</b> <a href="javascript:alert(1)">daily</a></p><script>evil()</script>`)

	if !strings.Contains(got, "<p>We <b>ship</b>") {
		t.Errorf("formatting lost: %q", got)
	}
	for _, bad := range []string{"onclick", "javascript:", "<script", "evil()"} {
		if strings.Contains(got, bad) {
			t.Errorf("Clean output contains %q: %q", bad, got)
		}
	}
}
