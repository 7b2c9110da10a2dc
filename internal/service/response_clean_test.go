package service

import "testing"

func TestCleanAssistantText(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"plain":           {"  ## Summary\n", "## Summary"},
		"bom":             {"\uFEFFhello", "hello"},
		"wrapped md":      {"```markdown\n## Experience\n- Built things\n```", "## Experience\n- Built things"},
		"wrapped bare":    {"```\nAda\n```", "Ada"},
		"inner fence":     {"Intro\n```python\nx\n```", "Intro\n```python\nx\n```"},
		"two blocks":      {"```md\na\n```\n\n```md\nb\n```", "```md\na\n```\n\n```md\nb\n```"},
		"only whitespace": {" \n\t ", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := cleanAssistantText(tc.in); got != tc.want {
				t.Fatalf("cleanAssistantText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
