package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"trims and collapses", "  hello   world\t\n again ", "hello world again"},
		{"strips nul", "a\x00b", "ab"},
		{"strips control bytes", "a\x01\x02\x1fb", "ab"},
		{"plain passes through", "Backend Engineer", "Backend Engineer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input, ClassText))
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", Sanitize("  User@Example.COM ", ClassEmail))
	assert.Equal(t, "userexample.com", Sanitize("user<script>@example.com", ClassEmail))
	assert.Equal(t, "a.b-c_d@e.f", Sanitize("a.b-c_d@e.f", ClassEmail))
}

func TestSanitizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com/jobs?id=1", Sanitize("https://example.com/jobs?id=1", ClassURL))
	assert.Equal(t, "", Sanitize("javascript:alert(1)", ClassURL))
	assert.Equal(t, "", Sanitize("ftp://example.com/file", ClassURL))
	assert.Equal(t, "", Sanitize("not a url at all ::", ClassURL))
	assert.Equal(t, "", Sanitize("/relative/path", ClassURL))
}

func TestSanitizeHTMLRemovesDangerousTags(t *testing.T) {
	inputs := []string{
		`<script>alert(1)</script>hello`,
		`<SCRIPT src="evil.js"></SCRIPT>hello`,
		`<  script >alert(1)</ script >hello`,
		`<iframe src="https://evil"></iframe>hello`,
		`<object data="x"></object><embed src="y">hello`,
		`<form action="/steal"><input name="pw"><button>go</button></form>hello`,
		`<link rel="stylesheet" href="x"><meta charset="utf-8"><base href="/">hello`,
		`<style>body{}</style><applet code="x"></applet>hello`,
	}
	for _, input := range inputs {
		out := Sanitize(input, ClassHTML)
		lower := strings.ToLower(out)
		assert.NotContains(t, lower, "<script")
		assert.NotContains(t, lower, "<iframe")
		assert.NotContains(t, lower, "<object")
		assert.NotContains(t, lower, "<embed")
		assert.NotContains(t, lower, "<form")
		assert.NotContains(t, lower, "<style")
		assert.Contains(t, out, "hello")
	}
}

func TestSanitizeHTMLRemovesReassembledTags(t *testing.T) {
	// Deleting an inner tag must not splice its neighbors into a new one.
	out := Sanitize("<scr<applet>ipt>alert(1)", ClassHTML)
	assert.NotContains(t, strings.ToLower(out), "<script")
	assert.Equal(t, "alert(1)", out)

	out = Sanitize("<scr<scr<applet>ipt>ipt>alert(1)", ClassHTML)
	assert.NotContains(t, strings.ToLower(out), "<script")

	out = Sanitize("<ifr<iframe></iframe>ame src=x></iframe>", ClassHTML)
	assert.NotContains(t, strings.ToLower(out), "<iframe")
}

func TestSanitizeHTMLEncodesUnterminatedDeniedTags(t *testing.T) {
	// No closing bracket, so tag removal cannot fire; the opener must be
	// encoded instead of surviving verbatim.
	out := Sanitize("<scr<applet>ipt src=x", ClassHTML)
	assert.NotContains(t, strings.ToLower(out), "<script")
	assert.Contains(t, out, "&lt;script")
}

func TestSanitizeHTMLStripsEventHandlers(t *testing.T) {
	out := Sanitize(`<img src="x" onerror="alert(1)">`, ClassHTML)
	assert.NotContains(t, strings.ToLower(out), "onerror=")

	out = Sanitize(`<div ONCLICK='do()'>x</div>`, ClassHTML)
	assert.NotContains(t, strings.ToLower(out), "onclick=")

	out = Sanitize(`<a onmouseover=steal()>x</a>`, ClassHTML)
	assert.NotContains(t, strings.ToLower(out), "onmouseover=")
}

func TestSanitizeHTMLNeutralizesScriptURLs(t *testing.T) {
	tests := []string{
		`<a href="javascript:alert(1)">x</a>`,
		`<a href="JaVaScRiPt:alert(1)">x</a>`,
		`<a href='vbscript:msgbox(1)'>x</a>`,
		`<img src="data:text/html;base64,xxxx">`,
	}
	for _, input := range tests {
		out := Sanitize(input, ClassHTML)
		lower := strings.ToLower(out)
		assert.NotContains(t, lower, "javascript:")
		assert.NotContains(t, lower, "vbscript:")
		assert.NotContains(t, lower, `src="data:`)
	}
}

func TestSanitizeHTMLStripsStyleExpression(t *testing.T) {
	out := Sanitize(`<div style="width: expression(alert(1))">x</div>`, ClassHTML)
	assert.NotContains(t, strings.ToLower(out), "expression(")
}

func TestSanitizeJobTitleAndCompany(t *testing.T) {
	assert.Equal(t, "Senior Engineer", Sanitize("Senior<> Engineer{}", ClassJobTitle))
	assert.Equal(t, "Acme Corp", Sanitize("Acme {Corp}[]", ClassCompany))
	assert.Equal(t, "CTO backslash", Sanitize(`CTO \backslash`, ClassJobTitle))

	long := strings.Repeat("a", 150)
	assert.Len(t, Sanitize(long, ClassJobTitle), 100)
}

func TestSanitizeFeedbackTruncates(t *testing.T) {
	long := strings.Repeat("b", 6000)
	assert.Len(t, Sanitize(long, ClassFeedback), 5000)
}

func TestSanitizePhone(t *testing.T) {
	assert.Equal(t, "+1 (555) 123-4567", Sanitize("+1 (555) 123-4567", ClassPhone))
	assert.Equal(t, "5551234567", Sanitize("call5551234567now", ClassPhone))
	assert.Len(t, Sanitize(strings.Repeat("1", 30), ClassPhone), 20)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "resume_v2.pdf", Sanitize("resume v2.pdf", ClassFilename))
	assert.Equal(t, "my_resume_final_.pdf", Sanitize("my resume (final).pdf", ClassFilename))
	assert.Len(t, Sanitize(strings.Repeat("x", 300)+".pdf", ClassFilename), 255)
}

func TestEncodeStrict(t *testing.T) {
	out := EncodeStrict(`<img src="x" onerror='alert(1)'>`)
	for _, forbidden := range []string{"<", ">", `"`, "'", "(", ")", "="} {
		assert.NotContains(t, out, forbidden)
	}

	assert.Equal(t, "&amp;", EncodeStrict("&"))
	assert.Equal(t, "&#123;&#125;&#91;&#93;", EncodeStrict("{}[]"))
	assert.Equal(t, "&#47;&#92;&#96;", EncodeStrict("/\\`"))
}
