package notify

import "testing"

func TestFormatMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty_input", input: "", want: ""},
		{name: "plain_text", input: "Hello world", want: "Hello world"},
		{
			name:  "html_escaping",
			input: "Use <div> & \"quotes\"",
			want:  "Use &lt;div&gt; &amp; &#34;quotes&#34;",
		},
		{
			name:  "bold",
			input: "This is **bold** text",
			want:  "This is <b>bold</b> text",
		},
		{
			name:  "italic",
			input: "This is *italic* text",
			want:  "This is <i>italic</i> text",
		},
		{
			name:  "strikethrough",
			input: "This is ~~deleted~~ text",
			want:  "This is <s>deleted</s> text",
		},
		{
			name:  "inline_code",
			input: "Use `fmt.Println` here",
			want:  "Use <code>fmt.Println</code> here",
		},
		{
			name:  "header",
			input: "# Title",
			want:  "<b>Title</b>",
		},
		{
			name:  "bullet",
			input: "- one\n- two",
			want:  "• one\n• two",
		},
		{
			name:  "code_block",
			input: "```go\nfmt.Println(1)\n```",
			want:  "<pre><code class=\"language-go\">fmt.Println(1)</code></pre>",
		},
		{
			name:  "link_https",
			input: "[docs](https://example.com)",
			want:  `<a href="https://example.com">docs</a>`,
		},
		{
			name:  "link_unsafe_scheme_not_linked",
			input: "[evil](javascript:alert(1))",
			want:  "evil (javascript:alert(1))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMarkdownToTelegramHTML(tt.input)
			if got != tt.want {
				t.Errorf("formatMarkdownToTelegramHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHasMarkdown(t *testing.T) {
	if hasMarkdown("plain output\nno markup here") {
		t.Error("plain output misdetected as markdown")
	}
	if !hasMarkdown("**bold**") {
		t.Error("bold text not detected as markdown")
	}
	if !hasMarkdown("# Header") {
		t.Error("header not detected as markdown")
	}
}

func TestSplitAtSafeBoundary(t *testing.T) {
	long := ""
	for i := 0; i < 100; i++ {
		long += "0123456789"
	}
	parts := splitAtSafeBoundary(long, 50)
	if len(parts) != 20 {
		t.Fatalf("got %d parts, want 20", len(parts))
	}
	joined := ""
	for _, p := range parts {
		if len(p) > 50 {
			t.Errorf("chunk exceeds max length: %d", len(p))
		}
		joined += p
	}
	if joined != long {
		t.Error("split chunks did not reconstitute the original string")
	}
}
