package richtext

import "testing"

func FuzzFromHTMLAndClip(f *testing.F) {
	seeds := []string{
		"",
		"<p>Great food</p><p>Slow service</p>",
		"Line one<br>Line two<br/>Line three",
		"<b>bold</b> and <i>italic</i> &amp; entities &lt;3",
		"<<<<<<<<",
		"\x00\x01\x02<script>alert(1)</script>",
		"日本語のレビュー<br>とても良い",
	}
	for _, s := range seeds {
		f.Add(s, 20, 3)
	}

	f.Fuzz(func(t *testing.T, raw string, width, maxLines int) {
		if len(raw) > 10_000 {
			raw = raw[:10_000]
		}
		width = 1 + abs(width)%120
		maxLines = abs(maxLines) % 10

		text := Plain(FromHTML(raw))
		lines := text.Clip(width, maxLines)
		if maxLines > 0 && len(lines) > maxLines {
			t.Fatalf("clip kept %d lines, limit %d", len(lines), maxLines)
		}
		w, h := Terminal{}.Measure(text, width)
		if h != len(text.Lines(width)) || w < 0 {
			t.Fatalf("measure disagrees with wrapping: w=%d h=%d", w, h)
		}
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
