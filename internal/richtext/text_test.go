package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapLines(t *testing.T) {
	assert.Equal(t, []string{"aaa bbb", "ccc"}, WrapLines("aaa bbb ccc", 7))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, WrapLines("abcdefghij", 4))
	assert.Equal(t, []string{"one", "two"}, WrapLines("one\ntwo", 20))
	assert.Nil(t, WrapLines("", 10))
}

func TestTerminalMeasure(t *testing.T) {
	m := Terminal{}

	w, h := m.Measure(Plain("aaa bbb ccc"), 7)
	assert.Equal(t, 7, w)
	assert.Equal(t, 2, h)

	w, h = m.Measure(Plain(""), 7)
	assert.Zero(t, w)
	assert.Zero(t, h)

	assert.Equal(t, 1, m.LineHeight(Plain("x")))
}

func TestTextRender_LimitsLinesWithEllipsis(t *testing.T) {
	txt := Plain("aaa bbb ccc ddd")

	assert.Equal(t, []string{"aaa bbb", "ccc ddd"}, txt.Render(7, 0))
	assert.Equal(t, []string{"aaa bb…"}, txt.Render(7, 1))
	assert.Equal(t, []string{"aaa bbb", "ccc ddd"}, txt.Render(7, 2))
}

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text untouched", in: "no markup\nkept", want: "no markup\nkept"},
		{name: "line breaks and entities", in: "Great place<br>would return &amp; recommend", want: "Great place\nwould return & recommend"},
		{name: "paragraphs", in: "<p>First  para</p><p>Second</p>", want: "First para\nSecond"},
		{name: "inline markup", in: "Really <b>good</b> coffee", want: "Really good coffee"},
		{name: "scripts dropped", in: "ok<script>alert(1)</script>", want: "ok"},
		{name: "blank", in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromHTML(tt.in))
		})
	}
}
