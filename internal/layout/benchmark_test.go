package layout

import (
	"strings"
	"testing"

	"github.com/glabrego/reviews-cli/internal/richtext"
)

func BenchmarkEngineReview_LongBody(b *testing.B) {
	m := richtext.Terminal{}
	e := NewEngine(m, TerminalMetrics(m, richtext.Plain("Show more…")))
	in := ReviewInput{
		Username:   richtext.Plain("Anna Ivanova"),
		RatingSize: Size{W: 5, H: 1},
		Body:       richtext.Plain(strings.Repeat("The waiter recommended a wine that matched the fish perfectly. ", 12)),
		MaxLines:   3,
		Created:    richtext.Plain("01.03.2024"),
		PhotoCount: 3,
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = e.Review(in, 96)
	}
}

func BenchmarkMemo_Hit(b *testing.B) {
	memo := NewMemo()
	key := MemoKey{Width: 96, MaxLines: 3}
	memo.Put(key, ReviewLayout{Height: 12})

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = memo.Get(key)
	}
}
