package nwt

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanToPlainText(t *testing.T) {
	c := NewCleaner(discardLogger())

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "empty input",
			markup: "",
			want:   "",
		},
		{
			name:   "plain verse span",
			markup: `<span class="verse">In the beginning God created the heavens and the earth.</span>`,
			want:   "In the beginning God created the heavens and the earth.",
		},
		{
			name:   "cross reference link interleaved with text",
			markup: `<span class="verse">For God loved the world so much+<a class="xrefLink" href="#">John 1:1</a> that he gave his only-begotten Son</span>`,
			want:   "For God loved the world so much that he gave his only-begotten Son",
		},
		{
			name:   "footnote and heading removed",
			markup: `<div><span class="heading">The Word Became Flesh</span><span class="verse">The Word was with God<a class="footnoteLink">*</a></span></div>`,
			want:   "The Word was with God",
		},
		{
			name:   "chapter number span removed",
			markup: `<span class="verse"><span class="chapterNum">3 </span>Now the serpent was the most cautious</span>`,
			want:   "Now the serpent was the most cautious",
		},
		{
			name:   "styled spans from chapter view",
			markup: `<div><span class="style-z">Jehovah God then said</span></div>`,
			want:   "Jehovah God then said",
		},
		{
			name:   "fallback to whole fragment",
			markup: `<p>Jesus wept.</p>`,
			want:   "Jesus wept.",
		},
		{
			name:   "whitespace collapsed",
			markup: "<span class=\"verse\">  Love is patient\n\tand  kind.  </span>",
			want:   "Love is patient and kind.",
		},
		{
			name:   "stray plus characters stripped",
			markup: `<span class="verse">Love+ never+ fails.</span>`,
			want:   "Love never fails.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CleanToPlainText(tt.markup))
		})
	}
}

func TestCleanToPlainTextCustomSelectors(t *testing.T) {
	c := NewCleaner(discardLogger(), ".newMarker")
	got := c.CleanToPlainText(`<span class="verse">text<span class="newMarker">note</span></span>`)
	assert.Equal(t, "text", got)
}
