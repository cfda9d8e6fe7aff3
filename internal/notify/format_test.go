package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"streambot/internal/twitch"
)

func TestEscape(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "markup and ampersand", in: "<b>A & B</b>", want: "&lt;b&gt;A &amp; B&lt;/b&gt;"},
		{name: "plain", in: "nothing special", want: "nothing special"},
		{name: "pre-escaped stays escaped", in: "&amp;", want: "&amp;amp;"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escape(tt.in))
		})
	}
}

func TestThumbnailURL(t *testing.T) {
	t.Parallel()
	got := thumbnailURL("https://static-cdn.jtvnw.net/previews-ttv/live_user_alice-{width}x{height}.jpg")
	assert.Equal(t, "https://static-cdn.jtvnw.net/previews-ttv/live_user_alice-1280x720.jpg", got)
}

func TestFormatCaptionEscapesFields(t *testing.T) {
	t.Parallel()
	st := twitch.Stream{
		UserName:    "Alice <3",
		UserLogin:   "alice",
		Title:       "Speedruns & chill",
		GameName:    "Tag <IT>",
		ViewerCount: 42,
		StartedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	got := formatCaption(st)
	assert.Contains(t, got, "<b>Alice &lt;3</b>")
	assert.Contains(t, got, "Speedruns &amp; chill")
	assert.Contains(t, got, "Tag &lt;IT&gt;")
	assert.Contains(t, got, "live since 12:00 UTC")
	assert.Contains(t, got, "42 viewers")
	assert.Contains(t, got, "https://twitch.tv/alice")
}

func TestFormatCaptionOmitsUnknownStart(t *testing.T) {
	t.Parallel()
	got := formatCaption(twitch.Stream{UserName: "Bob", UserLogin: "bob"})
	assert.NotContains(t, got, "live since")
}
