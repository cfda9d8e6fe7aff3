package notify

import (
	"fmt"
	"strings"

	"streambot/internal/twitch"
)

// Thumbnail dimensions substituted into the Helix URL template.
const (
	thumbWidth  = "1280"
	thumbHeight = "720"
)

// escape makes a field safe for Telegram's HTML parse mode. Replacement
// order matters: ampersands first, so escaped brackets are not re-escaped.
func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// thumbnailURL fills the {width}x{height} placeholders of a stream's
// thumbnail URL template.
func thumbnailURL(template string) string {
	u := strings.ReplaceAll(template, "{width}", thumbWidth)
	return strings.ReplaceAll(u, "{height}", thumbHeight)
}

// formatCaption renders the notification caption. Interpolated fields are
// escaped individually; the literal markup is not.
func formatCaption(st twitch.Stream) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔴 <b>%s</b> is live!\n", escape(st.UserName))
	if st.Title != "" {
		fmt.Fprintf(&b, "%s\n", escape(st.Title))
	}
	if st.GameName != "" {
		fmt.Fprintf(&b, "🎮 %s\n", escape(st.GameName))
	}
	if !st.StartedAt.IsZero() {
		fmt.Fprintf(&b, "⏰ live since %s\n", escape(st.StartedAt.UTC().Format("15:04 MST")))
	}
	fmt.Fprintf(&b, "👀 %d viewers\n", st.ViewerCount)
	fmt.Fprintf(&b, "https://twitch.tv/%s", st.UserLogin)
	return b.String()
}
