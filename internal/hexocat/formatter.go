package hexocat

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/ca-srg/hexocat/internal/types"
)

// Formatter renders repository search results as Slack message text
type Formatter struct {
	Style types.ReplyStyle
}

// NewFormatter returns a formatter for style; anything but rich renders plain text.
func NewFormatter(style types.ReplyStyle) *Formatter {
	return &Formatter{Style: style}
}

// Format renders one block per repository in the given order. An empty slice
// yields an empty string.
func (f *Formatter) Format(repos []types.Repository) string {
	blocks := make([]string, 0, len(repos))
	if f.Style == types.ReplyStyleRich {
		for _, repo := range repos {
			blocks = append(blocks, fmt.Sprintf("<%s|%s> by <%s|%s>\n%s\n----",
				escapeURL(repo.HTMLURL), escapeTitle(repo.Name),
				escapeURL(repo.Owner.HTMLURL), escapeTitle(repo.Owner.Login),
				escapeText(repo.DescriptionOrDefault())))
		}
		return strings.Join(blocks, "\n\n")
	}

	for _, repo := range repos {
		blocks = append(blocks, fmt.Sprintf("%s by %s: %s", repo.Name, repo.Owner.Login, repo.HTMLURL))
	}
	return strings.Join(blocks, "\n")
}

// Wrap embeds text into the reply posted back to the channel.
func Wrap(text string) types.SlashReply {
	return types.SlashReply{
		Text:         text,
		ResponseType: slack.ResponseTypeInChannel,
	}
}

// Slack reads &, < and > as control characters in message text.
var (
	textEscaper  = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	titleEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "|", "-")
	urlEscaper   = strings.NewReplacer("&", "&amp;", "<", "%3C", ">", "%3E", "|", "%7C")
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// escapeTitle also replaces '|', which would end the link title early.
func escapeTitle(s string) string {
	return titleEscaper.Replace(s)
}

// escapeURL keeps the URL slot of a link intact; '|' starts the title.
func escapeURL(s string) string {
	return urlEscaper.Replace(s)
}
