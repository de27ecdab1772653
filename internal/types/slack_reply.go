package types

// SlashReply is the JSON body returned to Slack for a slash command
type SlashReply struct {
	Text         string `json:"text"`
	ResponseType string `json:"response_type"`
}
