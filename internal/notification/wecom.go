package notification

import (
	"context"
	"net/http"

	"github.com/inazon/ai-task-notify/internal/message"
)

// WeComSender posts markdown messages to a WeCom group robot webhook.
type WeComSender struct {
	webhookURL string
	client     *http.Client
}

// NewWeComSender returns a sender for the given robot webhook URL.
func NewWeComSender(webhookURL string, client *http.Client) *WeComSender {
	return &WeComSender{webhookURL: webhookURL, client: client}
}

func (s *WeComSender) Name() string     { return ChannelWeCom }
func (s *WeComSender) Configured() bool { return s.webhookURL != "" }

type wecomMarkdown struct {
	Content string `json:"content"`
}

type wecomRequest struct {
	MsgType  string        `json:"msgtype"`
	Markdown wecomMarkdown `json:"markdown"`
}

// Send posts msg as a markdown robot message. The robot replies with
// errcode 0 on success.
func (s *WeComSender) Send(ctx context.Context, msg message.Message) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	body := wecomRequest{
		MsgType:  "markdown",
		Markdown: wecomMarkdown{Content: "### " + msg.Title + "\n" + msg.Content},
	}

	var resp errcodeResponse
	if err := postJSON(ctx, s.client, s.webhookURL, body, &resp); err != nil {
		return err
	}
	return resp.check(ChannelWeCom)
}
