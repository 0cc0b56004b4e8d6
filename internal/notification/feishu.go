package notification

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/inazon/ai-task-notify/internal/message"
)

// FeishuSender posts interactive cards to a Feishu custom bot webhook,
// signing them when a secret is configured.
type FeishuSender struct {
	webhookURL string
	secret     string
	client     *http.Client
	now        func() time.Time
}

// NewFeishuSender returns a sender for the given bot webhook URL. secret
// may be empty when signature verification is disabled on the bot.
func NewFeishuSender(webhookURL, secret string, client *http.Client) *FeishuSender {
	return &FeishuSender{webhookURL: webhookURL, secret: secret, client: client, now: time.Now}
}

func (s *FeishuSender) Name() string     { return ChannelFeishu }
func (s *FeishuSender) Configured() bool { return s.webhookURL != "" }

type feishuText struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

type feishuHeader struct {
	Title    feishuText `json:"title"`
	Template string     `json:"template"`
}

type feishuCard struct {
	Header   feishuHeader `json:"header"`
	Elements []feishuText `json:"elements"`
}

type feishuRequest struct {
	MsgType   string     `json:"msg_type"`
	Card      feishuCard `json:"card"`
	Timestamp string     `json:"timestamp,omitempty"`
	Sign      string     `json:"sign,omitempty"`
}

// feishuResponse covers both reply shapes the bot API has used.
type feishuResponse struct {
	Code          *int   `json:"code"`
	Msg           string `json:"msg"`
	StatusCode    *int   `json:"StatusCode"`
	StatusMessage string `json:"StatusMessage"`
}

// Send posts msg as a blue interactive card with a markdown body.
func (s *FeishuSender) Send(ctx context.Context, msg message.Message) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	body := feishuRequest{
		MsgType: "interactive",
		Card: feishuCard{
			Header: feishuHeader{
				Title:    feishuText{Tag: "plain_text", Content: msg.Title},
				Template: "blue",
			},
			Elements: []feishuText{{Tag: "markdown", Content: msg.Content}},
		},
	}

	if s.secret != "" {
		ts := strconv.FormatInt(s.now().Unix(), 10)
		body.Timestamp = ts
		body.Sign = FeishuSign(s.secret, ts)
	}

	var resp feishuResponse
	if err := postJSON(ctx, s.client, s.webhookURL, body, &resp); err != nil {
		return err
	}

	if (resp.Code != nil && *resp.Code == 0) || (resp.StatusCode != nil && *resp.StatusCode == 0) {
		return nil
	}
	code := -1
	text := resp.Msg
	switch {
	case resp.Code != nil:
		code = *resp.Code
	case resp.StatusCode != nil:
		code = *resp.StatusCode
		text = resp.StatusMessage
	}
	return &APIError{Channel: ChannelFeishu, Code: code, Message: text}
}

// FeishuSign computes the bot signature: the HMAC-SHA256 key is
// "<timestamp>\n<secret>" and the signed message is empty.
func FeishuSign(secret, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(timestamp+"\n"+secret))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
