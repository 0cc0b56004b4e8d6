package notification

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/inazon/ai-task-notify/internal/message"
)

// DingTalkSender posts markdown messages to a DingTalk custom robot,
// adding the timestamp/sign query when a secret is configured.
type DingTalkSender struct {
	webhookURL string
	secret     string
	client     *http.Client
	now        func() time.Time
}

// NewDingTalkSender returns a sender for the given robot webhook URL.
func NewDingTalkSender(webhookURL, secret string, client *http.Client) *DingTalkSender {
	return &DingTalkSender{webhookURL: webhookURL, secret: secret, client: client, now: time.Now}
}

func (s *DingTalkSender) Name() string     { return ChannelDingTalk }
func (s *DingTalkSender) Configured() bool { return s.webhookURL != "" }

type dingtalkMarkdown struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type dingtalkRequest struct {
	MsgType  string           `json:"msgtype"`
	Markdown dingtalkMarkdown `json:"markdown"`
}

// Send posts msg as a markdown robot message.
func (s *DingTalkSender) Send(ctx context.Context, msg message.Message) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	target := s.webhookURL
	if s.secret != "" {
		ts := strconv.FormatInt(s.now().UnixMilli(), 10)
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target = target + sep + "timestamp=" + ts + "&sign=" + DingTalkSign(s.secret, ts)
	}

	body := dingtalkRequest{
		MsgType: "markdown",
		Markdown: dingtalkMarkdown{
			Title: msg.Title,
			Text:  "### " + msg.Title + "\n" + msg.Content,
		},
	}

	var resp errcodeResponse
	if err := postJSON(ctx, s.client, target, body, &resp); err != nil {
		return err
	}
	return resp.check(ChannelDingTalk)
}

// DingTalkSign computes the robot signature: HMAC-SHA256 keyed by the
// secret over "<timestamp>\n<secret>", base64 encoded, then query escaped.
func DingTalkSign(secret, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "\n" + secret))
	return url.QueryEscape(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}
