package notification

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeishuSign(t *testing.T) {
	assert.Equal(t, "XprR1de+0SSBnwWyU/4k6x2TL+Q2SJlM5NNEdAv7MWg=", FeishuSign("SECabc", "1700000000"))
}

func TestFeishuSender_SendUnsigned(t *testing.T) {
	srv := newWebhookServer(t, http.StatusOK, `{"code":0,"msg":"success"}`)
	s := NewFeishuSender(srv.URL+"/open-apis/bot/v2/hook/tok", "", srv.Client())

	require.NoError(t, s.Send(context.Background(), testMessage))

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/open-apis/bot/v2/hook/tok", reqs[0].Path)
	assert.Equal(t, map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"header": map[string]any{
				"title":    map[string]any{"tag": "plain_text", "content": testMessage.Title},
				"template": "blue",
			},
			"elements": []any{
				map[string]any{"tag": "markdown", "content": testMessage.Content},
			},
		},
	}, reqs[0].Body)
}

func TestFeishuSender_SendSigned(t *testing.T) {
	srv := newWebhookServer(t, http.StatusOK, `{"StatusCode":0,"StatusMessage":"success"}`)
	s := NewFeishuSender(srv.URL, "SECabc", srv.Client())
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	require.NoError(t, s.Send(context.Background(), testMessage))

	body := srv.Requests()[0].Body
	assert.Equal(t, "1700000000", body["timestamp"])
	assert.Equal(t, "XprR1de+0SSBnwWyU/4k6x2TL+Q2SJlM5NNEdAv7MWg=", body["sign"])
}

func TestFeishuSender_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		code    int
		message string
	}{
		{"code", `{"code":19021,"msg":"sign match fail or timestamp is not within one hour from current time"}`, 19021, "sign match fail"},
		{"status code", `{"StatusCode":9499,"StatusMessage":"Bad Request"}`, 9499, "Bad Request"},
		{"empty", `{}`, -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newWebhookServer(t, http.StatusOK, tt.reply)
			err := NewFeishuSender(srv.URL, "", srv.Client()).Send(context.Background(), testMessage)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Contains(t, apiErr.Message, tt.message)
		})
	}
}

func TestFeishuSender_NotConfigured(t *testing.T) {
	s := NewFeishuSender("", "secret", http.DefaultClient)
	assert.False(t, s.Configured())
	assert.ErrorIs(t, s.Send(context.Background(), testMessage), ErrNotConfigured)
}
