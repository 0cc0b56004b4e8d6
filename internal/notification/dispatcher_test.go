package notification

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inazon/ai-task-notify/internal/config"
	"github.com/inazon/ai-task-notify/internal/message"
)

// MockSender is a configurable Sender for dispatcher tests.
type MockSender struct {
	name       string
	configured bool
	SendFunc   func(ctx context.Context, msg message.Message) error
	Sent       []message.Message
}

func (m *MockSender) Name() string     { return m.name }
func (m *MockSender) Configured() bool { return m.configured }

func (m *MockSender) Send(ctx context.Context, msg message.Message) error {
	m.Sent = append(m.Sent, msg)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return nil
}

func TestDispatch_SendsToEnabledChannelsInOrder(t *testing.T) {
	var order []string
	record := func(name string) func(context.Context, message.Message) error {
		return func(context.Context, message.Message) error {
			order = append(order, name)
			return nil
		}
	}
	wecom := &MockSender{name: ChannelWeCom, configured: true, SendFunc: record(ChannelWeCom)}
	email := &MockSender{name: ChannelEmail, configured: true, SendFunc: record(ChannelEmail)}
	feishu := &MockSender{name: ChannelFeishu, configured: true}

	d := NewDispatcher(wecom, email, feishu)
	results := d.Dispatch(context.Background(), []string{ChannelEmail, ChannelWeCom}, testMessage)

	assert.Equal(t, []string{ChannelEmail, ChannelWeCom}, order)
	require.Len(t, results, 2)
	assert.True(t, results[0].OK())
	assert.Equal(t, ChannelEmail, results[0].Channel)
	assert.Empty(t, feishu.Sent, "disabled channel receives nothing")
	assert.Equal(t, []message.Message{testMessage}, wecom.Sent)
}

func TestDispatch_FailureDoesNotStopSiblings(t *testing.T) {
	boom := errors.New("boom")
	first := &MockSender{name: ChannelWeCom, configured: true, SendFunc: func(context.Context, message.Message) error { return boom }}
	second := &MockSender{name: ChannelDingTalk, configured: true}

	results := NewDispatcher(first, second).Dispatch(context.Background(), []string{ChannelWeCom, ChannelDingTalk}, testMessage)

	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, boom)
	assert.False(t, results[0].OK())
	assert.True(t, results[1].OK())
	assert.Len(t, second.Sent, 1)
}

func TestDispatch_PanicIsRecovered(t *testing.T) {
	bad := &MockSender{name: ChannelFeishu, configured: true, SendFunc: func(context.Context, message.Message) error { panic("nil map") }}
	good := &MockSender{name: ChannelEmail, configured: true}

	results := NewDispatcher(bad, good).Dispatch(context.Background(), []string{ChannelFeishu, ChannelEmail}, testMessage)

	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, errPanic)
	assert.Contains(t, results[0].Err.Error(), "nil map")
	assert.True(t, results[1].OK())
}

func TestDispatch_UnconfiguredChannel(t *testing.T) {
	s := &MockSender{name: ChannelEmail, configured: false}

	results := NewDispatcher(s).Dispatch(context.Background(), []string{ChannelEmail}, testMessage)

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, ErrNotConfigured)
	assert.Empty(t, s.Sent)
}

func TestDispatch_UnknownAndDuplicateChannels(t *testing.T) {
	s := &MockSender{name: ChannelWeCom, configured: true}
	d := NewDispatcher(s)

	results := d.Dispatch(context.Background(), []string{"slack", ChannelWeCom, ChannelWeCom}, testMessage)

	require.Len(t, results, 1)
	assert.Equal(t, ChannelWeCom, results[0].Channel)
	assert.Len(t, s.Sent, 1, "duplicates are sent once")
	assert.True(t, d.Known(ChannelWeCom))
	assert.False(t, d.Known("slack"))
}

func TestDispatch_NoChannels(t *testing.T) {
	assert.Empty(t, NewDispatcher().Dispatch(context.Background(), nil, testMessage))
}

func TestNewSenders_WiresConfig(t *testing.T) {
	wecom := newWebhookServer(t, http.StatusOK, `{"errcode":0}`)
	dingtalk := newWebhookServer(t, http.StatusOK, `{"errcode":0}`)

	cfg := config.NewDefaultConfig()
	cfg.WeComWebhookURL = wecom.URL
	cfg.DingTalkWebhookURL = dingtalk.URL
	cfg.EmailTo = "a@example.com"

	senders := NewSenders(cfg)

	names := make([]string, 0, len(senders))
	configured := map[string]bool{}
	for _, s := range senders {
		names = append(names, s.Name())
		configured[s.Name()] = s.Configured()
	}
	assert.Equal(t, []string{ChannelWeCom, ChannelFeishu, ChannelDingTalk, ChannelEmail, ChannelTelegram}, names)
	assert.Equal(t, map[string]bool{
		ChannelWeCom:    true,
		ChannelFeishu:   false,
		ChannelDingTalk: true,
		ChannelEmail:    false,
		ChannelTelegram: false,
	}, configured)

	results := NewDispatcher(senders...).Dispatch(context.Background(), cfg.EnabledChannels(), testMessage)
	assert.Empty(t, results, "nothing enabled")

	cfg.NotifyChannels = "wecom,dingtalk,feishu"
	results = NewDispatcher(senders...).Dispatch(context.Background(), cfg.EnabledChannels(), testMessage)
	require.Len(t, results, 3)
	assert.True(t, results[0].OK())
	assert.True(t, results[1].OK())
	assert.ErrorIs(t, results[2].Err, ErrNotConfigured)
	assert.Len(t, wecom.Requests(), 1)
	assert.Len(t, dingtalk.Requests(), 1)
}
