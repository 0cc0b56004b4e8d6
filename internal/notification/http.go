package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxResponseBody caps how much of a webhook response is read.
const maxResponseBody = 1 << 20

// postJSON POSTs body as JSON to url and decodes a 200 response into out.
// Any other status yields an *HTTPError carrying the response body.
func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errcodeResponse is the reply shape shared by WeCom and DingTalk robots.
type errcodeResponse struct {
	ErrCode *int   `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// check converts the reply into an *APIError unless errcode is present and 0.
func (r errcodeResponse) check(channel string) error {
	if r.ErrCode != nil && *r.ErrCode == 0 {
		return nil
	}
	code := -1
	if r.ErrCode != nil {
		code = *r.ErrCode
	}
	return &APIError{Channel: channel, Code: code, Message: r.ErrMsg}
}
