package event

import (
	"bufio"
	"encoding/json"
	"os"
)

// LastMessageLimit is the rune limit applied to the last assistant message.
const LastMessageLimit = 500

// maxTranscriptLine bounds a single JSONL line; tool results can be large.
const maxTranscriptLine = 16 << 20

// LastAssistantMessage returns the final assistant text of the session,
// truncated to limit runes, or "" when none is available.
//
// Claude Code payloads carrying an inline "transcript" array are searched
// from the end: the first assistant entry found decides the result, even
// when it holds no text block. Payloads that only carry "transcript_path"
// are read from disk, where each content block is its own line, so the
// last assistant line with text wins. Codex payloads use
// "last-assistant-message".
func LastAssistantMessage(ev *Event, limit int) string {
	if ev == nil {
		return ""
	}

	var text string
	switch ev.Source {
	case SourceCodex:
		text = ev.String("last-assistant-message")
	case SourceClaudeCode:
		if transcript, ok := ev.Data["transcript"].([]any); ok {
			text = lastInlineAssistantText(transcript)
		} else if path := ev.String("transcript_path"); path != "" {
			text = lastFileAssistantText(path)
		}
	}
	return Truncate(text, limit)
}

func lastInlineAssistantText(transcript []any) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		item, ok := transcript[i].(map[string]any)
		if !ok {
			continue
		}
		if itemType, _ := item["type"].(string); itemType != "assistant" {
			continue
		}
		return firstTextBlock(item)
	}
	return ""
}

// lastFileAssistantText scans a Claude Code JSONL transcript. Unreadable
// files and malformed lines are skipped.
func lastFileAssistantText(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTranscriptLine)

	var last string
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entryType, _ := entry["type"].(string); entryType != "assistant" {
			continue
		}
		if text := firstTextBlock(entry); text != "" {
			last = text
		}
	}
	return last
}

// firstTextBlock extracts the text of the first content item with
// type="text" from entry.message.content, skipping tool_use items.
func firstTextBlock(entry map[string]any) string {
	message, ok := entry["message"].(map[string]any)
	if !ok {
		return ""
	}

	content, ok := message["content"].([]any)
	if !ok {
		// Some transcript writers store plain string content.
		s, _ := message["content"].(string)
		return s
	}

	for _, item := range content {
		contentItem, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if itemType, _ := contentItem["type"].(string); itemType != "text" {
			continue
		}
		text, _ := contentItem["text"].(string)
		return text
	}
	return ""
}

// Truncate cuts s to at most limit runes. A non-positive limit returns s.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
