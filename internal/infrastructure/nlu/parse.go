package nlu

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cartcompare/backend/internal/domain"
)

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type extractedItem struct {
	Name     string      `json:"name"`
	Quantity interface{} `json:"quantity"`
}

// parseChatResponse pulls the product list out of a chat-completions reply
func parseChatResponse(body []byte) ([]domain.RequestedItem, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Op: "parse_response_json", Err: fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)}
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Op: "check_response_choices", Err: fmt.Errorf("%w: no choices in response", domain.ErrExtractionFailed)}
	}

	items, err := parseItems(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, &Error{Op: "parse_content", Err: err}
	}
	return items, nil
}

// parseItems reads a JSON array of {name, quantity} from model output,
// tolerating markdown fences, surrounding prose and a {"products": [...]}
// wrapper
func parseItems(content string) ([]domain.RequestedItem, error) {
	content = stripCodeFence(content)

	var wrapped struct {
		Products []extractedItem `json:"products"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil && wrapped.Products != nil {
		return toRequestedItems(wrapped.Products), nil
	}

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON array in model reply", domain.ErrExtractionFailed)
	}

	var raw []extractedItem
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	return toRequestedItems(raw), nil
}

func toRequestedItems(raw []extractedItem) []domain.RequestedItem {
	items := make([]domain.RequestedItem, 0, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		items = append(items, domain.RequestedItem{Name: name, Quantity: parseQuantity(r.Quantity)})
	}
	return items
}

// parseQuantity accepts numbers and numeric strings; anything else is 1
func parseQuantity(v interface{}) int {
	var f float64
	switch q := v.(type) {
	case float64:
		f = q
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil {
			return 1
		}
		f = parsed
	default:
		return 1
	}

	n := int(math.Ceil(f))
	if n < 1 {
		return 1
	}
	return n
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
