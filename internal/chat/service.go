package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"utilhub/internal/domain"
	"utilhub/internal/infra"
	"utilhub/internal/sqlinline"
)

const (
	historyLimit     = 10
	transcriptLimit  = 50
	productsKeyword  = "테스트"
	welcomeMessageID = "welcome"
)

var systemPrompts = map[string]string{
	"ko": "당신은 유틸리티 허브의 친절한 도우미입니다. 판매 중인 구독 상품 안내, 계산, 현재 시각 확인을 도울 수 있습니다. 필요하면 제공된 함수를 호출하고, 답변은 한국어로 간결하게 작성하세요.",
	"en": "You are the friendly assistant of a utility hub. You help with the subscription products on sale, arithmetic, and the current time. Call the provided functions when needed and keep answers in English and concise.",
}

var apologyReplies = map[string]string{
	"ko": "죄송합니다. 지금은 답변을 드릴 수 없습니다. 잠시 후 다시 시도해 주세요.",
	"en": "Sorry, I can't answer right now. Please try again in a moment.",
}

var welcomeReplies = map[string]string{
	"ko": "안녕하세요! 무엇을 도와드릴까요? 상품 안내, 계산, 현재 시각을 물어보실 수 있어요.",
	"en": "Hello! How can I help you? You can ask about our products, calculations, or the current time.",
}

// Service persists the transcript and produces assistant replies.
type Service struct {
	Client CompletionClient
	SQL    infra.SQLExecutor
	Tools  *Dispatcher
	Hub    *Hub
	Logger zerolog.Logger
}

func NewService(client CompletionClient, sql infra.SQLExecutor, tools *Dispatcher, hub *Hub, logger zerolog.Logger) *Service {
	return &Service{Client: client, SQL: sql, Tools: tools, Hub: hub, Logger: logger}
}

// Messages returns the most recent transcript rows in chronological order.
// An empty transcript yields a single non-persisted greeting.
func (s *Service) Messages(ctx context.Context, locale string) ([]domain.ChatMessage, error) {
	messages, err := s.recent(ctx, transcriptLimit)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		messages = append(messages, domain.ChatMessage{
			ID:     welcomeMessageID,
			Text:   localized(welcomeReplies, locale),
			Sender: domain.SenderBot,
		})
	}
	return messages, nil
}

// Send appends the user message, produces a reply and appends it too. A
// failing model call degrades to a fixed apology instead of an error, so
// the transcript always gains both rows.
func (s *Service) Send(ctx context.Context, userID, locale, text string) (domain.ChatMessage, domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, domain.ChatMessage{}, domain.ErrEmptyMessage
	}
	userMsg, err := s.insert(ctx, userID, text, domain.SenderUser)
	if err != nil {
		return domain.ChatMessage{}, domain.ChatMessage{}, err
	}
	s.Hub.Publish(userMsg)

	reply := s.reply(ctx, locale, text)
	botMsg, err := s.insert(ctx, "", reply, domain.SenderBot)
	if err != nil {
		return domain.ChatMessage{}, domain.ChatMessage{}, err
	}
	s.Hub.Publish(botMsg)
	return userMsg, botMsg, nil
}

func (s *Service) reply(ctx context.Context, locale, text string) string {
	if strings.Contains(text, productsKeyword) {
		listing, err := s.productListing(ctx, locale)
		if err == nil {
			return listing
		}
		s.Logger.Warn().Err(err).Msg("chat product listing failed")
	}
	reply, err := s.converse(ctx, locale)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("chat completion failed")
		return localized(apologyReplies, locale)
	}
	return reply
}

// converse runs at most two completion rounds: one that may request tool
// calls and one that turns the tool results into prose.
func (s *Service) converse(ctx context.Context, locale string) (string, error) {
	if s.Client == nil {
		return "", errors.New("no completion backend configured")
	}
	history, err := s.recent(ctx, historyLimit)
	if err != nil {
		return "", err
	}
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, Message{Role: RoleSystem, Content: localized(systemPrompts, locale)})
	for _, msg := range history {
		role := RoleUser
		if msg.Sender == domain.SenderBot {
			role = RoleAssistant
		}
		messages = append(messages, Message{Role: role, Content: msg.Text})
	}

	manifest := s.Tools.Manifest()
	assistant, err := s.Client.Complete(ctx, messages, manifest)
	if err != nil {
		return "", err
	}
	if len(assistant.ToolCalls) == 0 {
		return s.finalContent(assistant)
	}

	messages = append(messages, assistant)
	for _, call := range assistant.ToolCalls {
		result, err := s.Tools.Dispatch(ctx, call)
		if err != nil {
			return "", fmt.Errorf("dispatch %s: %w", call.Function.Name, err)
		}
		messages = append(messages, Message{
			Role:       RoleTool,
			Content:    result,
			ToolCallID: call.ID,
		})
	}
	assistant, err = s.Client.Complete(ctx, messages, manifest)
	if err != nil {
		return "", err
	}
	return s.finalContent(assistant)
}

func (s *Service) finalContent(assistant Message) (string, error) {
	content := strings.TrimSpace(assistant.Content)
	if content == "" {
		return "", errors.New("assistant returned no content")
	}
	return content, nil
}

func (s *Service) productListing(ctx context.Context, locale string) (string, error) {
	products, err := s.Tools.Products.ListActive(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if locale == "ko" {
		b.WriteString("현재 판매 중인 상품입니다.\n")
	} else {
		b.WriteString("Products currently on sale:\n")
	}
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s): %d원, %d개월\n", p.Name, p.PlanType, p.Price, p.DurationMonths)
	}
	if len(products) == 0 {
		if locale == "ko" {
			b.WriteString("지금은 판매 중인 상품이 없습니다.\n")
		} else {
			b.WriteString("Nothing is on sale right now.\n")
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *Service) insert(ctx context.Context, userID, text string, sender domain.Sender) (domain.ChatMessage, error) {
	msg := domain.ChatMessage{UserID: userID, Text: text, Sender: sender}
	row := s.SQL.QueryRow(ctx, sqlinline.QInsertChatMessage, userID, text, string(sender))
	if err := row.Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("insert chat message: %w", err)
	}
	return msg, nil
}

func (s *Service) recent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	rows, err := s.SQL.Query(ctx, sqlinline.QSelectChatMessages, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()
	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Text, &msg.Sender, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	return messages, nil
}

func localized(table map[string]string, locale string) string {
	if text, ok := table[locale]; ok {
		return text
	}
	return table["ko"]
}
