package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"movie-booking/internal/config"
	"movie-booking/internal/logger"
)

const (
	chatSystemInstruction = "You are a helpful assistant."

	replySnacks    = "We have Popcorn, Samosa, Fries and Cold Drinks."
	replyShowtimes = "Shows: 10:00,13:30,16:45,19:30"
	replyHelp      = "I can help with bookings and showtimes. Set GEMINI_API_KEY for full AI answers."

	chatErrorPrefix = "Chat provider error: "
)

var ErrChatProvider = errors.New("chat provider error")

// ChatAssistant completes a single user message.
type ChatAssistant interface {
	Complete(ctx context.Context, message string) (string, error)
}

// ReplyCache stores assistant replies keyed by a message digest.
type ReplyCache interface {
	GetReply(ctx context.Context, key string) (string, bool, error)
	SetReply(ctx context.Context, key, reply string) error
}

type ChatService struct {
	mode      config.ProviderMode
	assistant ChatAssistant
	cache     ReplyCache
	cfg       config.ChatConfig
	log       *logger.Logger
}

// NewChatService picks the code path from cfg.Mode. assistant and cache may
// be nil; without an assistant the local responder is used.
func NewChatService(cfg config.ChatConfig, assistant ChatAssistant, cache ReplyCache, log *logger.Logger) *ChatService {
	mode := cfg.Mode
	if assistant == nil {
		mode = config.ModeUnconfigured
	}
	return &ChatService{
		mode:      mode,
		assistant: assistant,
		cache:     cache,
		cfg:       cfg,
		log:       log,
	}
}

func (s *ChatService) Mode() config.ProviderMode {
	return s.mode
}

// Reply answers message. On provider failure it returns a reply describing the
// failure together with an error wrapping ErrChatProvider.
func (s *ChatService) Reply(ctx context.Context, message string) (string, error) {
	if s.mode != config.ModeConfigured {
		return localReply(message), nil
	}

	key := cacheKey(message)
	if s.cache != nil {
		if reply, ok, err := s.cache.GetReply(ctx, key); err != nil {
			s.log.Warn("CHAT", fmt.Sprintf("Reply cache read failed: %v", err))
		} else if ok {
			s.log.LogCache("HIT", key, "Serving cached chat reply")
			return reply, nil
		}
	}

	callCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	s.log.LogChat("REQUEST", fmt.Sprintf("Forwarding %d chars to assistant", len(message)))
	reply, err := s.assistant.Complete(callCtx, message)
	if err != nil {
		s.log.Error("CHAT", fmt.Sprintf("Assistant failed: %v", err))
		return chatErrorPrefix + err.Error(), fmt.Errorf("%w: %w", ErrChatProvider, err)
	}
	reply = strings.TrimSpace(reply)

	if s.cache != nil {
		if err := s.cache.SetReply(ctx, key, reply); err != nil {
			s.log.Warn("CHAT", fmt.Sprintf("Reply cache write failed: %v", err))
		}
	}
	return reply, nil
}

// localReply is the keyword responder used when no assistant is configured.
func localReply(message string) string {
	lc := strings.ToLower(message)
	switch {
	case strings.Contains(lc, "snack"):
		return replySnacks
	case strings.Contains(lc, "when"):
		return replyShowtimes
	default:
		return replyHelp
	}
}

func cacheKey(message string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(message))))
	return hex.EncodeToString(sum[:])
}
