package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/small-creator/naverland-ho-tele/internal/biz"
	"github.com/small-creator/naverland-ho-tele/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

// dispatch modes
const (
	DispatchModeInline = "inline"
	DispatchModeGithub = "github"
)

// inlineExtractTimeout bounds one in-process extraction: broker resolution
// plus a full catalog walk with per-page delays.
const inlineExtractTimeout = 60 * time.Second

// User-facing messages are Korean; the bot serves Korean real-estate users.
const (
	msgWelcome = "안녕하세요! 네이버 부동산 동호수 조회 봇입니다.\n" +
		"매물번호를 보내시면 동/호수 정보를 찾아드립니다.\n" +
		"예: 2412345678 또는 /extract 2412345678"
	msgUnauthorized   = "이 봇을 사용할 권한이 없습니다. 관리자에게 문의하세요."
	msgInvalidCommand = "올바른 명령어를 입력해주세요. 예: /extract 12345678"
	msgInvalidArticle = "매물번호가 올바르지 않습니다. 예: /extract 12345678"
	msgLedgerDown     = "일시적인 오류로 요청을 처리할 수 없습니다. 잠시 후 다시 시도해주세요."
	msgDispatchFailed = "오류: 조회 요청에 실패했습니다. 잠시 후 다시 시도해주세요."
	msgInternalError  = "❌ 조회 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

// telegramUpdate is the subset of the Telegram webhook payload the bot reads.
type telegramUpdate struct {
	Message *struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// BotService routes Telegram webhook updates: allow-list, quota, then
// extraction dispatch. Every inbound command yields exactly one immediate
// reply; an admitted extraction yields one more message with the result.
type BotService struct {
	quota      *biz.QuotaUsecase
	extractor  *biz.ExtractUsecase
	messenger  biz.Messenger
	dispatcher biz.JobDispatcher
	history    biz.HistoryRecorder

	dispatchMode string
	allowedChats map[int64]struct{}

	logger *log.Helper
}

// NewBotService creates the webhook command router.
func NewBotService(
	dispatchCfg *conf.Dispatch,
	quotaCfg *conf.Quota,
	quota *biz.QuotaUsecase,
	extractor *biz.ExtractUsecase,
	messenger biz.Messenger,
	dispatcher biz.JobDispatcher,
	history biz.HistoryRecorder,
	logger log.Logger,
) *BotService {
	s := &BotService{
		quota:        quota,
		extractor:    extractor,
		messenger:    messenger,
		dispatcher:   dispatcher,
		history:      history,
		dispatchMode: DispatchModeInline,
		logger:       log.NewHelper(logger),
	}
	if dispatchCfg != nil && dispatchCfg.Mode != "" {
		s.dispatchMode = dispatchCfg.Mode
	}
	if quotaCfg != nil && len(quotaCfg.AllowedChats) > 0 {
		s.allowedChats = make(map[int64]struct{}, len(quotaCfg.AllowedChats))
		for _, id := range quotaCfg.AllowedChats {
			s.allowedChats[id] = struct{}{}
		}
	}
	return s
}

// ProcessUpdate handles one Telegram update payload. Malformed or non-text
// updates are dropped: the transport answers 200 regardless, and replying to
// garbage would only spam the chat.
func (s *BotService) ProcessUpdate(ctx context.Context, body io.Reader) {
	var update telegramUpdate
	if err := json.NewDecoder(body).Decode(&update); err != nil {
		s.logger.Warnw("msg", "failed to decode webhook payload", "error", err)
		return
	}
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	s.handleCommand(ctx, update.Message.Chat.ID, strings.TrimSpace(update.Message.Text))
}

// handleCommand routes one chat command: allow-list gate, then the command
// itself, with the quota gate applied to extraction requests only.
func (s *BotService) handleCommand(ctx context.Context, chatID int64, text string) {
	if !s.isAllowed(chatID) {
		s.logger.Warnw("msg", "rejected chat outside allow-list", "chat_id", chatID)
		s.reply(ctx, chatID, msgUnauthorized)
		return
	}

	switch {
	case text == "/start":
		s.reply(ctx, chatID, msgWelcome)
	case text == "/myusage":
		s.replyUsage(ctx, chatID)
	case strings.HasPrefix(text, "/extract"):
		parts := strings.Fields(text)
		if len(parts) != 2 || !isDigits(parts[1]) {
			s.reply(ctx, chatID, msgInvalidArticle)
			return
		}
		s.handleExtraction(ctx, chatID, parts[1])
	case isDigits(text):
		s.handleExtraction(ctx, chatID, text)
	default:
		s.reply(ctx, chatID, msgInvalidCommand)
	}
}

// handleExtraction admits the request through the quota ledger and hands it
// to the configured dispatch mode.
func (s *BotService) handleExtraction(ctx context.Context, chatID int64, articleNo string) {
	decision, usage := s.quota.CheckAndConsume(ctx, chatID)
	switch decision {
	case biz.DecisionDailyLimitExceeded:
		s.reply(ctx, chatID, fmt.Sprintf("하루 최대 조회 횟수(%d회)를 초과했습니다. 내일 다시 시도해주세요.", usage.DailyLimit))
		return
	case biz.DecisionTotalLimitExceeded:
		s.reply(ctx, chatID, fmt.Sprintf("전체 조회 가능 횟수(%d회)를 모두 사용했습니다.", usage.TotalLimit))
		return
	case biz.DecisionLedgerUnavailable:
		s.reply(ctx, chatID, msgLedgerDown)
		return
	}

	if s.dispatchMode == DispatchModeGithub {
		if err := s.dispatcher.Dispatch(ctx, chatID, articleNo); err != nil {
			s.logger.Errorw("msg", "workflow dispatch failed",
				"chat_id", chatID,
				"article_no", articleNo,
				"error", err)
			s.reply(ctx, chatID, msgDispatchFailed)
			return
		}
		s.reply(ctx, chatID, ackMessage(articleNo))
		return
	}

	s.reply(ctx, chatID, ackMessage(articleNo))
	go s.runExtraction(chatID, articleNo)
}

// runExtraction runs the pipeline outside the webhook request and delivers
// the result. The webhook context is gone by now, so the job gets its own.
func (s *BotService) runExtraction(chatID int64, articleNo string) {
	ctx, cancel := context.WithTimeout(context.Background(), inlineExtractTimeout)
	defer cancel()

	result := s.extractor.Extract(ctx, articleNo)
	s.history.Record(chatID, result)
	s.reply(ctx, chatID, formatResult(result))
}

// replyUsage reports the chat's counters against its effective limits.
func (s *BotService) replyUsage(ctx context.Context, chatID int64) {
	usage, err := s.quota.GetUsage(ctx, chatID)
	if err != nil {
		s.reply(ctx, chatID, msgLedgerDown)
		return
	}
	s.reply(ctx, chatID, fmt.Sprintf(
		"📊 사용량 현황\n오늘: %d/%d회\n전체: %d/%d회",
		usage.DailyCount, usage.DailyLimit,
		usage.TotalCount, usage.TotalLimit))
}

// reply sends one message; delivery failures are logged and swallowed so the
// webhook path still answers 200.
func (s *BotService) reply(ctx context.Context, chatID int64, text string) {
	if err := s.messenger.SendMessage(ctx, chatID, text); err != nil {
		s.logger.Errorw("msg", "failed to send telegram message",
			"chat_id", chatID,
			"error", err)
	}
}

func (s *BotService) isAllowed(chatID int64) bool {
	if s.allowedChats == nil {
		return true
	}
	_, ok := s.allowedChats[chatID]
	return ok
}

func ackMessage(articleNo string) string {
	return fmt.Sprintf("✅ 매물번호 [%s] 조회를 요청했습니다. 잠시 후 결과를 보내드립니다.", articleNo)
}

// formatResult renders the extraction outcome for the chat.
func formatResult(result *biz.ExtractionResult) string {
	if !result.Success {
		switch result.ErrorKind {
		case biz.ErrorKindBrokerNotFound:
			return fmt.Sprintf("❌ 매물번호 [%s]의 중개사 정보를 찾을 수 없습니다.", result.ArticleNo)
		case biz.ErrorKindListingNotFound:
			return fmt.Sprintf("❌ 매물번호 [%s]의 매물 정보를 찾을 수 없습니다.", result.ArticleNo)
		default:
			return msgInternalError
		}
	}

	return fmt.Sprintf(
		"🏠 매물번호 [%s] 조회 결과\n\n단지명: %s\n가격: %s\n동: %s\n호: %s\n주소: %s",
		result.ArticleNo,
		orNone(result.ComplexName),
		orNone(result.Price),
		orNone(result.Building),
		orNone(result.Unit),
		orNone(result.FullAddress))
}

func orNone(v string) string {
	if v == "" {
		return "정보 없음"
	}
	return v
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
