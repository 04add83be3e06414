package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"blackjack/internal/advisor"
	"blackjack/internal/config"
	"blackjack/internal/game"
	"blackjack/internal/history"
	"blackjack/internal/logger"
	"blackjack/internal/metrics"
	"blackjack/internal/player"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	storageTimeout  = 5 * time.Second
	chatLockStripes = 64
	errorText       = "❌ Something went wrong. Please try again later."
)

// Sender is the part of the Telegram API the handler talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Advisor interface {
	Suggest(ctx context.Context, playerTotal int, dealerUp game.Card) (string, error)
}

type Handler struct {
	bot     Sender
	cfg     *config.Config
	players player.Repository
	history history.Repository
	advisor Advisor
	games   *game.Manager
	cards   game.CardSource

	// updates are handled concurrently; actions within one chat are not.
	// Chats share a fixed set of mutexes so the set never grows.
	locks [chatLockStripes]sync.Mutex
}

func NewHandler(bot Sender, cfg *config.Config, players player.Repository, hist history.Repository, adv Advisor, cards game.CardSource) *Handler {
	if cards == nil {
		cards = game.NewRandomSource()
	}
	return &Handler{
		bot:     bot,
		cfg:     cfg,
		players: players,
		history: hist,
		advisor: adv,
		games:   game.NewManager(),
		cards:   cards,
	}
}

func (h *Handler) chatLock(chatID int64) *sync.Mutex {
	return &h.locks[uint64(chatID)%chatLockStripes]
}

func (h *Handler) lock(chatID int64) func() {
	mu := h.chatLock(chatID)
	mu.Lock()
	return mu.Unlock
}

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handler) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := h.bot.Send(msg); err != nil {
		logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		logger.Debug("failed to answer callback", zap.String("callback_id", id), zap.Error(err))
	}
}

func (h *Handler) getPlayer(ctx context.Context, chatID int64) (*player.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	p, err := h.players.GetOrCreate(ctx, chatID, h.cfg.StartBalance, h.cfg.DefaultBet)
	if err != nil {
		logger.Error("failed to load player", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	return p, err
}

func (h *Handler) savePlayer(ctx context.Context, p *player.Player) error {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	if err := h.players.Save(ctx, p); err != nil {
		logger.Error("failed to save player", zap.Int64("chat_id", p.ChatID), zap.Error(err))
		return err
	}
	return nil
}

func (h *Handler) HandleStart(ctx context.Context, chatID int64) {
	p, err := h.getPlayer(ctx, chatID)
	if err != nil {
		h.send(chatID, errorText)
		return
	}

	h.send(chatID, fmt.Sprintf(
		"🎰 Welcome to Blackjack!\n\n"+
			"💵 Balance: %d\n\n"+
			"/play <bet> — play a round\n"+
			"/balance — your stats\n"+
			"/history — recent games\n"+
			"/buy — buy chips\n"+
			"/top — leaderboard\n"+
			"/help — rules",
		p.Balance))
}

func (h *Handler) HandleHelp(chatID int64) {
	h.send(chatID, fmt.Sprintf(
		"📖 Blackjack rules:\n\n"+
			"🎯 Get closer to 21 than the dealer without going over\n\n"+
			"📊 Points:\n"+
			"• 2-10 — face value\n"+
			"• J, Q, K — 10\n"+
			"• A — 11 or 1\n\n"+
			"🎮 Actions:\n"+
			"• Hit — take a card\n"+
			"• Stand — stop, the dealer draws to 17\n"+
			"• Double — double the bet, take one card (first move only)\n"+
			"• Hint — ask the AI for advice\n\n"+
			"🎰 Blackjack pays %s:1\n"+
			"💸 Bets from %d to %d",
		strconv.FormatFloat(h.cfg.BlackjackPays, 'f', -1, 64), h.cfg.MinBet, h.cfg.MaxBet))
}

func (h *Handler) HandleBalance(ctx context.Context, chatID int64) {
	p, err := h.getPlayer(ctx, chatID)
	if err != nil {
		h.send(chatID, errorText)
		return
	}

	h.send(chatID, fmt.Sprintf(
		"💰 Balance: %d\n\n"+
			"📊 Stats:\n"+
			"🎮 Games: %d\n"+
			"✅ Wins: %d (%.1f%%)\n"+
			"🎰 Blackjacks: %d\n"+
			"❌ Losses: %d\n"+
			"🤝 Pushes: %d",
		p.Balance, p.Games, p.Wins, p.WinRate(), p.Blackjacks, p.Losses, p.Pushes))
}

func (h *Handler) HandleTop(ctx context.Context, chatID int64) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	stats, err := h.players.GetTopByBalance(ctx, 10)
	if err != nil {
		logger.Error("failed to load leaderboard", zap.Error(err))
		h.send(chatID, errorText)
		return
	}

	if len(stats) == 0 {
		h.send(chatID, "🏆 Nobody has played yet!")
		return
	}
	h.send(chatID, formatTop(stats))
}

func (h *Handler) HandleHistory(ctx context.Context, chatID int64) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	records, err := h.history.ListByChat(ctx, chatID, h.cfg.HistoryLimit)
	if err != nil {
		logger.Error("failed to load history", zap.Int64("chat_id", chatID), zap.Error(err))
		h.send(chatID, errorText)
		return
	}
	h.send(chatID, formatHistory(records))
}

func (h *Handler) HandleBuy(chatID int64) {
	h.sendWithKeyboard(chatID, "🪙 How many chips do you want to buy?", BuyKeyboard(h.cfg.BuyAmounts))
}

func (h *Handler) HandlePlay(ctx context.Context, chatID int64, args []string) {
	if r := h.games.Get(chatID); r != nil {
		if !r.Done() {
			h.sendWithKeyboard(chatID,
				"⏳ Finish the current round first.\n\n"+formatGameStatus(r, false),
				h.gameKeyboard(r))
			return
		}

		// the previous round was played out but never stored
		p, err := h.getPlayer(ctx, chatID)
		if err != nil {
			h.send(chatID, errorText)
			return
		}
		h.finishRound(ctx, chatID, r, p)
		return
	}

	p, err := h.getPlayer(ctx, chatID)
	if err != nil {
		h.send(chatID, errorText)
		return
	}

	bet := p.LastBet
	if bet <= 0 {
		bet = h.cfg.DefaultBet
	}
	if len(args) > 0 {
		if b, err := strconv.Atoi(args[0]); err == nil && b > 0 {
			bet = b
		} else {
			h.send(chatID, fmt.Sprintf("❌ Invalid bet. Example: /play %d", h.cfg.DefaultBet))
			return
		}
	}

	if bet < h.cfg.MinBet || bet > h.cfg.MaxBet {
		h.send(chatID, fmt.Sprintf("❌ Bet must be between %d and %d", h.cfg.MinBet, h.cfg.MaxBet))
		return
	}

	if !p.PlaceBet(bet) {
		h.sendWithKeyboard(chatID,
			fmt.Sprintf("❌ Not enough chips! Balance: %d", p.Balance),
			BuyKeyboard(h.cfg.BuyAmounts))
		return
	}

	if err := h.savePlayer(ctx, p); err != nil {
		h.send(chatID, errorText)
		return
	}

	r := game.NewRound(h.cards, bet)
	h.games.Set(chatID, r)

	logger.Debug("round started",
		zap.Int64("chat_id", chatID),
		zap.Int("bet", bet),
		zap.String("player", game.FormatHand(r.PlayerCards)),
		zap.String("up_card", r.UpCard().String()))

	if r.Done() {
		h.finishRound(ctx, chatID, r, p)
		return
	}

	h.sendWithKeyboard(chatID,
		fmt.Sprintf("💰 Bet: %d | Balance: %d\n\n%s", bet, p.Balance, formatGameStatus(r, false)),
		h.gameKeyboard(r))
}

func (h *Handler) gameKeyboard(r *game.Round) tgbotapi.InlineKeyboardMarkup {
	return GameKeyboard(GameKeyboardOptions{
		CanDouble: r.CanDouble(),
		CanHint:   h.advisor != nil,
	})
}

func (h *Handler) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.Message.Chat == nil {
		h.answerCallback(callback.ID, "")
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	unlock := h.lock(chatID)
	defer unlock()

	if amount, ok := parseBuyCallback(data); ok {
		h.handleBuy(ctx, chatID, callback.ID, amount)
		return
	}

	p, err := h.getPlayer(ctx, chatID)
	if err != nil {
		h.answerCallback(callback.ID, "Error")
		return
	}

	switch data {
	case CallbackPlayAgain:
		h.answerCallback(callback.ID, "")
		h.HandlePlay(ctx, chatID, []string{strconv.Itoa(p.LastBet)})
		return

	case CallbackBalance:
		h.answerCallback(callback.ID, fmt.Sprintf("💵 %d", p.Balance))
		return
	}

	r := h.games.Get(chatID)
	if r == nil {
		h.answerCallback(callback.ID, "No active round")
		return
	}

	if r.Done() {
		h.finishRound(ctx, chatID, r, p)
		h.answerCallback(callback.ID, "")
		return
	}

	switch data {
	case CallbackHit:
		h.handleHit(ctx, chatID, r, p)
	case CallbackStand:
		h.handleStand(ctx, chatID, r, p)
	case CallbackDouble:
		h.handleDouble(ctx, chatID, r, p)
	case CallbackHint:
		h.handleHint(ctx, chatID, r)
	}

	h.answerCallback(callback.ID, "")
}

func (h *Handler) handleHit(ctx context.Context, chatID int64, r *game.Round, p *player.Player) {
	if _, err := r.Hit(); err != nil {
		return
	}

	if r.Done() {
		h.finishRound(ctx, chatID, r, p)
		return
	}

	h.sendWithKeyboard(chatID, formatGameStatus(r, false), h.gameKeyboard(r))
}

func (h *Handler) handleStand(ctx context.Context, chatID int64, r *game.Round, p *player.Player) {
	if err := r.Stand(); err != nil {
		return
	}
	h.finishRound(ctx, chatID, r, p)
}

func (h *Handler) handleDouble(ctx context.Context, chatID int64, r *game.Round, p *player.Player) {
	if !r.CanDouble() {
		return
	}

	if !p.CanAfford(r.Bet) {
		h.send(chatID, "❌ Not enough chips to double")
		return
	}

	// the extra stake is stored before the card is drawn
	stake := r.Bet
	p.Balance -= stake
	if err := h.savePlayer(ctx, p); err != nil {
		p.Balance += stake
		h.send(chatID, errorText)
		return
	}

	if _, err := r.Double(); err != nil {
		logger.Warn("double rejected", zap.Int64("chat_id", chatID), zap.Error(err))
		p.Balance += stake
		if err := h.savePlayer(ctx, p); err != nil {
			h.send(chatID, errorText)
		}
		return
	}

	h.finishRound(ctx, chatID, r, p)
}

func (h *Handler) handleHint(ctx context.Context, chatID int64, r *game.Round) {
	if h.advisor == nil {
		h.send(chatID, "🤖 Hints are not available.")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.cfg.AdvisorTimeout)
	defer cancel()

	started := time.Now()
	text, err := h.advisor.Suggest(ctx, r.PlayerScore(), r.UpCard())
	switch {
	case errors.Is(err, advisor.ErrDisabled):
		metrics.RecordAdvisor("disabled", started)
		h.send(chatID, "🤖 Hints are not available.")
		return
	case err != nil:
		metrics.RecordAdvisor("fail", started)
		logger.Warn("advisor failed", zap.Int64("chat_id", chatID), zap.Error(err))
		text = advisor.UnavailableText
	default:
		metrics.RecordAdvisor("success", started)
	}

	h.sendWithKeyboard(chatID, "🤖 "+text, h.gameKeyboard(r))
}

// finishRound books a finished round and shows the result. The round is
// dropped from the manager only once the balance and the history record are
// stored, so a failed attempt can be retried without paying twice.
func (h *Handler) finishRound(ctx context.Context, chatID int64, r *game.Round, p *player.Player) {
	outcome := r.Outcome()
	payout := game.PayoutFor(outcome, r.Bet, h.cfg.BlackjackPays)

	settled := *p
	settled.Apply(outcome, payout.Credit)

	sctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	if err := h.players.Settle(sctx, &settled, history.NewRecord(chatID, r, payout, time.Now())); err != nil {
		logger.Error("failed to settle round", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendWithKeyboard(chatID, formatGameUnsaved(r, outcome), RetryKeyboard())
		return
	}

	*p = settled
	h.games.Delete(chatID)

	metrics.RecordRound(outcome.String(), r.Bet)
	logger.Info("round settled",
		zap.Int64("chat_id", chatID),
		zap.String("outcome", outcome.String()),
		zap.Int("bet", r.Bet),
		zap.Int("player_total", r.PlayerScore()),
		zap.Int("dealer_total", r.DealerScore()),
		zap.Int("delta", payout.Delta))

	h.sendWithKeyboard(chatID, formatGameEnd(r, p, outcome, payout), EndGameKeyboard(p.LastBet))
}

func (h *Handler) handleBuy(ctx context.Context, chatID int64, callbackID string, amount int) {
	if !slices.Contains(h.cfg.BuyAmounts, amount) {
		h.answerCallback(callbackID, "Unknown amount")
		return
	}

	if _, err := h.getPlayer(ctx, chatID); err != nil {
		h.answerCallback(callbackID, "Error")
		return
	}

	sctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	balance, err := h.players.AddChips(sctx, chatID, amount)
	if err != nil {
		logger.Error("chip purchase failed", zap.Int64("chat_id", chatID), zap.Int("amount", amount), zap.Error(err))
		h.answerCallback(callbackID, "Error")
		h.send(chatID, "❌ Purchase failed. Please try again.")
		return
	}

	metrics.RecordPurchase(amount)
	logger.Info("chips purchased", zap.Int64("chat_id", chatID), zap.Int("amount", amount), zap.Int("balance", balance))

	h.answerCallback(callbackID, fmt.Sprintf("+%d", amount))
	h.send(chatID, fmt.Sprintf("🪙 Bought %d chips\n💵 Balance: %d", amount, balance))
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	parts := strings.Fields(msg.Text)

	if len(parts) == 0 {
		return
	}

	// commands in groups arrive as /play@BotName
	cmd, _, _ := strings.Cut(strings.ToLower(parts[0]), "@")
	args := parts[1:]

	unlock := h.lock(chatID)
	defer unlock()

	switch cmd {
	case "/start":
		h.HandleStart(ctx, chatID)
	case "/help":
		h.HandleHelp(chatID)
	case "/play":
		h.HandlePlay(ctx, chatID, args)
	case "/balance":
		h.HandleBalance(ctx, chatID)
	case "/top":
		h.HandleTop(ctx, chatID)
	case "/history":
		h.HandleHistory(ctx, chatID)
	case "/buy":
		h.HandleBuy(chatID)
	}
}
