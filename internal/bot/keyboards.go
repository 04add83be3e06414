package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	CallbackHit       = "hit"
	CallbackStand     = "stand"
	CallbackDouble    = "double"
	CallbackHint      = "hint"
	CallbackPlayAgain = "play_again"
	CallbackBalance   = "balance"
	CallbackSettle    = "settle"

	callbackBuyPrefix = "buy:"
)

type GameKeyboardOptions struct {
	CanDouble bool
	CanHint   bool
}

func GameKeyboard(opts GameKeyboardOptions) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("👊 Hit", CallbackHit),
		tgbotapi.NewInlineKeyboardButtonData("✋ Stand", CallbackStand),
	}

	if opts.CanDouble {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("💰 Double", CallbackDouble))
	}

	rows := [][]tgbotapi.InlineKeyboardButton{row}
	if opts.CanHint {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤖 Hint", CallbackHint),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func EndGameKeyboard(lastBet int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🔄 Again (%d)", lastBet),
				CallbackPlayAgain,
			),
			tgbotapi.NewInlineKeyboardButtonData("💵 Balance", CallbackBalance),
		),
	)
}

func RetryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Retry", CallbackSettle),
		),
	)
}

func BuyKeyboard(amounts []int) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(amounts))
	for _, amount := range amounts {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d 🪙", amount),
			buyCallback(amount),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func buyCallback(amount int) string {
	return callbackBuyPrefix + strconv.Itoa(amount)
}

func parseBuyCallback(data string) (int, bool) {
	rest, ok := strings.CutPrefix(data, callbackBuyPrefix)
	if !ok {
		return 0, false
	}
	amount, err := strconv.Atoi(rest)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}
