package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"builders-bot/internal/ledger"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
)

// Bot observes the community group and feeds the ledger: profiles are
// created on /start and every message bumps the Telegram activity counters.
type Bot struct {
	Instance *telego.Bot
	Store    *ledger.Store
}

func NewBot(token string, store *ledger.Store) (*Bot, error) {
	tgBot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		Instance: tgBot,
		Store:    store,
	}, nil
}

func (b *Bot) Start() {
	updates, _ := b.Instance.UpdatesViaLongPolling(context.Background(), nil)

	handler, _ := th.NewBotHandler(b.Instance, updates)

	// /start command - set up the profile
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message

		profile, err := b.setupProfile(ctx.Context(), message)
		if err != nil {
			log.Printf("Failed to get/create user: %v", err)
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), "Something went wrong, please try again later."))
			return nil
		}
		if profile == nil {
			return nil
		}

		msg := fmt.Sprintf("Welcome, %s! 👋\n\nYour builder profile is ready.\n🏆 Builder score: %.1f\n🙌 Nominations received: %d",
			message.From.FirstName, profile.BuilderScore, profile.NominationsReceived)
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), msg))
		return nil
	}, th.CommandEqual("start"))

	// /top command - leaderboard
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		message := update.Message

		top, err := b.Store.GetTopBuilders(ctx.Context(), 10)
		if err != nil {
			log.Printf("Failed to load top builders: %v", err)
			_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), "Leaderboard is unavailable right now."))
			return nil
		}

		var sb strings.Builder
		sb.WriteString("🏆 Top builders:\n")
		for i, profile := range top {
			name := fmt.Sprintf("%d", profile.UserID)
			if profile.Username != nil {
				name = "@" + *profile.Username
			}
			sb.WriteString(fmt.Sprintf("%d. %s — %.1f\n", i+1, name, profile.BuilderScore))
		}
		_, _ = ctx.Bot().SendMessage(ctx.Context(), tu.Message(tu.ID(message.Chat.ID), sb.String()))
		return nil
	}, th.CommandEqual("top"))

	// Activity tracking for every other text message
	handler.Handle(func(ctx *th.Context, update telego.Update) error {
		if err := b.recordActivity(ctx.Context(), update.Message); err != nil {
			log.Printf("Failed to record activity: %v", err)
		}
		return nil
	}, th.AnyMessageWithText())

	handler.Start()
}

// setupProfile creates or loads the sender's builder profile. Sender-less
// messages (channel posts) yield nil without error; there is no profile to
// set up and nobody to greet.
func (b *Bot) setupProfile(ctx context.Context, message *telego.Message) (*ledger.Profile, error) {
	if message.From == nil {
		return nil, nil
	}
	from := message.From

	profile, err := b.Store.GetOrCreateUser(ctx, from.ID, from.Username, from.FirstName)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// recordActivity bumps the sender's message or reply counter. Commands and
// sender-less messages are ignored.
func (b *Bot) recordActivity(ctx context.Context, message *telego.Message) error {
	if message.From == nil || strings.HasPrefix(message.Text, "/") {
		return nil
	}
	from := message.From

	// Make sure the row exists so counters of first-time posters land.
	if _, err := b.Store.GetOrCreateUser(ctx, from.ID, from.Username, from.FirstName); err != nil {
		return err
	}

	kind := ledger.KindMessages
	if message.ReplyToMessage != nil {
		kind = ledger.KindReplies
	}
	err := b.Store.UpdateTelegramActivity(ctx, from.ID, kind)
	if err != nil && !errors.Is(err, ledger.ErrUserNotFound) {
		return err
	}
	return nil
}
