package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	app "quality-bot/internal/application"
	"quality-bot/internal/container"
	"quality-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Hi! I run the quality control line for chocolate production.

📋 Commands:
/inspect_molding — inspect a batch at the molding station
/inspect_packaging — inspect a batch at the packaging station
/full_process — run a batch through molding and packaging
/report — aggregate quality report
/history — inspection history
/simulate — simulate production of a batch series
/cancel — cancel the current operation
/help — help`

	msgHelp = `ℹ️ How it works:

1️⃣ Pick a station command and send the batch id
2️⃣ The station sensor scans the item for defects
3️⃣ You get the verdict and the detected defects

📋 Commands:
/inspect_molding — molding inspection
/inspect_packaging — packaging inspection
/full_process — molding + packaging
/report — quality report
/history — inspection history
/simulate — batch simulation
/cancel — cancel`

	msgAskMoldingID   = "🔧 Send the batch id for the molding inspection."
	msgAskPackagingID = "📦 Send the batch id for the packaging inspection."
	msgAskFullRunID   = "🏭 Send the batch id for the full process run."
	msgAskBatchCount  = "🔢 Send the number of items to produce."
	msgCancelled      = "❌ Operation cancelled. Pick a command to start a new one."
	msgUnknownCommand = "❓ Unknown command. Use /help for the command list."
	msgPickCommand    = "Pick a command to start, /help for the list."
	msgEmptyBatchID   = "⚠️ The batch id must not be empty. Try again."
	msgBadCount       = "⚠️ Send a whole number greater than zero."
	msgInspectionFail = "⚠️ Inspection failed. Try again."
)

// Bot is the Telegram front of the quality control line.
type Bot struct {
	api         *tgbotapi.BotAPI
	users       *app.UserService
	inspections *app.InspectionService
}

// NewBot creates a bot on top of the application services.
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info().Str("account", api.Self.UserName).Msg("authorized")

	return &Bot{
		api:         api,
		users:       c.UserService,
		inspections: c.InspectionService,
	}, nil
}

// Run starts the update loop.
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("get user")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	b.handleText(ctx, msg, user)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "inspect_molding":
		b.users.BeginMoldingInspection(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAskMoldingID)

	case "inspect_packaging":
		b.users.BeginPackagingInspection(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAskPackagingID)

	case "full_process":
		b.users.BeginFullProcess(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAskFullRunID)

	case "simulate":
		b.users.BeginSimulation(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAskBatchCount)

	case "report":
		report, err := b.inspections.GenerateReport(ctx)
		if err != nil {
			log.Error().Err(err).Msg("generate report")
			b.sendMessage(msg.Chat.ID, msgInspectionFail)
			return
		}
		b.sendMessage(msg.Chat.ID, report)

	case "history":
		history, err := b.inspections.ListInspections(ctx)
		if err != nil {
			log.Error().Err(err).Msg("list inspections")
			b.sendMessage(msg.Chat.ID, msgInspectionFail)
			return
		}
		b.sendMessage(msg.Chat.ID, history)

	case "cancel":
		b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handleText routes a plain text message by the operator's dialog state.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	text := strings.TrimSpace(msg.Text)

	switch user.State {
	case entity.StateAwaitingMoldingID:
		b.runStationInspection(ctx, msg, user, text, app.ProcessMolding)

	case entity.StateAwaitingPackagingID:
		b.runStationInspection(ctx, msg, user, text, app.ProcessPackaging)

	case entity.StateAwaitingFullRunID:
		b.runFullProcess(ctx, msg, user, text)

	case entity.StateAwaitingBatchCount:
		b.runSimulation(ctx, msg, user, text)

	default:
		b.sendMessage(msg.Chat.ID, msgPickCommand)
	}
}

func (b *Bot) runStationInspection(ctx context.Context, msg *tgbotapi.Message, user *entity.User, batchID, process string) {
	if batchID == "" {
		b.sendMessage(msg.Chat.ID, msgEmptyBatchID)
		return
	}

	var item *entity.Item
	if process == app.ProcessMolding {
		item = entity.NewMoldedItem(batchID, time.Now(), "heart")
	} else {
		item = entity.NewPackagedItem(batchID, time.Now(), "gift_box")
	}

	status, err := b.inspections.Inspect(ctx, item, process)
	if err != nil {
		log.Error().Err(err).Str("process", process).Str("batch", batchID).Msg("inspect")
		if errors.Is(err, app.ErrUnknownProcess) {
			b.sendMessage(msg.Chat.ID, "⚠️ No sensor is registered for this station.")
		} else {
			b.sendMessage(msg.Chat.ID, msgInspectionFail)
		}
		b.users.Cancel(ctx, user.ID, user.ChatID)
		return
	}

	b.sendMessage(msg.Chat.ID, renderVerdict(item.BatchID(), status, item.Defects()))
	b.users.Cancel(ctx, user.ID, user.ChatID)
}

func (b *Bot) runFullProcess(ctx context.Context, msg *tgbotapi.Message, user *entity.User, batchID string) {
	if batchID == "" {
		b.sendMessage(msg.Chat.ID, msgEmptyBatchID)
		return
	}

	result, err := b.inspections.RunFullProcess(ctx, batchID)
	if err != nil {
		log.Error().Err(err).Str("batch", batchID).Msg("full process")
		b.sendMessage(msg.Chat.ID, msgInspectionFail)
		b.users.Cancel(ctx, user.ID, user.ChatID)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔧 Molding %s: %s\n", result.Molding.BatchID, result.Molding.Result))
	if result.Packaging == nil {
		sb.WriteString("❌ Batch rejected at molding")
	} else {
		sb.WriteString(fmt.Sprintf("📦 Packaging %s: %s\n", result.Packaging.BatchID, result.Packaging.Result))
		if result.Packaging.Result == entity.StatusApproved {
			sb.WriteString("🎉 Final product APPROVED!")
		} else {
			sb.WriteString("❌ Batch rejected at packaging")
		}
	}

	b.sendMessage(msg.Chat.ID, sb.String())
	b.users.Cancel(ctx, user.ID, user.ChatID)
}

func (b *Bot) runSimulation(ctx context.Context, msg *tgbotapi.Message, user *entity.User, text string) {
	count, err := strconv.Atoi(text)
	if err != nil || count <= 0 {
		b.sendMessage(msg.Chat.ID, msgBadCount)
		return
	}

	results, err := b.inspections.SimulateProduction(ctx, count)
	if err != nil {
		log.Error().Err(err).Int("count", count).Msg("simulate production")
		b.sendMessage(msg.Chat.ID, msgInspectionFail)
		b.users.Cancel(ctx, user.ID, user.ChatID)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏭 Simulated production of %d items:\n", count))
	for _, run := range results {
		sb.WriteString(fmt.Sprintf("  Molding %s: %s\n", run.Molding.BatchID, run.Molding.Result))
		if run.Packaging != nil {
			sb.WriteString(fmt.Sprintf("  Packaging %s: %s\n", run.Packaging.BatchID, run.Packaging.Result))
		} else {
			sb.WriteString(fmt.Sprintf("  ❌ %s rejected at molding\n", run.Molding.BatchID))
		}
	}

	b.sendMessage(msg.Chat.ID, sb.String())
	b.users.Cancel(ctx, user.ID, user.ChatID)
}

func renderVerdict(batchID string, status entity.QualityStatus, defects []entity.DefectKind) string {
	var sb strings.Builder
	if status == entity.StatusApproved {
		sb.WriteString(fmt.Sprintf("✅ Batch %s: %s", batchID, status))
	} else {
		sb.WriteString(fmt.Sprintf("❌ Batch %s: %s", batchID, status))
	}
	if len(defects) > 0 {
		parts := make([]string, len(defects))
		for i, d := range defects {
			parts[i] = string(d)
		}
		sb.WriteString("\nDefects detected: " + strings.Join(parts, ", "))
	}
	return sb.String()
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}
