package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"schedulebot/internal/schedule"
	"schedulebot/pkg/config"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	buttonToday    = "На сегодня"
	buttonTomorrow = "На завтра"
	buttonThisWeek = "Эта неделя"
	buttonNextWeek = "Следующая неделя"

	queryTimeout = time.Minute
)

type ScheduleService interface {
	GetDaySchedule(ctx context.Context, date time.Time) schedule.DayResult
	GetWeekSchedule(ctx context.Context, date time.Time) schedule.WeekResult
	CurrentParity(ctx context.Context) (int, schedule.Origin)
	Now() time.Time
}

type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot      *tgbotapi.BotAPI
	client   botClient
	schedule ScheduleService
	cfg      *config.Config
}

func NewHandler(cfg *config.Config, scheduleService ScheduleService) (*Handler, error) {
	if cfg.TelegramToken == "" {
		return nil, errors.New("не указан токен Telegram-бота (TELEGRAM_TOKEN)")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка при инициализации Telegram бота: %w", err)
	}

	logrus.Infof("Telegram бот запущен: %s", bot.Self.UserName)

	return &Handler{
		bot:      bot,
		client:   bot,
		schedule: scheduleService,
		cfg:      cfg,
	}, nil
}

func (h *Handler) SetupWebhook() error {
	webhookURL := fmt.Sprintf("https://%s:%s/webhook", h.cfg.ServerHost, h.cfg.ServerPort)

	webhookConfig, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return fmt.Errorf("ошибка при создании конфига вебхука: %w", err)
	}

	if _, err := h.client.Request(webhookConfig); err != nil {
		return fmt.Errorf("ошибка при установке вебхука: %w", err)
	}

	return nil
}

func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := h.bot.HandleUpdate(r)
	if err != nil {
		logrus.Errorf("Ошибка при обработке обновления: %v", err)
		http.Error(w, "некорректное обновление", http.StatusBadRequest)
		return
	}

	h.handleUpdate(r.Context(), *update)
}

// Poll получает обновления через long polling, пока не отменён ctx.
func (h *Handler) Poll(ctx context.Context) {
	if _, err := h.client.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logrus.Warnf("Не удалось удалить вебхук перед запуском polling: %v", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := h.client.Send(msg)
	if err != nil {
		return fmt.Errorf("ошибка при отправке сообщения: %w", err)
	}
	return nil
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if update.Message.IsCommand() {
		h.handleCommand(ctx, update.Message)
		return
	}

	if update.Message.Text != "" {
		h.handleTextMessage(ctx, update.Message)
	}
}

func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		h.handleStart(ctx, chatID)
	case "today":
		h.sendDay(ctx, chatID, h.schedule.Now())
	case "tomorrow":
		h.sendDay(ctx, chatID, h.schedule.Now().AddDate(0, 0, 1))
	case "ics":
		nextWeek := strings.TrimSpace(message.CommandArguments()) == "next"
		h.handleICS(ctx, chatID, nextWeek)
	default:
		h.logSendError(chatID, h.SendMessage(chatID, "Неизвестная команда. Используйте /start"))
	}
}

func (h *Handler) handleStart(ctx context.Context, chatID int64) {
	parity, origin := h.schedule.CurrentParity(ctx)

	msg := tgbotapi.NewMessage(chatID, RenderGreeting(h.cfg.GroupName, h.schedule.Now(), parity, origin))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = mainKeyboard()

	_, err := h.client.Send(msg)
	h.logSendError(chatID, err)
}

func (h *Handler) handleTextMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	today := h.schedule.Now()

	switch message.Text {
	case buttonToday:
		h.sendDay(ctx, chatID, today)
	case buttonTomorrow:
		h.sendDay(ctx, chatID, today.AddDate(0, 0, 1))
	case buttonThisWeek:
		h.showWeekKeyboard(chatID, false)
	case buttonNextWeek:
		h.showWeekKeyboard(chatID, true)
	default:
		logrus.Debugf("Сообщение без команды от чата %d проигнорировано", chatID)
	}
}

func (h *Handler) sendDay(ctx context.Context, chatID int64, date time.Time) {
	result := h.schedule.GetDaySchedule(ctx, date)
	h.logSendError(chatID, h.SendMessage(chatID, RenderDay(result)))
}

func (h *Handler) showWeekKeyboard(chatID int64, nextWeek bool) {
	weekName := "текущую"
	if nextWeek {
		weekName = "следующую"
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Выберите день на %s неделю:", weekName))
	msg.ReplyMarkup = weekKeyboard(nextWeek)

	_, err := h.client.Send(msg)
	h.logSendError(chatID, err)
}

func (h *Handler) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := h.client.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logrus.Warnf("Не удалось ответить на callback %s: %v", query.ID, err)
	}

	if query.Message == nil {
		return
	}

	nextWeek, weekday, ok := ParseWeekCallback(query.Data)
	if !ok {
		logrus.Warnf("Неизвестные данные callback: %q", query.Data)
		return
	}

	target := TargetDate(h.schedule.Now(), weekday, nextWeek)
	text := RenderDay(h.schedule.GetDaySchedule(ctx, target))

	if query.Message.Text == text {
		return
	}

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.client.Send(edit); err != nil {
		logrus.Errorf("Ошибка при обновлении сообщения в чате %d: %v", query.Message.Chat.ID, err)
	}
}

func (h *Handler) handleICS(ctx context.Context, chatID int64, nextWeek bool) {
	date := h.schedule.Now()
	if nextWeek {
		date = date.AddDate(0, 0, 7)
	}

	week := h.schedule.GetWeekSchedule(ctx, date)
	data, err := schedule.ExportWeekICS(week, h.cfg.GroupName)
	if err != nil {
		h.logSendError(chatID, h.SendMessage(chatID, noDataText))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("schedule-%s.ics", week.Monday.Format("2006-01-02")),
		Bytes: []byte(data),
	})
	doc.Caption = fmt.Sprintf("Расписание на неделю с %s", week.Monday.Format(dateLayout))

	_, err = h.client.Send(doc)
	h.logSendError(chatID, err)
}

func (h *Handler) logSendError(chatID int64, err error) {
	if err != nil {
		logrus.Errorf("Ошибка при отправке сообщения в чат %d: %v", chatID, err)
	}
}

func (h *Handler) GetBotInfo() *tgbotapi.User {
	if h.bot == nil {
		return nil
	}
	return &h.bot.Self
}
