package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "mcq-grader/internal/application"
	"mcq-grader/internal/container"
	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/infrastructure/vision"
)

const (
	msgStart = `👋 Привет! Я бот для проверки бланков с тестовыми ответами.

1️⃣ Отправьте /key и пришлите фото или скан эталонного бланка
2️⃣ Присылайте бланки студентов — я проверю каждый
3️⃣ /export выгрузит ведомость в CSV

📋 Команды:
/key — задать эталон (начать новую проверку)
/results — текущая ведомость
/export — ведомость в CSV
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ /key и эталонный бланк с отмеченными правильными ответами
2️⃣ Бланки студентов по одному (фото или файл PNG/JPG/BMP/TIFF/WebP)
3️⃣ Для каждого бланка придёт балл и фото с подсветкой:
   🟩 верный ответ, 🟥 неверный, 🟦 правильный вариант

💡 Рекомендации:
• Присылайте бланки файлом — так не теряется качество
• Бланк должен быть того же шаблона, что и эталон
• Скан без поворота и обрезки

📋 Команды:
/key — новый эталон
/results — ведомость
/export — ведомость в CSV
/cancel — отменить операцию`

	msgAwaitingKey     = "📄 Отправьте эталонный бланк (фото или файл PNG/JPG/BMP/TIFF/WebP)."
	msgCancelled       = "❌ Операция отменена. Отправьте /key для новой проверки."
	msgSendKeyFirst    = "📄 Сначала задайте эталон командой /key."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgNoResults       = "📭 В ведомости пока нет проверенных бланков."
	msgNotImage        = "⚠️ Поддерживаются файлы PNG, JPG, BMP, TIFF и WebP."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgModelMissing    = "⚠️ Модель распознавания недоступна на сервере."
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	services *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, services *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:      api,
		services: services,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.services.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото и файлов
	if len(msg.Photo) > 0 || msg.Document != nil {
		b.handleImage(ctx, msg, user)
		return
	}

	// Текстовое сообщение (не команда)
	if user.State == entity.StateAwaitingSheets {
		b.sendMessage(msg.Chat.ID, "📸 Пришлите бланк студента для проверки.")
		return
	}
	b.sendMessage(msg.Chat.ID, msgSendKeyFirst)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	users := b.services.UserService
	grading := b.services.GradingService

	switch msg.Command() {
	case "start":
		if _, err := users.Cancel(ctx, user.ID, user.ChatID); err != nil {
			log.Printf("Error resetting user: %v", err)
		}
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "key":
		if _, err := users.BeginKey(ctx, user.ID, user.ChatID); err != nil {
			log.Printf("Error setting state: %v", err)
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingKey)

	case "results":
		results, err := grading.SessionResults(ctx, user.ID, user.ChatID)
		if err != nil {
			b.sendMessage(msg.Chat.ID, msgSendKeyFirst)
			return
		}
		if len(results) == 0 {
			b.sendMessage(msg.Chat.ID, msgNoResults)
			return
		}
		b.sendMessage(msg.Chat.ID, formatResults(results))

	case "export":
		results, err := grading.SessionResults(ctx, user.ID, user.ChatID)
		if err != nil {
			b.sendMessage(msg.Chat.ID, msgSendKeyFirst)
			return
		}
		if len(results) == 0 {
			b.sendMessage(msg.Chat.ID, msgNoResults)
			return
		}
		csvData, err := app.ResultsCSV(results)
		if err != nil {
			log.Printf("Error building CSV: %v", err)
			b.sendMessage(msg.Chat.ID, msgProcessingError)
			return
		}
		doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: "grades.csv", Bytes: []byte(csvData)})
		if _, err := b.api.Send(doc); err != nil {
			log.Printf("Error sending document: %v", err)
		}

	case "cancel":
		if _, err := users.Cancel(ctx, user.ID, user.ChatID); err != nil {
			log.Printf("Error setting state: %v", err)
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handleImage обрабатывает эталон или бланк студента в зависимости от состояния
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.State != entity.StateAwaitingKey && user.State != entity.StateAwaitingSheets {
		b.sendMessage(msg.Chat.ID, msgSendKeyFirst)
		return
	}

	fileID, name, ok := imageFile(msg)
	if !ok {
		b.sendMessage(msg.Chat.ID, msgNotImage)
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	imageData, err := b.downloadFile(fileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	grading := b.services.GradingService
	if user.State == entity.StateAwaitingKey {
		b.acceptKey(ctx, msg, user, name, imageData)
		return
	}

	out, err := grading.AcceptSheet(ctx, user.ID, user.ChatID, name, imageData)
	if err != nil {
		log.Printf("Error grading sheet: %v", err)
		b.sendMessage(msg.Chat.ID, errorText(err))
		return
	}

	if out.Result.Failed() {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("⚠️ %s: бланк не распознан (%s)", name, out.Result.Error))
		return
	}

	caption := fmt.Sprintf("✅ %s: %d из %d (%.2f%%)", name, *out.Result.Score, *out.Result.Total, *out.Result.Percentage)
	if len(out.Annotated) == 0 {
		b.sendMessage(msg.Chat.ID, caption)
		return
	}
	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "graded.jpg", Bytes: out.Annotated})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending photo: %v", err)
		b.sendMessage(msg.Chat.ID, caption)
	}
}

func (b *Bot) acceptKey(ctx context.Context, msg *tgbotapi.Message, user *entity.User, name string, data []byte) {
	updated, err := b.services.GradingService.AcceptModelAnswer(ctx, user.ID, user.ChatID, name, data)
	if err != nil {
		log.Printf("Error extracting model answer: %v", err)
		b.sendMessage(msg.Chat.ID, errorText(err))
		return
	}

	var sb strings.Builder
	sb.WriteString("🗝 Эталон принят. Правильные ответы:\n")
	for i, q := range updated.Key.Questions {
		fmt.Fprintf(&sb, "%d — вариант %d\n", i+1, q.ConfirmedIndex()+1)
	}
	sb.WriteString("\n📸 Теперь присылайте бланки студентов.")
	b.sendMessage(msg.Chat.ID, sb.String())
}

// imageFile выбирает файл изображения из сообщения
func imageFile(msg *tgbotapi.Message) (fileID, name string, ok bool) {
	if len(msg.Photo) > 0 {
		// Получаем файл с максимальным разрешением
		photo := msg.Photo[len(msg.Photo)-1]
		return photo.FileID, fmt.Sprintf("photo_%d.jpg", msg.MessageID), true
	}
	if msg.Document != nil && vision.IsImageName(msg.Document.FileName) {
		return msg.Document.FileID, msg.Document.FileName, true
	}
	return "", "", false
}

func errorText(err error) string {
	switch {
	case errors.Is(err, entity.ErrMissingResource):
		return msgModelMissing
	case errors.Is(err, entity.ErrImageLoad), errors.Is(err, entity.ErrInvalidImage), errors.Is(err, entity.ErrInvalidRegion):
		return msgProcessingError
	}
	return "⚠️ " + err.Error()
}

func formatResults(results []entity.GradingResult) string {
	var sb strings.Builder
	sb.WriteString("📋 Ведомость:\n")
	for i, r := range results {
		if r.Failed() {
			fmt.Fprintf(&sb, "%d. %s — ошибка: %s\n", i+1, r.Filename, r.Error)
			continue
		}
		fmt.Fprintf(&sb, "%d. %s — %d из %d (%.2f%%)\n", i+1, r.Filename, *r.Score, *r.Total, *r.Percentage)
	}
	return sb.String()
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
