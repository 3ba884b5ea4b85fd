package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/healthdesk/internal/assistant"
	"github.com/xaenox/healthdesk/internal/models"
	"github.com/xaenox/healthdesk/internal/session"
	"go.uber.org/zap"
)

const maxListedReports = 5

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	welcome := `Welcome to HealthDesk! 🩺
I can answer general health questions and analyze your medical reports.

Sign in with /login <email> <password> to get started.
Use /help to see all available commands.`

	desk := b.deskFor(ctx, message.Chat.ID)
	if s := desk.CurrentSession(ctx); s != nil {
		welcome = fmt.Sprintf("Welcome back, %s!\n\n%s", s.DisplayName, formatQuickReplies(desk.Conversation().QuickReplies()))
	}

	b.sendMessage(message.Chat.ID, strings.TrimSpace(welcome))
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot
/help - Show this help message
/login <email> <password> - Sign in
/logout - Sign out
/whoami - Show who is signed in
/reports - Show your recent reports, or the review queue for doctors
/tip - Get a health tip
/clear - Clear the chat history

Once signed in you can:
- Ask any health question
- Send a photo or PDF of a medical report for analysis

For emergencies, please call 108 or visit your nearest hospital.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleLogin(ctx context.Context, message *tgbotapi.Message) {
	args := strings.Fields(message.CommandArguments())
	var email, password string
	if len(args) > 0 {
		email = args[0]
	}
	if len(args) > 1 {
		password = args[1]
	}

	desk := b.deskFor(ctx, message.Chat.ID)
	s, err := desk.Login(ctx, email, password)
	switch {
	case errors.Is(err, session.ErrMissingCredentials), errors.Is(err, session.ErrInvalidCredentials):
		b.sendErrorMessage(message.Chat.ID, capitalize(err.Error()))
		return
	case err != nil:
		b.logger.Error("Login failed",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Login failed. Please try again.")
		return
	}

	text := fmt.Sprintf("Signed in as %s (%s).", s.DisplayName, s.Role)
	if s.Role == models.RolePatient {
		text += "\n\nSend a photo or PDF of a report to analyze it, or ask me a health question.\n\n" +
			formatQuickReplies(desk.Conversation().QuickReplies())
	}
	b.sendMessage(message.Chat.ID, strings.TrimSpace(text))
}

// handleLogout relies on the session subscription to tell the user
func (b *Bot) handleLogout(ctx context.Context, message *tgbotapi.Message) {
	desk := b.deskFor(ctx, message.Chat.ID)
	if desk.CurrentSession(ctx) == nil {
		b.sendMessage(message.Chat.ID, "You are not signed in.")
		return
	}

	if err := desk.Logout(ctx); err != nil {
		b.logger.Error("Error during logout",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Logout failed. Please try again.")
	}
}

func (b *Bot) handleWhoAmI(ctx context.Context, message *tgbotapi.Message) {
	s := b.deskFor(ctx, message.Chat.ID).CurrentSession(ctx)
	if s == nil {
		b.sendMessage(message.Chat.ID, "You are not signed in.")
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf("%s (%s)", s.DisplayName, s.Role))
}

func (b *Bot) handleReports(ctx context.Context, message *tgbotapi.Message) {
	desk := b.deskFor(ctx, message.Chat.ID)
	s := desk.CurrentSession(ctx)
	if s == nil {
		b.sendMessage(message.Chat.ID, "Please sign in first: /login <email> <password>")
		return
	}
	if s.Role == models.RoleDoctor {
		b.handleReviewQueue(ctx, message, desk)
		return
	}

	reports := desk.Reports(ctx)
	if len(reports) == 0 {
		b.sendMessage(message.Chat.ID, "You don't have any reports yet.")
		return
	}
	if len(reports) > maxListedReports {
		reports = reports[:maxListedReports]
	}

	response := "*Your recent reports:*\n\n"
	for _, r := range reports {
		response += fmt.Sprintf("*%s*\n", escapeMarkdown(r.SourceFileName))
		response += fmt.Sprintf("_%s_\n", escapeMarkdown(r.CreatedAt.Format("2006-01-02 15:04")))
		response += escapeMarkdown(r.DiagnosisText) + "\n\n"
	}

	b.sendMarkdown(message.Chat.ID, response, 0)
}

func (b *Bot) handleReviewQueue(ctx context.Context, message *tgbotapi.Message, desk *assistant.Desk) {
	reports, stats, err := desk.ReviewQueue(ctx)
	if err != nil {
		b.logger.Error("Failed to load review queue",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't load the review queue.")
		return
	}

	b.sendMarkdown(message.Chat.ID, formatReviewQueue(reports, stats), 0)
}

func (b *Bot) handleClear(ctx context.Context, message *tgbotapi.Message) {
	desk := b.deskFor(ctx, message.Chat.ID)
	if err := desk.Conversation().Reset(ctx); err != nil {
		b.logger.Error("Failed to clear chat history",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't clear the chat history.")
		return
	}
	b.sendMessage(message.Chat.ID, "Chat history cleared.")
}

func (b *Bot) handleChat(ctx context.Context, message *tgbotapi.Message, desk *assistant.Desk) {
	if strings.TrimSpace(message.Text) == "" {
		return
	}

	b.sendTyping(message.Chat.ID, tgbotapi.ChatTyping)

	reply, err := desk.Respond(ctx, message.Text)
	if err != nil {
		b.logger.Error("Error sending message",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, reply.Text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleUpload(ctx context.Context, message *tgbotapi.Message, desk *assistant.Desk, file *models.SelectedFile) {
	if s := desk.CurrentSession(ctx); s == nil || s.Role != models.RolePatient {
		b.sendMessage(message.Chat.ID, "Report upload is available to patients only.")
		return
	}
	if !file.IsImage() && !file.IsPDF() {
		b.sendErrorMessage(message.Chat.ID, "Please send an image or a PDF of your medical report.")
		return
	}

	b.sendTyping(message.Chat.ID, tgbotapi.ChatUploadDocument)
	b.sendMessage(message.Chat.ID, fmt.Sprintf("Analyzing %s (%s)...", file.Name, models.FormatSize(file.SizeBytes)))

	record, err := desk.Analyze(ctx, file)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Failed to upload file. Please try again.")
		return
	}

	b.sendMarkdown(message.Chat.ID, formatReport(record), message.MessageID)
}

// selectedFile describes the attachment of message, or nil when there is none
func selectedFile(message *tgbotapi.Message) *models.SelectedFile {
	if doc := message.Document; doc != nil {
		return &models.SelectedFile{
			URI:       "tg://file/" + doc.FileID,
			MimeType:  doc.MimeType,
			Name:      doc.FileName,
			SizeBytes: int64(doc.FileSize),
		}
	}
	if n := len(message.Photo); n > 0 {
		largest := message.Photo[n-1]
		return &models.SelectedFile{
			URI:       "tg://file/" + largest.FileID,
			MimeType:  "image/jpeg",
			Name:      "camera_image.jpg",
			SizeBytes: int64(largest.FileSize),
		}
	}
	return nil
}

func formatReport(r *models.AnalysisRecord) string {
	text := fmt.Sprintf("*Report:* %s\n", escapeMarkdown(r.SourceFileName))
	text += fmt.Sprintf("*Confidence:* %s\n\n", escapeMarkdown(fmt.Sprintf("%.0f%%", r.Confidence*100)))
	text += fmt.Sprintf("*Diagnosis:*\n%s\n\n", escapeMarkdown(r.DiagnosisText))
	text += fmt.Sprintf("*Prescription:*\n%s\n", escapeMarkdown(r.RecommendationText))
	if len(r.Recommendations) > 0 {
		text += "\n*Recommendations:*\n"
		for _, rec := range r.Recommendations {
			text += escapeMarkdown("• "+rec) + "\n"
		}
	}
	return text
}

func formatReviewQueue(reports []models.ProcessedReport, stats models.ReviewStats) string {
	text := "*Review queue*\n"
	text += escapeMarkdown(fmt.Sprintf("Total reports: %d | Analyzed today: %d | Pending review: %d",
		stats.TotalReports, stats.AnalyzedToday, stats.PendingReview)) + "\n\n"

	if len(reports) == 0 {
		return text + escapeMarkdown("No processed reports.")
	}
	for _, r := range reports {
		text += fmt.Sprintf("%s *%s* %s\n", priorityMarker(r.Priority), escapeMarkdown(r.PatientName), escapeMarkdown("- "+r.ReportType))
		text += fmt.Sprintf("_%s_\n", escapeMarkdown(fmt.Sprintf("%s | %s | %s", r.Date.Format("2006-01-02"), r.Status, r.Priority)))
		text += escapeMarkdown(r.Diagnosis) + "\n\n"
	}
	return text
}

func priorityMarker(p models.Priority) string {
	switch p {
	case models.PriorityUrgent:
		return "🔴"
	case models.PriorityHigh:
		return "🟠"
	default:
		return "🟢"
	}
}

// escapeMarkdown escapes special characters for MarkdownV2
func escapeMarkdown(text string) string {
	specialChars := []string{"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	escaped := text
	for _, char := range specialChars {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string, replyToID int) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyToMessageID = replyToID
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Error("Failed to send formatted message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

// sendTyping shows the in-progress indicator while a reply is prepared
func (b *Bot) sendTyping(chatID int64, action string) {
	if _, err := b.out.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		b.logger.Debug("Failed to send chat action",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func formatQuickReplies(replies []string) string {
	if len(replies) == 0 {
		return ""
	}
	return "Quick questions:\n• " + strings.Join(replies, "\n• ")
}
