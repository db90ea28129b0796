package components

import (
	"strconv"
	"strings"

	"github.com/okynos/localchat/internal/models"
	"github.com/okynos/localchat/internal/utils"
	"github.com/okynos/localchat/ui/styles"
)

func RenderMessages(messages []models.Message, isError bool) string {
	var b strings.Builder

	systemStyle := styles.SystemStyle()
	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	programStyle := styles.ProgramStyle()

	for _, msg := range messages {
		switch msg.Type {
		case models.System:
			b.WriteString(systemStyle.Render(msg.Content) + "\n\n")
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
		case models.Assistant:
			b.WriteString(assistantStyle.Render("Assistant: "+utils.RenderMarkdown(msg.Content)) + "\n\n")
		case models.Program:
			b.WriteString(programStyle.Render(msg.Content) + "\n\n")
		}
	}

	// The failed question stays visible above this marker until it is
	// resubmitted or the user switches conversations.
	if isError {
		b.WriteString(styles.ErrorStyle().Render("The assistant did not answer. Press Enter to retry.") + "\n\n")
	}

	return b.String()
}

func RenderConversationBar(conversations []models.ConversationSummary, activeID string) string {
	style := styles.ConversationBarStyle()

	if len(conversations) == 0 {
		return style.Render("New conversation") + "\n\n"
	}

	title := "New conversation"
	for _, conv := range conversations {
		if conv.ID == activeID {
			title = conv.Title
			break
		}
	}

	return style.Render(title+"  ·  "+plural(len(conversations), "conversation")+"  ·  ctrl+n new, ctrl+p next") + "\n\n"
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
