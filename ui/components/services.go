package components

import (
	"fmt"
	"strings"

	"github.com/okynos/localchat/internal/models"
	"github.com/okynos/localchat/ui/styles"
)

func RenderServices(services []models.ServiceItem, selected int, daemonUp bool, width int) string {
	var b strings.Builder

	programStyle := styles.ProgramStyle()
	serviceStyle := styles.ServiceStyle()
	selectedStyle := styles.SelectedServiceStyle()
	progressStyle := styles.ProgressStyle()

	b.WriteString(programStyle.Render("-- SERVICES --") + "\n\n")

	if !daemonUp {
		b.WriteString(styles.ErrorStyle().Render("Service runtime is not running. Start it and press 'r' to retry.") + "\n\n")
		return b.String()
	}

	if len(services) == 0 {
		b.WriteString(serviceStyle.Render("No services found. Press 'r' to refresh.") + "\n\n")
		return b.String()
	}

	for i, svc := range services {
		style := serviceStyle
		cursor := "  "
		if i == selected {
			style = selectedStyle
			cursor = "> "
		}

		line := cursor + svc.Name + " " + serviceState(svc)
		b.WriteString(style.Render(line) + "\n")

		if svc.Progress >= 0 {
			b.WriteString(progressStyle.Render(fmt.Sprintf("  downloading %d%%", svc.Progress)) + "\n")
		}
	}

	b.WriteString("\n" + serviceStyle.Render("enter/d download · r refresh · tab back to chat") + "\n")
	return b.String()
}

func serviceState(svc models.ServiceItem) string {
	switch {
	case svc.Running:
		return "[running]"
	case svc.Downloaded:
		return "[downloaded]"
	default:
		return "[not downloaded]"
	}
}
