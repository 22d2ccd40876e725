package helpers

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gautham9566/AI-Shell/internal/domain"
)

// Terminal styles shared by the CLI commands.
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("87"))
	CommandStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	PromptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	CommandBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// NoticeStyle picks the style for a notice level.
func NoticeStyle(level domain.NoticeLevel) lipgloss.Style {
	switch level {
	case domain.NoticeSuccess:
		return SuccessStyle
	case domain.NoticeWarn:
		return WarnStyle
	case domain.NoticeError:
		return ErrorStyle
	default:
		return InfoStyle
	}
}

// RiskStyle picks the style for a guardrail level.
func RiskStyle(level domain.RiskLevel) lipgloss.Style {
	switch level {
	case domain.RiskHigh, domain.RiskCritical:
		return ErrorStyle
	case domain.RiskLow, domain.RiskMedium:
		return WarnStyle
	default:
		return MutedStyle
	}
}

// HealthStyle picks the style for a doctor check status.
func HealthStyle(status domain.HealthStatus) lipgloss.Style {
	switch status {
	case domain.HealthOK:
		return SuccessStyle
	case domain.HealthWarn:
		return WarnStyle
	default:
		return ErrorStyle
	}
}
