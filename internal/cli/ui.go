package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	reportStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(1, 2).
			Width(80)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// exampleQueries seeds an empty chat session with starting points.
var exampleQueries = []string{
	"Get the latest price of Microsoft",
	"Do a deep dive on AAPL over the last year",
	"What's the latest news on META?",
	"How is $TSLA doing today?",
}

func displayWelcome() {
	fmt.Println(titleStyle.Render("polygon-mcp: market data chat"))
	fmt.Println(hintStyle.Render("Ask about stocks, market data, or financial analysis. Type 'exit' to quit."))
	fmt.Println()
	fmt.Println(hintStyle.Render("Try one of these:"))
	for _, q := range exampleQueries {
		fmt.Println(hintStyle.Render("  - " + q))
	}
	fmt.Println()
}

func renderReport(body string) {
	fmt.Println(reportStyle.Render(body))
}

func renderRejection(msg string) {
	fmt.Println(warnStyle.Render(msg))
}

func renderError(err error) {
	fmt.Println(errorStyle.Render("Error: " + err.Error()))
}

func renderSaved(path string) {
	fmt.Println(successStyle.Render("Report saved to: " + path))
}
