package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// runInteractive runs the chat loop: prompt for a query, answer it,
// offer to save the report, repeat until the user exits.
func runInteractive(ctx context.Context) error {
	app, err := buildApp(ctx)
	if err != nil {
		return err
	}

	displayWelcome()
	checkEnvironment(app.cfg)

	for {
		var query string
		prompt := &survey.Input{
			Message: "Your question:",
		}
		if err := survey.AskOne(prompt, &query); err != nil {
			// survey returns an error on Ctrl+C
			fmt.Println(hintStyle.Render("Goodbye."))
			return nil
		}

		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		if isExitCommand(query) {
			fmt.Println(hintStyle.Render("Goodbye."))
			return nil
		}

		fmt.Println(promptStyle.Render("Analyzing..."))
		out := app.analyst.HandleQuery(ctx, query)
		if out.Rejected() {
			renderRejection(out.Rejection)
			continue
		}

		renderReport(out.Report)

		if confirmSave() {
			path, err := app.analyst.Save(out.Report, out.Ticker)
			if err != nil {
				renderError(err)
				continue
			}
			renderSaved(path)
		}
	}
}

func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit", "q", "bye":
		return true
	}
	return false
}

func confirmSave() bool {
	save := false
	prompt := &survey.Confirm{
		Message: "Save this report?",
		Default: false,
	}
	if err := survey.AskOne(prompt, &save); err != nil {
		return false
	}
	return save
}
