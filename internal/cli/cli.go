// Package cli holds terminal output helpers shared by the interactive
// commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/buger/goterm"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	// Colors for different types of output
	userInputColor = color.New(color.FgWhite)               // White for user input
	commandColor   = color.New(color.FgGreen)               // Green for user commands
	botOutputColor = color.New(color.FgCyan)                // Cyan for assistant responses
	titleColor     = color.New(color.FgMagenta, color.Bold) // Bold magenta for titles
	separatorColor = color.New(color.FgHiBlack)             // Dark grey for separators
	errorColor     = color.New(color.FgRed)                 // Red for user-visible errors
	infoColor      = color.New(color.FgYellow)              // Yellow for status info
	promptColor    = color.New(color.FgHiBlue)              // Bright blue for prompts

	width = goterm.Width()
)

// Separator printed to cli.
func Separator() {
	separator := strings.Repeat("-", width)
	separatorColor.Println(separator)
}

// Title printed to cli.
func Title(text string, args ...any) {
	title := "      " + fmt.Sprintf(text, args...) + "      "
	leftWidth := (width - len(title)) / 2
	separator1 := strings.Repeat("-", leftWidth)
	separator2 := strings.Repeat("-", width-len(title)-len(separator1))
	output := fmt.Sprintf("%s%s%s", separator1, title, separator2)
	titleColor.Println(output)
}

// UserInput printed to cli.
func UserInput(text string, args ...any) {
	userInputColor.Printf(text, args...)
}

// Command printed to cli.
func Command(text string, args ...any) {
	if len(args) == 0 {
		commandColor.Print(text)
		return
	}
	commandColor.Printf(text, args...)
}

// BotOutput printed to cli.
func BotOutput(text string, args ...any) {
	text = strings.ReplaceAll(text, "%", "%%")
	botOutputColor.Printf(text, args...)
}

// Error printed to cli.
func Error(text string, args ...any) {
	errorColor.Printf(text, args...)
}

// Info printed to cli.
func Info(text string, args ...any) {
	infoColor.Printf(text, args...)
}

// PromptUser for input.
func PromptUser() (string, error) {
	exit := false
	config := &readline.Config{
		Prompt:            promptColor.Sprint("> "),
		InterruptPrompt:   "^C",
		HistoryFile:       "/tmp/pvassist.history",
		HistorySearchFold: true,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			if r == '\x0A' { // Ctrl + J
				exit = true
			}
			return r, true
		},
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return "", err
	}
	defer rl.Close()
	var lines []string
	for {
		line, err := rl.Readline()
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
		if err == readline.ErrInterrupt || exit {
			break
		}
		rl.SetPrompt("")
	}
	return strings.Join(lines, "\n"), nil
}

// QueryUser a yes/no question.
func QueryUser(question string) bool {
	surveyQuestion := &survey.Confirm{
		Message: question,
	}
	confirm := false
	survey.AskOne(surveyQuestion, &confirm)
	return confirm
}

// SelectOne asks the user to pick from options, returning the chosen index.
func SelectOne(message string, options []string) (int, error) {
	surveyQuestion := &survey.Select{
		Message: message,
		Options: options,
	}
	index := 0
	if err := survey.AskOne(surveyQuestion, &index); err != nil {
		return 0, err
	}
	return index, nil
}
