package commands

import (
	"fmt"
	"strconv"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/locofilter/config"
	"github.com/teranos/locofilter/daterange"
	"github.com/teranos/locofilter/display"
	"github.com/teranos/locofilter/errors"
)

// Range modes offered by the prompt
const (
	modeExplicit = "Explicit start and end"
	modeDay      = "A single day"
	modeDays     = "The last N days"
)

// PromptCmd asks for the run parameters interactively
var PromptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Ask for the run parameters interactively",
	Long: `Ask for the backup directory, output directory and date selection, print
the equivalent run command and run it after confirmation.

Flags given on the command line are used as answers and not asked again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		answers, err := askRun(ptermPrompter{}, promptDefaults(cmd, cfg))
		if err != nil {
			return err
		}

		// Validate the date selection before showing anything runnable
		r, err := resolveRange(cfg, answers.Input)
		if err != nil {
			return err
		}
		display.PrintRange(cmd.ErrOrStderr(), r)

		pterm.Info.WithWriter(cmd.ErrOrStderr()).Printfln("Equivalent command:")
		fmt.Fprintln(cmd.ErrOrStderr(), "  "+shellquote.Join(answers.Args()...))

		ok, err := ptermPrompter{}.Confirm("Run now?")
		if err != nil {
			return errors.Wrap(err, "prompt failed")
		}
		if !ok {
			return nil
		}

		if answers.OutputDir != "" {
			cfg.Filter.OutputDir = answers.OutputDir
		}
		return execute(cmd, answers.BackupDir, answers.Input)
	},
}

func init() {
	addRunFlags(PromptCmd)
}

// prompter is the interactive surface askRun needs
type prompter interface {
	Text(label, defaultValue string) (string, error)
	Select(label string, options []string) (string, error)
	Confirm(label string) (bool, error)
}

type ptermPrompter struct{}

func (ptermPrompter) Text(label, defaultValue string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultValue(defaultValue).Show(label)
}

func (ptermPrompter) Select(label string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.WithOptions(options).Show(label)
}

func (ptermPrompter) Confirm(label string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.WithDefaultValue(true).Show(label)
}

// runAnswers are the collected answers of one prompt session
type runAnswers struct {
	BackupDir string
	OutputDir string
	Workers   int
	Input     daterange.Input
}

// Args renders the answers as a locofilter run command line
func (a runAnswers) Args() []string {
	args := []string{"locofilter", "run", "--backup-dir", a.BackupDir}
	if a.OutputDir != "" {
		args = append(args, "--output-dir", a.OutputDir)
	}
	if a.Workers > 0 {
		args = append(args, "--workers", strconv.Itoa(a.Workers))
	}
	switch {
	case a.Input.Date != "":
		args = append(args, "--date", a.Input.Date)
	case a.Input.Days != nil:
		args = append(args, "--days", strconv.Itoa(*a.Input.Days))
	default:
		args = append(args, "--start", a.Input.Start, "--end", a.Input.End)
	}
	return args
}

// promptDefaults pre-fills answers from flags and config
func promptDefaults(cmd *cobra.Command, cfg *config.Config) runAnswers {
	var d runAnswers
	d.BackupDir, _ = cmd.Flags().GetString("backup-dir")
	d.OutputDir = cfg.Filter.OutputDir
	if cmd.Flags().Changed("workers") {
		d.Workers = cfg.Filter.Workers
	}
	return d
}

// askRun collects the run parameters. A blank or malformed answer stops the
// session with a configuration error.
func askRun(p prompter, defaults runAnswers) (runAnswers, error) {
	answers := defaults

	if answers.BackupDir == "" {
		dir, err := askRequired(p, "Backup directory", "")
		if err != nil {
			return runAnswers{}, err
		}
		answers.BackupDir = dir
	}

	out, err := askRequired(p, "Output directory", defaults.OutputDir)
	if err != nil {
		return runAnswers{}, err
	}
	answers.OutputDir = out

	mode, err := p.Select("Date selection", []string{modeDay, modeDays, modeExplicit})
	if err != nil {
		return runAnswers{}, errors.Wrap(err, "prompt failed")
	}

	switch mode {
	case modeDay:
		date, err := askRequired(p, "Date (YYYY-MM-DD)", "")
		if err != nil {
			return runAnswers{}, err
		}
		answers.Input.Date = date
	case modeDays:
		raw, err := askRequired(p, "Number of days", "7")
		if err != nil {
			return runAnswers{}, err
		}
		days, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return runAnswers{}, errors.WithHint(
				errors.MarkConfiguration(errors.Wrapf(errors.ErrInvalidDays, "%q is not a number", raw)),
				"enter a whole number of days, e.g. 7")
		}
		answers.Input.Days = &days
	case modeExplicit:
		start, err := askRequired(p, "Start (YYYY-MM-DD HH:MM:SS)", "")
		if err != nil {
			return runAnswers{}, err
		}
		end, err := askRequired(p, "End (YYYY-MM-DD HH:MM:SS)", "")
		if err != nil {
			return runAnswers{}, err
		}
		answers.Input.Start, answers.Input.End = start, end
	default:
		return runAnswers{}, errors.NewConfigurationError("unknown date selection %q", mode)
	}

	return answers, nil
}

func askRequired(p prompter, label, defaultValue string) (string, error) {
	value, err := p.Text(label, defaultValue)
	if err != nil {
		return "", errors.Wrap(err, "prompt failed")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.WithHint(
			errors.NewConfigurationError("%s is required", strings.ToLower(label)),
			"run the prompt again or use locofilter run with flags")
	}
	return value, nil
}
