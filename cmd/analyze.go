package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jd-match/internal/employee"
	"github.com/spigell/jd-match/internal/form"
	"github.com/spigell/jd-match/internal/logger"
	"github.com/spigell/jd-match/internal/secrets"
	"github.com/spigell/jd-match/internal/view"
)

const (
	PromptSubmitAgain = "Submit again"
	PromptExit        = "Exit"
)

var errSubmissionFailed = errors.New("submission failed")

var againPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptSubmitAgain, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a CV against a job description",
	Example: `  jd-match analyze --cv cv.pdf --jd-text "Senior Go engineer"
  jd-match analyze --cv cv.docx --jd-file jd.pdf --output json
  jd-match analyze -i`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true
		// errors are already shown as part of the form state
		cmd.SilenceErrors = true
		return analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("cv", "", "path to the CV file (required)")
	analyzeCmd.Flags().String("jd-text", "", "job description text")
	analyzeCmd.Flags().String("jd-file", "", "path to a job description file")
	analyzeCmd.Flags().BoolP("interactive", "i", false, "ask for the form values and allow resubmitting after each result")
	analyzeCmd.Flags().StringP("output", "o", outputText, "result format: text or json")
	analyzeCmd.Flags().String("base-url", defaultBaseURL, "base URL of the analysis API")

	viper.BindPFlag("output", analyzeCmd.Flags().Lookup("output"))
	viper.BindPFlag("base-url", analyzeCmd.Flags().Lookup("base-url"))
}

// formValues are the raw values typed by the user. Paths are loaded on every submission.
type formValues struct {
	CVPath     string
	JDText     string
	JDFilePath string
}

func analyze(cmd *cobra.Command) error {
	ctx := cmd.Context()

	logger, err := logger.New(app, viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Error("getting a config", zap.Error(err))
		return err
	}

	logger.Debug("starting the jd-match", zap.String("version", version), zap.String("base_url", config.BaseURL))

	token, err := secrets.Load(secrets.Source{
		Name:     "api token",
		Value:    config.Token,
		File:     config.TokenFile,
		Optional: true,
	})
	if err != nil {
		logger.Error("loading api token", zap.Error(err),
			zap.String("hint", "set JD_MATCH_TOKEN_FILE environment variable or the 'token-file' key in the configuration file"),
		)
		return err
	}

	client := employee.New(logger, token)
	client.APIURL = config.BaseURL
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	controller := form.New(client, newStateLogger(logger), logger)

	values := formValues{
		CVPath:     flagString(cmd, "cv"),
		JDText:     flagString(cmd, "jd-text"),
		JDFilePath: flagString(cmd, "jd-file"),
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	for {
		if interactive {
			if values, err = askFormValues(values); err != nil {
				return err
			}
		}

		submitErr := submit(ctx, controller, values, config.Output, out, errOut)

		if !interactive {
			return submitErr
		}

		_, action, err := againPrompt.Run()
		if err != nil {
			return err
		}

		if action == PromptExit {
			logger.Debug("exiting", zap.String("reason", "got exit from prompt"))
			return nil
		}
	}
}

// submit runs a single submission and prints its terminal state.
func submit(ctx context.Context, controller *form.Controller, values formValues, output string, out, errOut io.Writer) error {
	inputs, err := loadInputs(values)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %s\n", err)
		return err
	}

	outcome := <-controller.Submit(ctx, inputs)

	if err := writeState(out, errOut, controller.State(), output); err != nil {
		return err
	}

	if outcome.Err != nil {
		return errSubmissionFailed
	}

	return nil
}

func loadInputs(values formValues) (form.Inputs, error) {
	inputs := form.Inputs{JDText: values.JDText}

	var err error
	if path := strings.TrimSpace(values.CVPath); path != "" {
		if inputs.CVFile, err = employee.LoadFile(path); err != nil {
			return inputs, fmt.Errorf("loading cv file: %w", err)
		}
	}

	if path := strings.TrimSpace(values.JDFilePath); path != "" {
		if inputs.JDFile, err = employee.LoadFile(path); err != nil {
			return inputs, fmt.Errorf("loading job description file: %w", err)
		}
	}

	return inputs, nil
}

func writeState(out, errOut io.Writer, state form.State, output string) error {
	if state.ErrorVisible {
		_, err := fmt.Fprintf(errOut, "Error: %s\n", state.ErrorMessage)
		return err
	}

	if !state.ResultsVisible {
		return nil
	}

	if output == outputJSON {
		return view.WriteJSON(out, state.Results)
	}

	return view.WriteText(out, state.Results)
}

func askFormValues(current formValues) (formValues, error) {
	fields := []struct {
		label  string
		target *string
	}{
		{label: "CV file", target: &current.CVPath},
		{label: "Job description text (optional)", target: &current.JDText},
		{label: "Job description file (optional)", target: &current.JDFilePath},
	}

	for _, field := range fields {
		prompt := promptui.Prompt{
			Label:     field.label,
			Default:   *field.target,
			AllowEdit: true,
		}

		value, err := prompt.Run()
		if err != nil {
			return current, err
		}
		*field.target = value
	}

	return current, nil
}

func newStateLogger(logger *zap.Logger) form.Display {
	return form.DisplayFunc(func(s form.State) {
		if s.Phase == form.PhaseSubmitting {
			logger.Info("analyzing the cv, waiting for the server")
		}

		logger.Debug("form state changed",
			zap.Stringer("phase", s.Phase),
			zap.Bool("error_visible", s.ErrorVisible),
			zap.Bool("loading_visible", s.LoadingVisible),
			zap.Bool("submit_enabled", s.SubmitEnabled),
			zap.Bool("results_visible", s.ResultsVisible),
		)
	})
}

func flagString(cmd *cobra.Command, name string) string {
	value, _ := cmd.Flags().GetString(name)
	return value
}
