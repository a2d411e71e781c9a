// cmd/intake/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"candidate-intake/internal/application/collaborators"
	formstate "candidate-intake/internal/application/form-state"
	stepvalidator "candidate-intake/internal/application/step-validator"
	"candidate-intake/internal/application/wizard"
	apperrors "candidate-intake/internal/common/errors"
)

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var code int
	switch os.Args[1] {
	case "validate":
		code = runValidate(ctx, os.Args[2:])
	case "submit":
		code = runSubmit(ctx, os.Args[2:])
	case "fill":
		code = runFill(ctx, os.Args[2:])
	case "status":
		code = runStatus(ctx, os.Args[2:])
	case "clear":
		code = runClear(ctx, os.Args[2:])
	case "help", "-h", "--help":
		help()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		help()
		code = 1
	}
	os.Exit(code)
}

func runValidate(ctx context.Context, args []string) int {
	cmd := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := cmd.String("config", "", "Path to config file")
	draftPath := cmd.String("draft", "", "Path to the draft answers (JSON)")
	cvPath := cmd.String("cv", "", "Path to the CV (PDF)")
	step := cmd.Int("step", 0, "Step to validate (1-4); 0 validates every step")
	cmd.Parse(args)

	if *draftPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -draft is required")
		cmd.Usage()
		return 1
	}

	a, err := newApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	record, err := loadDraft(*draftPath, *cvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var result stepvalidator.Result
	if *step == 0 {
		result = a.validator.ValidateAll(ctx, record)
	} else {
		result = a.validator.ValidateStep(ctx, *step, record)
	}
	printJSON(result)
	if !result.IsValid {
		return 2
	}
	return 0
}

func runSubmit(ctx context.Context, args []string) int {
	cmd := flag.NewFlagSet("submit", flag.ExitOnError)
	configPath := cmd.String("config", "", "Path to config file")
	draftPath := cmd.String("draft", "", "Path to the draft answers (JSON)")
	cvPath := cmd.String("cv", "", "Path to the CV (PDF)")
	cmd.Parse(args)

	if *draftPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -draft is required")
		cmd.Usage()
		return 1
	}

	a, err := newApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	record, err := loadDraft(*draftPath, *cvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	w := wizard.New(formstate.New(record), a.validator, a.submitter, a.drafts, newTerminalNotifier(os.Stderr), a.log)
	result, err := w.Submit(ctx)
	if err != nil {
		if apperrors.Normalize(err).Code == apperrors.ErrCodeFieldValidationFailed {
			printJSON(map[string]interface{}{"isValid": false, "errors": w.Errors()})
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	printJSON(result)
	if !result.Success {
		return 3
	}
	return 0
}

func runFill(ctx context.Context, args []string) int {
	cmd := flag.NewFlagSet("fill", flag.ExitOnError)
	configPath := cmd.String("config", "", "Path to config file")
	fresh := cmd.Bool("fresh", false, "Discard any saved draft before starting")
	phoneCountry := cmd.String("phone-country", "+55", "Country calling code for numbers typed without one")
	cmd.Parse(args)

	a, err := newApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	if *fresh {
		if err := a.drafts.Clear(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	state := formstate.New(nil)
	saved, err := a.drafts.Restore(ctx, state)
	if err != nil {
		a.log.Warn("failed to restore draft", map[string]interface{}{"error": err})
	}
	a.drafts.Attach(state)

	notifier := newTerminalNotifier(os.Stdout)
	f := &filler{
		in:        newPrompter(os.Stdin, os.Stdout),
		state:     state,
		wizard:    wizard.New(state, a.validator, a.submitter, a.drafts, notifier, a.log),
		locations: collaborators.DefaultDirectory(),
		phones:    collaborators.NewE164Formatter(*phoneCountry),
		saved:     saved,
	}

	err = f.run(ctx)
	if flushErr := a.drafts.Flush(ctx); flushErr != nil {
		a.log.Warn("failed to save draft", map[string]interface{}{"error": flushErr})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		return 1
	}
	return 0
}

func runStatus(ctx context.Context, args []string) int {
	cmd := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := cmd.String("config", "", "Path to config file")
	cmd.Parse(args)

	a, err := newApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	state := formstate.New(nil)
	meta, err := a.drafts.Restore(ctx, state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	snapshot := state.Snapshot()
	if len(snapshot) == 0 && meta == nil {
		fmt.Printf("No saved draft (%s backend)\n", a.store.Backend())
		return 0
	}

	result := a.validator.ValidateAll(ctx, snapshot)
	printJSON(map[string]interface{}{
		"backend":    a.store.Backend(),
		"answers":    len(snapshot),
		"cvMetadata": meta,
		"validation": result,
	})
	return 0
}

func runClear(ctx context.Context, args []string) int {
	cmd := flag.NewFlagSet("clear", flag.ExitOnError)
	configPath := cmd.String("config", "", "Path to config file")
	cmd.Parse(args)

	a, err := newApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	if err := a.drafts.Clear(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println("✓ Saved draft cleared")
	return 0
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func help() {
	fmt.Println(`Candidate Intake

Usage:
  intake <command> [options]

Commands:
  fill       Fill in the application step by step (answers are saved as you go)
  validate   Validate a draft file and print the field errors
  submit     Validate a draft file and deliver it to the webhook
  status     Show the saved draft and what is still missing
  clear      Discard the saved draft
  help       Show this help message

Examples:
  intake fill
  intake validate -draft answers.json -cv cv.pdf -step 2
  intake submit -draft answers.json -cv cv.pdf
  intake clear -config configs/config.yaml`)
}
