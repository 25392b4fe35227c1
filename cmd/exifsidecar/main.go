package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"exifsidecar/internal/app"
	"exifsidecar/internal/config"
	"exifsidecar/internal/domain"
	appErrors "exifsidecar/internal/errors"
	"exifsidecar/internal/infra/exif"
	"exifsidecar/internal/infra/fs"
	"exifsidecar/internal/infra/sidecar"
	"exifsidecar/internal/logging"
	"exifsidecar/internal/presentation"
	"exifsidecar/internal/tui"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type cli struct {
	stdout     io.Writer
	stderr     io.Writer
	filesystem afero.Fs
	configFile string
	envFile    string
	code       int
}

func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr, filesystem: afero.NewOsFs()}
	cmd := c.command()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		presentation.Printer{Writer: stderr}.PrintFatal(err)
		return exitFailure
	}
	return c.code
}

func (c *cli) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "exifsidecar [flags] <image>...",
		Short:         "Write a JSON metadata sidecar next to each image",
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          c.execute,
	}

	flags := cmd.Flags()
	flags.StringVar(&c.configFile, "config", "", "config file (default $HOME/.exifsidecar.yaml or ./.exifsidecar.yaml)")
	flags.StringVar(&c.envFile, "env-file", "", "env file to load before reading EXIFSIDECAR_* variables (default ./.env)")
	flags.StringSlice("formats", nil, "supported extensions, e.g. .jpg,.jpeg")
	flags.BoolP("verbose", "v", false, "log each processed image")
	flags.Bool("tui", false, "show an interactive progress view")
	flags.String("log-file", "", "also write JSON log records to this file")
	return cmd
}

func (c *cli) execute(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.Options{
		ConfigFile: c.configFile,
		EnvFile:    c.envFile,
		Flags:      cmd.Flags(),
		FS:         c.filesystem,
	})
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "config", c.configFile, err)
	}

	logger, closeLog, err := c.newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	logger = logger.WithFields(log.Fields{"run_id": uuid.NewString()})
	if cfg.ConfigFileUsed != "" {
		logger.Verbosef("Using config file %s", cfg.ConfigFileUsed)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := presentation.Printer{Writer: c.stdout, Verbose: cfg.Verbose}

	paths, skipped := app.FilterInputs(c.filesystem, args)
	printer.PrintSkipped(skipped)

	processor := &app.Processor{
		Validator: app.Validator{FS: c.filesystem, Formats: cfg.SupportedFormats},
		Stat:      fs.NewStatReader(c.filesystem),
		Exif:      exif.NewReader(c.filesystem, logger),
		Logger:    logger,
	}
	executor := &app.Executor{
		Writer: sidecar.Writer{FS: c.filesystem},
		Logger: logger,
	}

	var result domain.BatchResult
	if cfg.TUI {
		result, err = c.runInteractive(ctx, processor, executor, paths, cfg.Verbose)
	} else {
		result, err = pipeline(ctx, processor, executor, paths)
	}

	switch {
	case errors.Is(err, context.Canceled):
		printer.PrintCancelled()
		c.code = exitInterrupted
		return nil
	case err != nil:
		return err
	}

	printer.PrintSummary(result)
	logger.Infof("Finished: %d successful, %d failed", result.SuccessCount, result.FailedCount)
	if !result.AllSucceeded() {
		c.code = exitFailure
	}
	return nil
}

func pipeline(ctx context.Context, processor *app.Processor, executor *app.Executor, paths []string) (domain.BatchResult, error) {
	result, err := processor.Process(ctx, paths)
	if err != nil {
		return result, err
	}
	return executor.Execute(ctx, result)
}

// runInteractive drives the pipeline on a goroutine and feeds progress to the TUI.
func (c *cli) runInteractive(ctx context.Context, processor *app.Processor, executor *app.Executor, paths []string, verbose bool) (domain.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		tui.NewModel(tui.Config{Inputs: len(paths), Verbose: verbose, Cancel: cancel}),
		tea.WithContext(ctx),
		tea.WithOutput(c.stdout),
	)

	processor.OnProgress = func(current, total int, path string) {
		program.Send(tui.ProgressMsg{Phase: tui.PhaseExtracting, Current: current, Total: total, Path: path})
	}
	executor.OnProgress = func(current, total int, path string) {
		program.Send(tui.ProgressMsg{Phase: tui.PhaseWriting, Current: current, Total: total, Path: path})
	}

	type outcome struct {
		result domain.BatchResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := pipeline(ctx, processor, executor, paths)
		done <- outcome{result, err}
		if err != nil {
			program.Send(tui.ErrorMsg{Err: err})
			return
		}
		program.Send(tui.DoneMsg{Result: result})
	}()

	final, err := program.Run()
	if err != nil {
		cancel()
		out := <-done
		if errors.Is(err, tea.ErrInterrupted) || errors.Is(err, tea.ErrProgramKilled) {
			return out.result, context.Canceled
		}
		return out.result, appErrors.Wrap(appErrors.Internal, "tui", "", err)
	}

	out := <-done
	if m, ok := final.(tui.Model); ok && m.Quitting {
		return out.result, context.Canceled
	}
	return out.result, out.err
}

func (c *cli) newLogger(cfg config.Config) (logging.Logger, func() error, error) {
	console := c.stderr
	if cfg.TUI {
		console = io.Discard
	}
	if cfg.LogFile == "" {
		return logging.New(console, cfg.Verbose), func() error { return nil }, nil
	}

	file, err := c.filesystem.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return logging.Logger{}, nil, appErrors.Wrap(appErrors.IOFailure, "open log", cfg.LogFile, err)
	}
	return logging.NewWithFile(console, file, cfg.Verbose), file.Close, nil
}
