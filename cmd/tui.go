package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/texttube/internal/shared"
	"github.com/desertthunder/texttube/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal reader.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/texttube-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	videos, err := r.videos()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, videos, ui.GlamourRenderer(cmd.String("style")))
	return ui.Run(ctx, model)
}
