package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gemdex/pkg/errors"
	"github.com/matzehuels/gemdex/pkg/versions"
)

// syncCommand creates the sync command, which forces one refresh cycle of
// the feed mirror regardless of staleness.
func (c *CLI) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch and apply the latest feed delta",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSync(cmd)
		},
	}
}

func (c *CLI) runSync(cmd *cobra.Command) error {
	ctx := cmd.Context()

	mirror, backend, err := c.newMirror(ctx, false)
	if err != nil {
		return err
	}
	defer backend.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, "Syncing version feed")
	spin.Start()
	err = mirror.Sync(ctx)
	spin.Stop()
	if err != nil {
		if stderrors.Is(err, versions.ErrFeedUnavailable) {
			return errors.Wrap(errors.ErrCodeFeedUnavailable, err, "sync failed")
		}
		return err
	}
	prog.done(fmt.Sprintf("Synced %d gems", mirror.Tracked()))

	printSuccess("Mirror is current")
	printDetail("gems tracked: %d", mirror.Tracked())
	printDetail("feed offset: %d bytes", mirror.Offset())
	return nil
}
