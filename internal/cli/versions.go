package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gemdex/pkg/errors"
	"github.com/matzehuels/gemdex/pkg/integrations"
	"github.com/matzehuels/gemdex/pkg/versions"
)

// versionsOpts holds the command-line flags for the versions command.
type versionsOpts struct {
	registry string // registry base URL (canonical if empty)
	asJSON   bool   // emit machine-readable JSON
	noCache  bool   // bypass the response cache for fallback lookups
}

// versionsCommand creates the versions lookup command.
//
// Lookups against the canonical registry are answered from the local mirror,
// refreshing it first if it is stale. Other registries are queried directly.
func (c *CLI) versionsCommand() *cobra.Command {
	var opts versionsOpts

	cmd := &cobra.Command{
		Use:   "versions <gem>",
		Short: "List the published versions of a gem",
		Long: `List the published versions of a gem.

Canonical lookups are served from the local feed mirror. Pass --registry to
query a different gem server through its per-gem API instead.

Examples:
  gemdex versions rails
  gemdex versions nokogiri --json
  gemdex versions mygem --registry https://gems.internal.example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVersions(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.registry, "registry", "r", "", "registry base URL (default rubygems.org)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "output JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

func (c *CLI) runVersions(cmd *cobra.Command, gem string, opts versionsOpts) error {
	ctx := cmd.Context()

	mirror, backend, err := c.newMirror(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer backend.Close()

	spin := newSpinner(ctx, fmt.Sprintf("Looking up %s", gem))
	spin.Start()

	result, err := mirror.Lookup(ctx, gem, opts.registry)
	spin.Stop()
	if err != nil {
		return lookupError(gem, err)
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printSuccess("%s has %d versions", StyleValue.Render(gem), len(result.Releases))
	for _, rel := range result.Releases {
		line := rel.Version
		if rel.Platform != "" && rel.Platform != "ruby" {
			line += " " + StyleDim.Render("("+rel.Platform+")")
		}
		printDetail("%s", line)
	}
	return nil
}

// lookupError translates lookup failures into coded, user-facing errors.
func lookupError(gem string, err error) error {
	switch {
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.New(errors.ErrCodeGemNotFound, "gem %q not found", gem)
	case stderrors.Is(err, versions.ErrFeedUnavailable):
		return errors.Wrap(errors.ErrCodeFeedUnavailable, err, "version feed unavailable")
	case stderrors.Is(err, integrations.ErrNetwork), stderrors.Is(err, integrations.ErrBadStatus):
		return errors.Wrap(errors.ErrCodeNetwork, err, "lookup failed")
	default:
		return err
	}
}
