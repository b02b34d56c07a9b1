package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gemdex/pkg/errors"
	"github.com/matzehuels/gemdex/pkg/integrations"
	"github.com/matzehuels/gemdex/pkg/integrations/rubygems"
)

// infoCommand creates the gem metadata lookup command.
// Metadata always comes from the per-gem API; the feed mirror carries
// version strings only.
func (c *CLI) infoCommand() *cobra.Command {
	var registry string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "info <gem>",
		Short: "Show metadata for a gem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(cmd, args[0], registry, noCache)
		},
	}

	cmd.Flags().StringVarP(&registry, "registry", "r", "", "registry base URL (default rubygems.org)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

func (c *CLI) runInfo(cmd *cobra.Command, gem, registry string, noCache bool) error {
	ctx := cmd.Context()

	backend, err := c.newCacheBackend(ctx, noCache)
	if err != nil {
		return err
	}
	defer backend.Close()

	client := rubygems.NewClient(backend, c.config.Cache.TTL())

	spin := newSpinner(ctx, fmt.Sprintf("Fetching %s", gem))
	spin.Start()
	info, err := client.FetchGem(ctx, registry, gem, noCache)
	spin.Stop()
	if err != nil {
		if stderrors.Is(err, integrations.ErrNotFound) {
			return errors.New(errors.ErrCodeGemNotFound, "gem %q not found", gem)
		}
		return lookupError(gem, err)
	}

	fmt.Println(StyleTitle.Render(info.Name) + " " + StyleNumber.Render(info.Version))
	if info.Description != "" {
		printDetail("%s", info.Description)
	}
	if info.License != "" {
		printKeyValue("license", info.License)
	}
	if info.HomepageURI != "" {
		printKeyValue("homepage", StyleLink.Render(info.HomepageURI))
	}
	if info.SourceCodeURI != "" {
		printKeyValue("source", StyleLink.Render(info.SourceCodeURI))
	}
	if info.ChangelogURI != "" {
		printKeyValue("changelog", StyleLink.Render(info.ChangelogURI))
	}
	return nil
}
