package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/five82/stargazer/internal/imagecache"
	"github.com/five82/stargazer/internal/logging"
)

func newCacheCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the image cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show the cache directory, image count and size",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cache, err := st.openCache()
				if err != nil {
					return err
				}
				stats, err := cache.Status()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				labelColour.Fprint(out, "Directory: ")
				pathColour.Fprintln(out, stats.Dir)
				labelColour.Fprint(out, "Images:    ")
				fmt.Fprintln(out, stats.Files)
				labelColour.Fprint(out, "Size:      ")
				fmt.Fprintln(out, humanize.Bytes(uint64(stats.Bytes)))
				if !stats.Newest.IsZero() {
					labelColour.Fprint(out, "Newest:    ")
					fmt.Fprintln(out, humanize.Time(stats.Newest))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached image",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cache, err := st.openCache()
				if err != nil {
					return err
				}
				removed, err := cache.Clear()
				if err != nil {
					return err
				}
				successColour.Fprintf(cmd.OutOrStdout(), "Removed %d cached %s from %s\n",
					removed, plural(removed, "image", "images"), cache.Dir())
				return nil
			},
		},
	)
	return cmd
}

func (st *rootState) openCache() (*imagecache.Cache, error) {
	cfg, err := st.loadConfig()
	if err != nil {
		return nil, err
	}
	return imagecache.New(cfg.CacheDir, logging.Discard())
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
