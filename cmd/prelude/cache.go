package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"MacroPrelude/internal/httpcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or purge the HTTP response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and age",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired entries, or all entries with --all",
	Args:  cobra.NoArgs,
	RunE:  runCachePurge,
}

var purgeAll bool

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	cachePurgeCmd.Flags().BoolVar(&purgeAll, "all", false, "delete every entry")
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	st, err := a.store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatStats(a.cfg.Cache.Backend, a.cfg.Cache.ExpireAfter, st))
	return nil
}

func formatStats(backend string, expiry time.Duration, st httpcache.Stats) string {
	s := fmt.Sprintf("backend: %s\nexpiry:  %s\nentries: %d\nsize:    %s\n",
		backend, expiry, st.Entries, humanize.Bytes(uint64(st.Bytes)))
	if st.Entries > 0 {
		s += fmt.Sprintf("oldest:  %s\nnewest:  %s\n", humanize.Time(st.Oldest), humanize.Time(st.Newest))
	}
	return s
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var n int64
	if purgeAll {
		n, err = a.store.Purge(cmd.Context(), time.Now().Add(time.Second))
	} else {
		n, err = a.transport.PurgeExpired(cmd.Context())
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
	return nil
}
