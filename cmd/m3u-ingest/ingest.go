package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alorle/m3u-ingest/ingest"
	"github.com/alorle/m3u-ingest/transport"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <url>",
	Short: "Fetch a playlist and classify its entries",
	Args:  cobra.ExactArgs(1),
	RunE:  ingestRun,
}

var probeCmd = &cobra.Command{
	Use:   "probe <url>",
	Short: "Check whether a playlist source is reachable",
	Args:  cobra.ExactArgs(1),
	RunE:  probeRun,
}

func ingestRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	t, logger, err := newTransport(args[0])
	if err != nil {
		return err
	}

	var onProgress transport.ProgressFunc
	if flagProgress {
		onProgress = func(fraction float64) {
			fmt.Fprintf(os.Stderr, "\rdownloading: %3.0f%%", fraction*100)
			if fraction >= 1 {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	ingestor := ingest.New(t, logger)
	data, err := ingestor.Ingest(ctx, ingest.StaticURL(args[0]), onProgress)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if data.FromCache {
		slog.Warn("upstream fetch failed, served cached playlist")
	}

	// Parse problems are logged, never fatal: the valid subset is still
	// presented
	for _, e := range data.Errors {
		slog.Warn("playlist problem", "detail", e)
	}

	if flagJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}

	fmt.Printf("channels: %d\n", len(data.Channels))
	for _, ch := range data.Channels {
		if ch.Ordinal != nil {
			fmt.Printf("  %4d  %s\n", *ch.Ordinal, ch.Name)
		} else {
			fmt.Printf("        %s\n", ch.Name)
		}
	}

	fmt.Printf("movies: %d\n", len(data.Movies))
	for _, m := range data.Movies {
		fmt.Printf("        %s\n", m.Title)
	}

	fmt.Printf("total: %d items, %d problem line(s)\n", data.TotalItems, len(data.Errors))
	return nil
}

func probeRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	t, _, err := newTransport(args[0])
	if err != nil {
		return err
	}

	ok, err := t.TestConnection(ctx, args[0])
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	if !ok {
		fmt.Println("source responded with a non-success status")
		os.Exit(1)
	}

	fmt.Println("source reachable")
	return nil
}
