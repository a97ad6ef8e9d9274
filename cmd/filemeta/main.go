package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"filemeta/internal/client"
	"filemeta/internal/core"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("filemeta", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: filemeta [flags] <path>...")
		fs.PrintDefaults()
	}
	server := fs.String("server", "http://localhost:8080", "filemeta server URL")
	algoName := fs.String("algo", "md5", "checksum algorithm: md5, sha256 or blake2b")
	concurrency := fs.Int("concurrency", 4, "number of concurrent registrations")
	rps := fs.Float64("rate", 8, "maximum registrations per second, 0 for no limit")
	dryRun := fs.Bool("dry-run", false, "print the manifest as JSON instead of registering it")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *concurrency < 1 {
		fmt.Fprintln(stderr, "Error: -concurrency must be at least 1")
		return 2
	}
	if *rps < 0 {
		fmt.Fprintln(stderr, "Error: -rate must not be negative")
		return 2
	}

	algo, err := core.ParseAlgorithm(*algoName)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	parsedPaths, err := core.ParseArgs(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	filetree, err := core.BuildFiletree(parsedPaths)
	if err != nil {
		fmt.Fprintf(stderr, "Error building filetree: %v\n", err)
		return 1
	}

	entries, err := core.BuildManifest(filetree, algo)
	if err != nil {
		fmt.Fprintf(stderr, "Error building manifest: %v\n", err)
		return 1
	}

	if *dryRun {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	c, err := client.New(*server, nil)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	limit := rate.Inf
	if *rps > 0 {
		limit = rate.Limit(*rps)
	}

	ids, err := register(ctx, c, entries, *concurrency, rate.NewLimiter(limit, 1))

	// Records created before a failure stay on the server, so report them.
	registered := 0
	for i, e := range entries {
		if ids[i] == "" {
			continue
		}
		registered++
		fmt.Fprintf(stdout, "✓ %s%s %s\n", e.DirectoryPath, e.Filename, ids[i])
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error registering files (%d of %d registered): %v\n", registered, len(entries), err)
		return 1
	}
	fmt.Fprintf(stdout, "\nRegistered %d files (%d bytes)\n", len(entries), filetree.TotalSize())
	return 0
}

// register posts every entry, at most concurrency at a time and no faster
// than limiter allows. It returns the created ids in entry order; entries
// that were not registered have an empty id. The first failure cancels the rest.
func register(ctx context.Context, c *client.Client, entries []core.Entry, concurrency int, limiter *rate.Limiter) ([]string, error) {
	ids := make([]string, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, e := range entries {
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			file, err := c.CreateFile(ctx, client.CreateFileRequest{
				DirectoryPath: e.DirectoryPath,
				Filename:      e.Filename,
				FileType:      e.FileType,
				Size:          e.Size,
				Checksum:      e.Checksum,
			})
			if err != nil {
				return err
			}
			ids[i] = file.ID
			return nil
		})
	}

	err := g.Wait()
	return ids, err
}
