package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ccong2/austin-open-data/pkg/catalog"
	"github.com/ccong2/austin-open-data/pkg/httputil"
)

// defaultDomain is the portal analyzed when --domain is not given.
const defaultDomain = "data.austintexas.gov"

// sourceOpts holds the flags shared by every command that needs a record
// table: either a saved records file or a live catalog fetch.
type sourceOpts struct {
	domain  string // portal domain to fetch
	limit   int    // maximum catalog entries to fetch
	input   string // read records from this JSON file instead of fetching
	refresh bool   // bypass the response cache
	noCache bool   // disable the response cache entirely
}

// addSourceFlags registers the shared record-source flags on cmd.
func addSourceFlags(cmd *cobra.Command, opts *sourceOpts) {
	cmd.Flags().StringVarP(&opts.domain, "domain", "d", defaultDomain, "portal domain to analyze")
	cmd.Flags().IntVar(&opts.limit, "limit", catalog.DefaultLimit, "maximum catalog entries to fetch")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "read records from a JSON file instead of fetching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable response caching")
}

// loadRecords produces the record table for a command, either from a saved
// records file or by fetching the live catalog.
func loadRecords(ctx context.Context, opts sourceOpts) ([]catalog.Record, error) {
	logger := loggerFromContext(ctx)

	if opts.input != "" {
		records, err := catalog.ReadRecords(opts.input)
		if err != nil {
			return nil, err
		}
		logger.Debugf("Read %d records from %s", len(records), opts.input)
		return records, nil
	}

	client := catalog.NewClient(newCache(opts.noCache))
	logger.Infof("Fetching catalog for %s", opts.domain)

	prog := newProgress(logger)
	doc, err := client.FetchCatalog(ctx, opts.domain, opts.limit, opts.refresh)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Fetched %d catalog entries", doc.EntryCount()))

	if doc.ResultSetSize() > doc.EntryCount() {
		logger.Warnf("Portal reports %d assets, fetched %d (raise --limit for full coverage)",
			doc.ResultSetSize(), doc.EntryCount())
	}

	return catalog.Flatten(doc), nil
}

// newCache builds the shared response cache. A nil cache disables caching,
// which is also the fallback when the cache directory cannot be created.
func newCache(noCache bool) *httputil.Cache {
	if noCache {
		return nil
	}
	c, err := httputil.NewCache("", catalog.DefaultCacheTTL)
	if err != nil {
		return nil
	}
	return c
}

// nopCloser wraps an io.Writer with a no-op Close method so os.Stdout can
// be used where an io.WriteCloser is expected.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path, or stdout when the
// path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// withSpinner runs fn behind a terminal spinner. Verbose runs skip the
// spinner so it does not fight the debug log lines.
func withSpinner(ctx context.Context, message string, fn func() error) error {
	if loggerFromContext(ctx).GetLevel() == charmlog.DebugLevel {
		return fn()
	}
	sp := newSpinner(ctx, message)
	sp.Start()
	err := fn()
	sp.Stop()
	return err
}
