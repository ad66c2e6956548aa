// file: cmd/fetch.go
// version: 1.0.0
// guid: 3c9e5a17-b2d8-4f60-91a4-e7d0c8b6f125

package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdfalk/apicache/internal/config"
	"github.com/jdfalk/apicache/internal/fetch"
)

// fetchCmd performs one cached GET and prints the decoded body
var fetchCmd = &cobra.Command{
	Use:   "fetch <path>",
	Short: "Fetch a resource through the cache and print it as JSON",
	Long: `Fetch resolves <path> against the configured base URL (absolute http(s)
URLs are used as-is), performs the request and prints the JSON body.

Examples:
  apicache fetch models --query q=llama
  apicache fetch billing/usage --header "Authorization=Bearer $TOKEN" --refresh`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("ttl", 0, "freshness window for a cached response (default cache.default_ttl)")
	fetchCmd.Flags().Bool("refresh", false, "skip the cache read and refetch")
	fetchCmd.Flags().StringArray("header", nil, "request header as name=value (repeatable)")
	fetchCmd.Flags().StringArray("query", nil, "query parameter as name=value (repeatable)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ttl, _ := cmd.Flags().GetDuration("ttl")
	refresh, _ := cmd.Flags().GetBool("refresh")
	headerPairs, _ := cmd.Flags().GetStringArray("header")
	queryPairs, _ := cmd.Flags().GetStringArray("query")

	opts, err := fetchOptions(headerPairs, queryPairs, refresh)
	if err != nil {
		return err
	}

	d := newDeps(config.AppConfig)
	v, err := d.fetcher.Get(cmd.Context(), args[0], opts, ttl)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", d.fetcher.Resolve(args[0]), err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fetchOptions(headerPairs, queryPairs []string, refresh bool) (fetch.Options, error) {
	opts := fetch.Options{ForceRefresh: refresh}

	if len(headerPairs) > 0 {
		opts.Header = http.Header{}
		for _, p := range headerPairs {
			name, value, err := splitPair(p)
			if err != nil {
				return opts, fmt.Errorf("invalid --header: %w", err)
			}
			opts.Header.Add(name, value)
		}
	}
	if len(queryPairs) > 0 {
		opts.Query = url.Values{}
		for _, p := range queryPairs {
			name, value, err := splitPair(p)
			if err != nil {
				return opts, fmt.Errorf("invalid --query: %w", err)
			}
			opts.Query.Add(name, value)
		}
	}
	return opts, nil
}

func splitPair(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("%q is not name=value", s)
	}
	return name, value, nil
}
