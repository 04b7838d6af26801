package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/tg-channel-parser/internal/usecase"
)

type searchOptions struct {
	channels []string
	keywords []string
	limit    int
	refresh  bool
	page     int
	perPage  int
	table    bool
}

func newSearchCmd(a *app) *cobra.Command {
	opts := searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search channels for keywords and print the results",
		Example: `  parserbot search --channel @durov --keyword telegram --keyword update
  parserbot search -c @a,@b -k "цена, скидка" --limit 20 --table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			channels, keywords, err := opts.validate()
			if err != nil {
				return err
			}

			search, _, err := a.searchUseCase(cmd.Context())
			if err != nil {
				return err
			}
			results, err := search.Search(cmd.Context(), channels, keywords, opts.limit, opts.refresh)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			f := usecase.ResultFormatter{}
			fmt.Fprintln(cmd.OutOrStdout(), f.Format(results, opts.page, opts.perPage, opts.table))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&opts.channels, "channel", "c", nil, "channel to search (@name or t.me link), repeatable")
	cmd.Flags().StringSliceVarP(&opts.keywords, "keyword", "k", nil, "keyword to look for, repeatable")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "maximum number of results")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "skip the cache and search live")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page to print")
	cmd.Flags().IntVar(&opts.perPage, "per-page", usecase.DefaultPerPage, "results per page")
	cmd.Flags().BoolVar(&opts.table, "table", false, "print a table instead of entries")
	return cmd
}

func (o searchOptions) validate() (channels, keywords []string, err error) {
	channels = usecase.ValidateChannels(o.channels)
	keywords = usecase.ValidateKeywords(o.keywords)
	if len(channels) == 0 {
		return nil, nil, errors.New("at least one --channel is required")
	}
	if len(keywords) == 0 {
		return nil, nil, errors.New("at least one --keyword of two or more characters is required")
	}
	if o.limit < 1 {
		return nil, nil, fmt.Errorf("--limit must be positive, got %d", o.limit)
	}
	return channels, keywords, nil
}
