package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"trendtags/config"
	"trendtags/export"
	"trendtags/models"
	"trendtags/services"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Acquire trends once and print hashtags",
	Long: `Acquire the trends table once and print the synthesized hashtags.

Options that the HTTP API takes as query parameters are flags here and
default to the same environment values.

Examples:
  trendtags fetch --english-only
  trendtags fetch --report --top 15
  trendtags fetch --csv trends.csv`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().Bool("report", false, "print a snapshot report instead of hashtags")
	fetchCmd.Flags().Int("top", 10, "number of trends in the report")
	fetchCmd.Flags().String("csv", "", "also write the raw records to this CSV file")
	fetchCmd.Flags().Bool("english-only", false, "keep only English topics")
	fetchCmd.Flags().Bool("hashtag-only", false, "flag mode: keep only topics that already were hashtags")
	fetchCmd.Flags().Int("max-chars", 0, "budget mode: character budget")
}

// fetchOptions maps changed flags onto the query parameters the API accepts,
// so both surfaces share one parser.
func fetchOptions(cmd *cobra.Command) (config.RequestOptions, error) {
	q := url.Values{}
	if cmd.Flags().Changed("english-only") {
		v, _ := cmd.Flags().GetBool("english-only")
		q.Set(config.ParamEnglishOnly, fmt.Sprint(v))
	}
	if cmd.Flags().Changed("hashtag-only") {
		v, _ := cmd.Flags().GetBool("hashtag-only")
		q.Set(config.ParamHashtagOnly, fmt.Sprint(v))
	}
	if cmd.Flags().Changed("max-chars") {
		v, _ := cmd.Flags().GetInt("max-chars")
		q.Set(config.ParamTweetMaxChars, fmt.Sprint(v))
	}
	return config.FromQuery(cfg.Defaults, q)
}

func runFetch(cmd *cobra.Command, args []string) error {
	report, _ := cmd.Flags().GetBool("report")
	top, _ := cmd.Flags().GetInt("top")
	csvPath, _ := cmd.Flags().GetString("csv")

	opts, err := fetchOptions(cmd)
	if err != nil {
		return err
	}

	acquirer, err := newAcquirer()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, err := acquirer.Acquire(ctx, opts)
	if err != nil {
		return err
	}

	if csvPath != "" {
		if err := writeCSV(csvPath, records); err != nil {
			return err
		}
		logger.Info("[fetch] Raw records saved to %s", csvPath)
	}

	out := cmd.OutOrStdout()
	if report {
		services.Summarize(records, opts.Policy(), top).Render(out)
		return nil
	}

	hashtags := services.Synthesize(records, opts.Policy())
	if hashtags.Mode == services.PackBudget {
		fmt.Fprintln(out, hashtags.String())
		return nil
	}
	for _, tag := range hashtags.Tags {
		fmt.Fprintln(out, tag)
	}
	return nil
}

func writeCSV(path string, records []models.TrendRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create %s: %w", path, err)
	}
	defer f.Close()

	var w export.RecordWriter = export.NewCSVWriter(f)
	if err := w.WriteRecords(records); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
