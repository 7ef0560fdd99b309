package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"text/tabwriter"
	"time"

	intconfig "quickride/internal/config"
	"quickride/internal/domain/models"
	"quickride/internal/query"
	"quickride/internal/services"
	"quickride/internal/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one filter against the listing table and print the matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		loadEnv()
		defer intconfig.CloseDB()

		f, err := query.ParseFilter(searchValues(cmd))
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		if format != "table" && format != "csv" {
			return fmt.Errorf("unknown --format %q (table or csv)", format)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		rows, err := services.BusService{RequestID: "cli"}.Search(ctx, f)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
		}
		return printRows(cmd.OutOrStdout(), rows, format)
	},
}

func init() {
	addSearchFlags(searchCmd.Flags())
	rootCmd.AddCommand(searchCmd)
}

func addSearchFlags(fl *pflag.FlagSet) {
	fl.String("state", "", "state")
	fl.StringArray("route", nil, "route name (repeatable)")
	fl.String("bus-type", string(query.BusTypeAC), "A/C, NON A/C or others")
	fl.String("price-min", "", "lowest fare")
	fl.String("price-max", "", "highest fare")
	fl.String("rating-min", "", "lowest star rating (0-5)")
	fl.String("rating-max", "", "highest star rating (0-5)")
	fl.Int("seats", 0, "minimum seats available (0-50)")
	fl.String("start-time", "", "earliest departure, HH:MM")
	fl.String("end-time", "", "latest arrival, HH:MM")
	fl.String("format", "table", "table or csv")
}

// searchValues maps flags onto the same parameters the web form sends.
func searchValues(cmd *cobra.Command) url.Values {
	fl := cmd.Flags()
	v := url.Values{}
	for flag, key := range map[string]string{
		"state":      "state",
		"bus-type":   "bus_type",
		"price-min":  "price_min",
		"price-max":  "price_max",
		"rating-min": "rating_min",
		"rating-max": "rating_max",
		"start-time": "start_time",
		"end-time":   "end_time",
	} {
		if s, _ := fl.GetString(flag); s != "" {
			v.Set(key, s)
		}
	}
	if routes, _ := fl.GetStringArray("route"); len(routes) > 0 {
		v["route"] = routes
	}
	if seats, _ := fl.GetInt("seats"); seats != 0 {
		v.Set("seats", strconv.Itoa(seats))
	}
	return v
}

func printRows(w io.Writer, rows []models.BusRoute, format string) error {
	if format == "csv" {
		data, _, err := services.ExportService{RequestID: "cli"}.CSV(rows)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No results found for the selected filters.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tBUS\tTYPE\tSTART\tEND\tPRICE\tRATING\tSEATS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			r.RouteName, r.BusName, r.BusType,
			utils.ClockHM(r.StartTime), utils.ClockHM(r.EndTime),
			utils.FormatRupees(r.Price), utils.FormatRating(r.StarRating), r.SeatsAvailable)
	}
	return tw.Flush()
}
