package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/five82/stargazer/internal/apod"
	"github.com/five82/stargazer/internal/app"
	"github.com/five82/stargazer/internal/fetch"
)

type fetchJSON struct {
	RequestID   string `json:"request_id,omitempty"`
	Date        string `json:"date"`
	Outcome     string `json:"outcome"`
	Title       string `json:"title,omitempty"`
	Credit      string `json:"credit,omitempty"`
	LongDate    string `json:"long_date,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	MediaType   string `json:"media_type,omitempty"`
	URL         string `json:"url,omitempty"`
	HDURL       string `json:"hdurl,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
	Message     string `json:"message,omitempty"`
}

func newFetchCommand(st *rootState) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "fetch [YYYY-MM-DD|today]",
		Short: "Fetch one day's picture and print it",
		Long: `Fetches the Astronomy Picture of the Day for a date (default today), caches
the image and prints its details. Exits with status 1 when the service
refuses the request, the entry is not an image, or the fetch fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			date, err := apod.ParseDate(input, st.now())
			if err != nil {
				return err
			}

			cfg, err := st.loadConfig()
			if err != nil {
				return err
			}
			svc, err := app.NewServices(cfg, st.verbose())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			outcome, err := app.FetchOnce(cmd.Context(), svc.Gateway, svc.Log, date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := printOutcomeJSON(out, outcome); err != nil {
					return err
				}
			} else {
				printOutcome(out, outcome)
			}
			if outcome.Kind != fetch.Displayable {
				return exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	return cmd
}

func printOutcome(w io.Writer, o fetch.Outcome) {
	switch o.Kind {
	case fetch.Displayable:
		p := o.Presentation
		titleColour.Fprintln(w, p.Title)
		if p.Credit != "" {
			creditColour.Fprintln(w, p.Credit)
		}
		dateColour.Fprintln(w, p.Date)
		if p.ImagePath != "" {
			labelColour.Fprint(w, "Image: ")
			pathColour.Fprintln(w, p.ImagePath)
		}
		if p.Explanation != "" {
			fmt.Fprintln(w)
			fmt.Fprintln(w, p.Explanation)
		}
	case fetch.Rejected:
		title := "Error:"
		c := errorColour
		if o.Reason == fetch.ReasonNotImage {
			title = "Sorry!"
			c = warningColour
		}
		c.Fprint(w, title+" ")
		fmt.Fprintln(w, o.Message())
	default:
		errorColour.Fprint(w, "Error: ")
		fmt.Fprintln(w, o.Message())
	}
}

func printOutcomeJSON(w io.Writer, o fetch.Outcome) error {
	payload := fetchJSON{
		RequestID: o.RequestID,
		Date:      apod.FormatDate(o.Date),
		Outcome:   o.Kind.String(),
	}
	if o.Kind == fetch.Displayable {
		payload.Title = o.Presentation.Title
		payload.Credit = o.Presentation.Credit
		payload.LongDate = o.Presentation.Date
		payload.Explanation = o.Presentation.Explanation
		payload.MediaType = o.Record.MediaType
		payload.URL = o.Record.URL
		payload.HDURL = o.Record.HDURL
		payload.ImagePath = o.Presentation.ImagePath
	} else {
		payload.Message = o.Message()
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
