package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"landval/internal/domain"
	"landval/internal/services/predict"
)

func predictCmd() *cobra.Command {
	var (
		city, neighborhood, propertyType string
		beds, baths, size, url, date     string
		asJSON                           bool
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Request a valuation for a listing",
		Long: "Request a valuation for a listing.\n\n" +
			"Unset fields keep their defaults: the first city, type and neighborhood\n" +
			"offered, 2 beds, 2 baths, \"1200 sqft\" and today's date.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}
			if err := requireOptions(); err != nil {
				return err
			}

			// City first: it re-derives the neighborhood.
			if city != "" {
				if err := setWithHint(domain.FieldCity, city); err != nil {
					return err
				}
			}
			if propertyType != "" {
				if err := setWithHint(domain.FieldPropertyType, propertyType); err != nil {
					return err
				}
			}
			if neighborhood != "" {
				if err := setWithHint(domain.FieldNeighborhood, neighborhood); err != nil {
					return err
				}
			}
			for _, f := range []struct {
				flag  string
				field domain.Field
				value string
			}{
				{"beds", domain.FieldBedroomCount, beds},
				{"baths", domain.FieldBathroomCount, baths},
				{"size", domain.FieldSizeSpec, size},
				{"url", domain.FieldListingURL, url},
				{"date", domain.FieldAsOfDate, date},
			} {
				if !cmd.Flags().Changed(f.flag) {
					continue
				}
				if err := appCtx.Form.SetField(f.field.String(), f.value); err != nil {
					return err
				}
			}

			result, err := appCtx.Predict.Submit(cmd.Context())
			if err != nil {
				var failure *predict.Failure
				if errors.As(err, &failure) {
					return errors.New(failure.Message)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				raw := result.Raw
				if len(raw) == 0 {
					raw, _ = json.Marshal(result)
				}
				fmt.Fprintln(out, strings.TrimSpace(string(raw)))
				return nil
			}
			sub := appCtx.Form.BuildSubmission()
			fmt.Fprintf(out, "Estimated value: %s\n", result.FormattedPrice)
			fmt.Fprintf(out, "  %s, %s · %s · %d beds / %d baths · %s · as of %s\n",
				orDash(sub.Neighborhood), sub.City, orDash(sub.Type),
				sub.Beds, sub.Baths, orDash(sub.Size), sub.Date)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&city, "city", "", "city")
	f.StringVar(&neighborhood, "neighborhood", "", "neighborhood within the city")
	f.StringVar(&propertyType, "type", "", "property type")
	f.StringVar(&beds, "beds", "", "bedroom count (empty means unset)")
	f.StringVar(&baths, "baths", "", "bathroom count (empty means unset)")
	f.StringVar(&size, "size", "", `size, e.g. "1200 sqft" or "900-1100 sqft"`)
	f.StringVar(&url, "url", "", "listing URL")
	f.StringVar(&date, "date", "", "valuation date, YYYY-MM-DD")
	f.BoolVar(&asJSON, "json", false, "print the service's raw JSON answer")
	return cmd
}

// setWithHint sets a dropdown field, rejecting values that are not offered
// and suggesting the closest one that is.
func setWithHint(field domain.Field, value string) error {
	var choices []string
	switch field {
	case domain.FieldCity:
		choices = appCtx.Form.Cities()
	case domain.FieldPropertyType:
		choices = appCtx.Form.Types()
	case domain.FieldNeighborhood:
		choices = appCtx.Form.Neighborhoods()
	}
	if len(choices) > 0 && !slices.Contains(choices, value) {
		if hint, ok := appCtx.Form.Suggest(field, value); ok {
			if strings.EqualFold(hint, value) {
				value = hint
			} else {
				return fmt.Errorf("unknown %s %q; did you mean %q?", field, value, hint)
			}
		} else {
			return fmt.Errorf("unknown %s %q; choose one of: %s", field, value, strings.Join(choices, ", "))
		}
	}
	return appCtx.Form.SetField(field.String(), value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
