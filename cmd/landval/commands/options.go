package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"landval/internal/domain"
)

func optionsCmd() *cobra.Command {
	var city string
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List cities, property types and neighborhoods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOptions(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if city != "" {
				if err := setWithHint(domain.FieldCity, city); err != nil {
					return err
				}
				printList(cmd, "neighborhoods of "+appCtx.Form.Draft().City, appCtx.Form.Neighborhoods())
				return nil
			}

			opts, _ := appCtx.Options.Options()
			printList(cmd, "cities", opts.Cities)
			printList(cmd, "types", opts.Types)
			fmt.Fprintln(out, "neighborhoods:")
			for _, c := range opts.Cities {
				list := opts.NeighborhoodsFor(c)
				if len(list) == 0 {
					continue
				}
				fmt.Fprintf(out, "  %s: %s\n", c, strings.Join(list, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "only list the neighborhoods of this city")
	return cmd
}

func printList(cmd *cobra.Command, title string, items []string) {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintf(out, "%s: (none)\n", title)
		return
	}
	fmt.Fprintf(out, "%s: %s\n", title, strings.Join(items, ", "))
}
