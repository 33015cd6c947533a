package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/username/vacation-days/internal/vacation"
)

func holidaysCmd() *cobra.Command {
	var flags rangeFlags

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the holidays and half days in a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			includeHolHamoed, lang, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			r, err := vacation.ParseRange(flags.start, flags.end)
			if err != nil {
				return err
			}

			c, err := initializeComponents(cfg)
			if err != nil {
				return err
			}
			defer c.close()

			holidays := c.calc.Enumerate(r, includeHolHamoed)

			w := cmd.OutOrStdout()
			if flags.output != outputText {
				return writeStructured(w, flags.output, holidays)
			}

			if len(holidays) == 0 {
				fmt.Fprintf(w, "No holidays between %s and %s\n",
					r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
				return nil
			}
			writeHolidayLines(w, lang, holidays)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
