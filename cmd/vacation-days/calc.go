package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/username/vacation-days/internal/format"
	"github.com/username/vacation-days/internal/vacation"
	"github.com/username/vacation-days/pkg/dateutil"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// rangeFlags are the flags shared by calc and holidays
type rangeFlags struct {
	start     string
	end       string
	holHamoed bool
	lang      string
	output    string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "First day of the vacation: YYYY-MM-DD, DD.MM.YYYY or DD/MM/YYYY (slash dates are day first; default today)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last day of the vacation, inclusive, in the same formats as --start")
	cmd.Flags().BoolVar(&f.holHamoed, "hol-hamoed", false, "Count chol hamoed days as holidays (default from policy.include_hol_hamoed)")
	cmd.Flags().StringVar(&f.lang, "lang", "", "Display language: en or he (default from display.language)")
	cmd.Flags().StringVarP(&f.output, "output", "o", outputText, "Output format: text, json or yaml")
	_ = cmd.MarkFlagRequired("end")
}

// resolve applies config defaults to flags the user did not set
func (f *rangeFlags) resolve(cmd *cobra.Command) (includeHolHamoed bool, lang format.Lang, err error) {
	if f.start == "" {
		f.start = dateutil.FormatDate(dateutil.Today())
	}

	includeHolHamoed = cfg.Policy.IncludeHolHamoed
	if cmd.Flags().Changed("hol-hamoed") {
		includeHolHamoed = f.holHamoed
	}

	lang = format.ParseLang(cfg.Display.Language)
	if f.lang != "" {
		lang = format.ParseLang(f.lang)
	}

	switch f.output {
	case outputText, outputJSON, outputYAML:
	default:
		return false, "", fmt.Errorf("unknown output format %q", f.output)
	}
	return includeHolHamoed, lang, nil
}

func calcCmd() *cobra.Command {
	var flags rangeFlags
	var breakdown bool

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Count the vacation days needed for a date range",
		Example: `  vacation-days calc --start 2024-10-13 --end 2024-10-26
  vacation-days calc --start 13.10.2024 --end 26.10.2024 --hol-hamoed --lang he
  vacation-days calc --start 2024-04-21 --end 2024-04-30 -o json --breakdown`,
		RunE: func(cmd *cobra.Command, args []string) error {
			includeHolHamoed, lang, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			c, err := initializeComponents(cfg)
			if err != nil {
				return err
			}
			defer c.close()

			result, err := c.calc.Calculate(flags.start, flags.end, includeHolHamoed)
			if err != nil {
				return err
			}

			logger.Info("Vacation calculated",
				zap.String("range", result.Range.String()),
				zap.Bool("include_hol_hamoed", includeHolHamoed),
				zap.Float64("vacation_days_needed", result.VacationDaysNeeded))

			if !breakdown {
				result.Days = nil
			}
			return writeCalculation(cmd.OutOrStdout(), flags.output, lang, includeHolHamoed, result)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "Show the classification of every day")

	return cmd
}

// calcOutput is the structured form of a calculation
type calcOutput struct {
	vacation.Calculation `yaml:",inline"`
	IncludeHolHamoed     bool   `json:"include_hol_hamoed" yaml:"include_hol_hamoed"`
	Formatted            string `json:"formatted" yaml:"formatted"`
}

func writeCalculation(w io.Writer, output string, lang format.Lang, includeHolHamoed bool, result *vacation.Calculation) error {
	switch output {
	case outputJSON, outputYAML:
		return writeStructured(w, output, calcOutput{
			Calculation:      *result,
			IncludeHolHamoed: includeHolHamoed,
			Formatted:        format.Days(lang, result.VacationDaysNeeded),
		})
	}

	mode := "chol hamoed counted as workdays"
	if includeHolHamoed {
		mode = "chol hamoed counted as holidays"
	}

	fmt.Fprintf(w, "📅 %s .. %s (%s)\n",
		result.Range.Start.Format("2006-01-02"),
		result.Range.End.Format("2006-01-02"),
		mode)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %-14s %d\n", "Total days:", result.TotalDays)
	fmt.Fprintf(w, "  %-14s %d\n", labelFor(lang, vacation.CategoryWorkday)+":", result.WorkDays)
	fmt.Fprintf(w, "  %-14s %d\n", labelFor(lang, vacation.CategoryWeekend)+":", result.WeekendDays)
	fmt.Fprintf(w, "  %-14s %d\n", labelFor(lang, vacation.CategoryHoliday)+":", result.HolidayDays)
	fmt.Fprintf(w, "  %-14s %d\n", labelFor(lang, vacation.CategoryHalfDay)+":", result.HalfDays)
	fmt.Fprintf(w, "\n✅ %s\n", format.Summary(lang, result.VacationDaysNeeded))

	if len(result.Holidays) > 0 {
		fmt.Fprintln(w, "\n🕎 Holidays:")
		writeHolidayLines(w, lang, result.Holidays)
	}

	if len(result.Days) > 0 {
		fmt.Fprintln(w, "\n📋 Per-day breakdown:")
		fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
		fmt.Fprintln(w, "  Date       | Day | Category     | Value | Events")
		fmt.Fprintln(w, "-------------+-----+--------------+-------+----------------")
		for _, day := range result.Days {
			fmt.Fprintf(w, "  %s | %s | %-12s | %5.1f | %s\n",
				day.Date.Format("2006-01-02"),
				day.Date.Format("Mon"),
				labelFor(lang, day.Category),
				day.WorkValue,
				strings.Join(day.Events, ", "))
		}
	}

	return nil
}

func writeHolidayLines(w io.Writer, lang format.Lang, holidays []vacation.HolidayEvent) {
	for _, h := range holidays {
		var marks []string
		if h.IsHalfDay {
			marks = append(marks, labelFor(lang, vacation.CategoryHalfDay))
		}
		if h.IsHolHamoed {
			marks = append(marks, "chol hamoed")
		}

		line := fmt.Sprintf("  %s  %s", h.Date.Format("2006-01-02"), format.HolidayName(lang, h.Name, h.HebrewName))
		if len(marks) > 0 {
			line += " (" + strings.Join(marks, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func labelFor(lang format.Lang, category vacation.Category) string {
	return format.CategoryLabel(lang, string(category))
}

func writeStructured(w io.Writer, output string, v interface{}) error {
	if output == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
