package server

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/username/vacation-days/internal/format"
	"github.com/username/vacation-days/internal/vacation"
	"go.uber.org/zap"
)

// maxRangeDays bounds a single request to roughly ten years
const maxRangeDays = 3700

type holidayResponse struct {
	Date        string `json:"date"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	IsHalfDay   bool   `json:"is_half_day"`
	IsHolHamoed bool   `json:"is_hol_hamoed"`
}

type vacationResponse struct {
	Start              string            `json:"start"`
	End                string            `json:"end"`
	IncludeHolHamoed   bool              `json:"include_hol_hamoed"`
	TotalDays          int               `json:"total_days"`
	WorkDays           int               `json:"work_days"`
	WeekendDays        int               `json:"weekend_days"`
	HolidayDays        int               `json:"holiday_days"`
	HalfDays           int               `json:"half_days"`
	VacationDaysNeeded float64           `json:"vacation_days_needed"`
	Formatted          string            `json:"formatted"`
	Summary            string            `json:"summary"`
	Holidays           []holidayResponse `json:"holidays"`
}

func (s *Server) health(c *gin.Context) {
	Success(c, gin.H{"status": "ok"})
}

// getVacation handles GET /api/vacation?start=&end=&holHamoed=&lang=
func (s *Server) getVacation(c *gin.Context) {
	r, incl, lang, ok := s.parseQuery(c)
	if !ok {
		return
	}

	calc := s.calc.Aggregate(r, incl)

	Success(c, vacationResponse{
		Start:              r.Start.Format("2006-01-02"),
		End:                r.End.Format("2006-01-02"),
		IncludeHolHamoed:   incl,
		TotalDays:          calc.TotalDays,
		WorkDays:           calc.WorkDays,
		WeekendDays:        calc.WeekendDays,
		HolidayDays:        calc.HolidayDays,
		HalfDays:           calc.HalfDays,
		VacationDaysNeeded: calc.VacationDaysNeeded,
		Formatted:          format.Days(lang, calc.VacationDaysNeeded),
		Summary:            format.Summary(lang, calc.VacationDaysNeeded),
		Holidays:           toHolidayResponses(calc.Holidays, lang),
	})
}

// getHolidays handles GET /api/holidays?start=&end=&holHamoed=&lang=
func (s *Server) getHolidays(c *gin.Context) {
	r, incl, lang, ok := s.parseQuery(c)
	if !ok {
		return
	}

	Success(c, toHolidayResponses(s.calc.Enumerate(r, incl), lang))
}

// parseQuery reads the range, hol hamoed toggle and language.
// On failure it writes a 400 response and returns false.
func (s *Server) parseQuery(c *gin.Context) (vacation.DateRange, bool, format.Lang, bool) {
	r, err := vacation.ParseRange(c.Query("start"), c.Query("end"))
	if err != nil {
		_ = c.Error(err)
		BadRequest(c, err.Error())
		return vacation.DateRange{}, false, "", false
	}
	if r.TotalDays() > maxRangeDays {
		err := fmt.Errorf("%w: range exceeds %d days", vacation.ErrInvalidRange, maxRangeDays)
		_ = c.Error(err)
		BadRequest(c, err.Error())
		return vacation.DateRange{}, false, "", false
	}

	incl := s.opts.IncludeHolHamoed
	if v := c.Query("holHamoed"); v != "" {
		incl, err = strconv.ParseBool(v)
		if err != nil {
			_ = c.Error(err)
			BadRequest(c, fmt.Sprintf("invalid holHamoed value %q", v))
			return vacation.DateRange{}, false, "", false
		}
	}

	lang := s.opts.Language
	if v := c.Query("lang"); v != "" {
		lang = format.ParseLang(v)
	} else if v := c.GetHeader("Accept-Language"); v != "" {
		lang = format.ParseLang(v)
	}

	s.logger.Debug("Vacation query",
		zap.String("range", r.String()),
		zap.Bool("include_hol_hamoed", incl),
		zap.String("lang", string(lang)))

	return r, incl, lang, true
}

func toHolidayResponses(holidays []vacation.HolidayEvent, lang format.Lang) []holidayResponse {
	out := make([]holidayResponse, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, holidayResponse{
			Date:        h.Date.Format("2006-01-02"),
			Name:        h.Name,
			DisplayName: format.HolidayName(lang, h.Name, h.HebrewName),
			IsHalfDay:   h.IsHalfDay,
			IsHolHamoed: h.IsHolHamoed,
		})
	}
	return out
}
