package service

import (
	"context"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/model"
	"pet-cafe/backend/internal/store"
)

// ── 班次日历导出 ──────────────────────────────────────────────
//
// 每个团队班次生成一个按周重复的 VEVENT：
//   - DTSTART/DTEND 为 from 当天起第一个适用日的浮动本地时间（不带时区）
//   - RRULE:FREQ=WEEKLY;BYDAY=<适用日>
//   - 停用或适用日为空的班次不输出
// ─────────────────────────────────────────────────────────────

const icsLocalLayout = "20060102T150405"

var icsDayCodes = map[model.Weekday]string{
	model.Sunday:    "SU",
	model.Monday:    "MO",
	model.Tuesday:   "TU",
	model.Wednesday: "WE",
	model.Thursday:  "TH",
	model.Friday:    "FR",
	model.Saturday:  "SA",
}

// CalendarService 团队班次日历接口
type CalendarService interface {
	TeamShiftsICS(ctx context.Context, teamID string, from time.Time) (string, error)
}

type calendarService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(st *store.Store, logger *zap.Logger) CalendarService {
	return &calendarService{store: st, logger: logger}
}

func (s *calendarService) TeamShiftsICS(ctx context.Context, teamID string, from time.Time) (string, error) {
	var detail *dto.TeamDetailResponse
	err := s.store.View(ctx, func(v store.View) error {
		var err error
		detail, err = resolveTeamDetail(v, teamID)
		return err
	})
	if err != nil {
		logFailure(s.logger, "生成班次日历失败", err, zap.String("team_id", teamID))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//pet-cafe//staffing//CN")
	cal.SetXWRCalName(detail.Name + " 班次")

	stamp := from.UTC()
	for _, tws := range detail.WorkShifts {
		shift := tws.WorkShift
		days := shiftWeekdays(shift)
		if !shift.IsActive || len(days) == 0 {
			continue
		}
		first := firstOccurrence(from, days)
		start, err1 := time.Parse("2006-01-02 15:04:05", first.Format(model.DateLayout)+" "+shift.StartTime)
		end, err2 := time.Parse("2006-01-02 15:04:05", first.Format(model.DateLayout)+" "+shift.EndTime)
		if err1 != nil || err2 != nil {
			s.logger.Warn("班次时间无法解析，已跳过", zap.String("work_shift_id", shift.ID))
			continue
		}

		codes := make([]string, 0, len(days))
		for _, d := range days {
			codes = append(codes, icsDayCodes[d])
		}

		ev := cal.AddEvent(tws.ID + "@pet-cafe")
		ev.SetDtStampTime(stamp)
		ev.SetSummary(detail.Name + " · " + shift.Name)
		if shift.Description != "" {
			ev.SetDescription(shift.Description)
		}
		ev.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocalLayout))
		ev.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLocalLayout))
		ev.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;BYDAY="+strings.Join(codes, ","))
	}

	return cal.Serialize(), nil
}

func shiftWeekdays(shift dto.WorkShiftResponse) []model.Weekday {
	days := make([]model.Weekday, 0, len(shift.ApplicableDays))
	for _, tok := range shift.ApplicableDays {
		if d, ok := model.ParseWeekday(tok); ok {
			days = append(days, d)
		}
	}
	return days
}

// firstOccurrence from 当天或之后第一个落在 days 中的日期
func firstOccurrence(from time.Time, days []model.Weekday) time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		d := day.AddDate(0, 0, i)
		for _, w := range days {
			if model.WeekdayOf(d) == w {
				return d
			}
		}
	}
	return day
}
