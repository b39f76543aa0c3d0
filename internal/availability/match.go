// Package availability 团队可用性匹配
//
// 给定请求窗口（星期或具体日期、开始/结束时间、所需工作类型），对已解析的团队视图
// 做工作类型过滤与班次包含判断，并给出稳定排序的结果。匹配结果仅作参考，不会返回错误。
package availability

import (
	"sort"
	"strings"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/model"
)

// Mode 工作类型过滤方式
type Mode string

const (
	// ModeFilter 不具备所需工作类型的团队直接剔除
	ModeFilter Mode = "FILTER"
	// ModeRank 不具备所需工作类型的团队保留，排在最后
	ModeRank Mode = "RANK"
)

// ParseMode 解析匹配模式（忽略大小写）
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	return m, m == ModeFilter || m == ModeRank
}

// 班次匹配分类
const (
	Matched     = "MATCHED"
	Unmatched   = "UNMATCHED"
	Unevaluated = "UNEVALUATED"
)

// Window 请求时间窗口；字段保持调用方原始输入，由 Match 负责规范化
type Window struct {
	Day        string // 星期标识，如 MONDAY
	Date       string // YYYY-MM-DD，优先于 Day
	Start      string
	End        string
	WorkTypeID string
}

// Result 单个团队的匹配结果
type Result struct {
	Team               dto.TeamDetailResponse
	WorkTypeCompatible bool
	Schedule           string
	MatchedShiftIDs    []string
}

// normalized 规范化后的窗口；ok=false 表示缺少或无法解析必要字段
type normalized struct {
	day        model.Weekday
	start, end string
	ok         bool
}

func (w Window) normalize() normalized {
	var n normalized
	switch {
	case strings.TrimSpace(w.Date) != "":
		day, ok := model.WeekdayOfDate(w.Date)
		if !ok {
			return n
		}
		n.day = day
	case strings.TrimSpace(w.Day) != "":
		day, ok := model.ParseWeekday(w.Day)
		if !ok {
			return n
		}
		n.day = day
	default:
		return n
	}

	var okStart, okEnd bool
	n.start, okStart = NormalizeTime(w.Start)
	n.end, okEnd = NormalizeTime(w.End)
	n.ok = okStart && okEnd
	return n
}

// Weekday 返回窗口对应的星期；具体日期换算为公历星期
func (w Window) Weekday() (model.Weekday, bool) {
	n := w.normalize()
	return n.day, n.day != ""
}

// Match 对团队按窗口进行匹配并排序
//
// FILTER 模式下剔除不具备所需工作类型的团队；RANK 模式下保留并排在后面。
// 其次班次匹配的团队在前；同级保持输入顺序。
func Match(teams []dto.TeamDetailResponse, w Window, mode Mode) []Result {
	n := w.normalize()
	results := make([]Result, 0, len(teams))
	for _, team := range teams {
		compatible := hasWorkType(team, w.WorkTypeID)
		if !compatible && mode != ModeRank {
			continue
		}
		r := Result{Team: team, WorkTypeCompatible: compatible, MatchedShiftIDs: []string{}}
		switch {
		case !n.ok:
			r.Schedule = Unevaluated
		case n.end <= n.start:
			r.Schedule = Unmatched
		default:
			r.MatchedShiftIDs = containingShifts(team, n)
			r.Schedule = Unmatched
			if len(r.MatchedShiftIDs) > 0 {
				r.Schedule = Matched
			}
		}
		results = append(results, r)
	}

	if !n.ok {
		// 未评估时不按班次排序，仅保证工作类型兼容的团队在前
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].WorkTypeCompatible && !results[j].WorkTypeCompatible
		})
		return results
	}
	sort.SliceStable(results, func(i, j int) bool {
		return rank(results[i]) < rank(results[j])
	})
	return results
}

func rank(r Result) int {
	k := 0
	if !r.WorkTypeCompatible {
		k += 2
	}
	if r.Schedule != Matched {
		k++
	}
	return k
}

func hasWorkType(team dto.TeamDetailResponse, workTypeID string) bool {
	if workTypeID == "" {
		return true
	}
	for _, wt := range team.WorkTypes {
		if wt.ID == workTypeID {
			return true
		}
	}
	return false
}

// containingShifts 返回完整包含窗口且在该星期生效的班次 ID
func containingShifts(team dto.TeamDetailResponse, n normalized) []string {
	ids := []string{}
	for _, tws := range team.WorkShifts {
		shift := tws.WorkShift
		if !shift.IsActive || !appliesOn(shift.ApplicableDays, n.day) {
			continue
		}
		start, ok1 := NormalizeTime(shift.StartTime)
		end, ok2 := NormalizeTime(shift.EndTime)
		if !ok1 || !ok2 {
			continue
		}
		if start <= n.start && end >= n.end {
			ids = append(ids, shift.ID)
		}
	}
	return ids
}

func appliesOn(days []string, day model.Weekday) bool {
	for _, d := range days {
		if parsed, ok := model.ParseWeekday(d); ok && parsed == day {
			return true
		}
	}
	return false
}
