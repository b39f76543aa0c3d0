package model

import (
	"strings"
	"time"
)

// Weekday 星期标识，取值固定为 SUNDAY … SATURDAY
type Weekday string

const (
	Sunday    Weekday = "SUNDAY"
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
)

// weekdays 按 time.Weekday 下标排列
var weekdays = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DateLayout 具体日期（specific_date）格式
const DateLayout = "2006-01-02"

// ParseWeekday 解析星期标识（忽略首尾空白与大小写）
func ParseWeekday(s string) (Weekday, bool) {
	d := Weekday(strings.ToUpper(strings.TrimSpace(s)))
	return d, d.Valid()
}

// WeekdayOf 返回日期对应的公历星期
func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

// WeekdayOfDate 解析 YYYY-MM-DD 日期并返回其星期
func WeekdayOfDate(date string) (Weekday, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", false
	}
	return WeekdayOf(t), true
}

// Valid 是否为合法星期标识
func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// Index 返回对应的 time.Weekday 下标，非法值返回 -1
func (d Weekday) Index() int {
	for i, w := range weekdays {
		if w == d {
			return i
		}
	}
	return -1
}
