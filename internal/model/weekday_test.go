package model

import (
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want Weekday
		ok   bool
	}{
		{"MONDAY", Monday, true},
		{"monday", Monday, true},
		{"  Sunday ", Sunday, true},
		{"MON", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseWeekday(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseWeekday(%q) ok=%v，期望 %v", tt.in, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseWeekday(%q)=%s，期望 %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekdayOfDate(t *testing.T) {
	// 2026-01-05 为周一，2026-01-04 为周日
	if d, ok := WeekdayOfDate("2026-01-05"); !ok || d != Monday {
		t.Errorf("期望 2026-01-05 为 MONDAY，实际=%s ok=%v", d, ok)
	}
	if d, ok := WeekdayOfDate("2026-01-04"); !ok || d != Sunday {
		t.Errorf("期望 2026-01-04 为 SUNDAY，实际=%s ok=%v", d, ok)
	}
	if _, ok := WeekdayOfDate("05/01/2026"); ok {
		t.Error("非法日期格式应解析失败")
	}
	if WeekdayOf(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)) != Thursday {
		t.Error("期望 2026-10-15 为 THURSDAY")
	}
}

func TestWorkShift_AppliesOn(t *testing.T) {
	shift := WorkShift{ApplicableDays: []Weekday{Monday, Wednesday}}
	if !shift.AppliesOn(Monday) {
		t.Error("期望周一生效")
	}
	if shift.AppliesOn(Tuesday) {
		t.Error("期望周二不生效")
	}
	if (WorkShift{}).AppliesOn(Monday) {
		t.Error("applicable_days 为空时任何一天都不生效")
	}
}
