package availability

import "strings"

// NormalizeTime 将 HH:MM 或 HH:MM:SS 规范化为 HH:MM:SS
//
// 规范化后的字符串按字典序比较即等价于同一天内的时间先后比较。
// 非法输入（位数不对、越界、非数字）返回 ok=false。
func NormalizeTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 5:
		s += ":00"
	case 8:
	default:
		return "", false
	}
	if s[2] != ':' || s[5] != ':' {
		return "", false
	}
	if !twoDigits(s[0:2], 23) || !twoDigits(s[3:5], 59) || !twoDigits(s[6:8], 59) {
		return "", false
	}
	return s, true
}

func twoDigits(s string, max int) bool {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return false
	}
	return int(s[0]-'0')*10+int(s[1]-'0') <= max
}
