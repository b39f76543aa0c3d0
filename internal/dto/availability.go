package dto

// ── 可用性匹配 DTO ──

// MatchRequest 匹配请求
//
// 时间、星期/日期缺失或格式错误时不会报错，所有团队标记为 UNEVALUATED。
type MatchRequest struct {
	DayOfWeek       string `json:"day_of_week"`
	SpecificDate    string `json:"specific_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	WorkTypeID      string `json:"work_type_id"`
	Mode            string `json:"mode"`             // FILTER | RANK，缺省取配置
	IncludeInactive *bool  `json:"include_inactive"` // 缺省取配置
}

// TeamMatchResponse 单个团队的匹配结果
type TeamMatchResponse struct {
	Team               TeamDetailResponse `json:"team"`
	WorkTypeCompatible bool               `json:"work_type_compatible"`
	Schedule           string             `json:"schedule"` // MATCHED | UNMATCHED | UNEVALUATED
	MatchedShiftIDs    []string           `json:"matched_shift_ids"`
}

// MatchResponse 匹配响应（已排序）
type MatchResponse struct {
	Mode      string              `json:"mode"`
	DayOfWeek string              `json:"day_of_week,omitempty"`
	StartTime string              `json:"start_time,omitempty"`
	EndTime   string              `json:"end_time,omitempty"`
	Results   []TeamMatchResponse `json:"results"`
}
