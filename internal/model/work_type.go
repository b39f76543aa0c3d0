package model

// WorkType 工作类型表 — 对应 work_types（技能/工作类别标签）
type WorkType struct {
	BaseModel
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

func (WorkType) TableName() string { return "work_types" }
