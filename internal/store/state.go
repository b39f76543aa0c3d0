package store

import "pet-cafe/backend/internal/model"

// 表名，同时作为 NotFound 错误中的实体名
const (
	TableEmployees      = "employee"
	TableWorkTypes      = "work_type"
	TableWorkShifts     = "work_shift"
	TableTeams          = "team"
	TableTeamMembers    = "team_member"
	TableTeamWorkTypes  = "team_work_type"
	TableTeamWorkShifts = "team_work_shift"
	TableSlots          = "slot"
)

type state struct {
	employees      *table[model.Employee]
	workTypes      *table[model.WorkType]
	workShifts     *table[model.WorkShift]
	teams          *table[model.Team]
	teamMembers    *table[model.TeamMember]
	teamWorkTypes  *table[model.TeamWorkType]
	teamWorkShifts *table[model.TeamWorkShift]
	slots          *table[model.Slot]
}

func newState() *state {
	return &state{
		employees:      newTable(TableEmployees, func(r *model.Employee) *model.BaseModel { return &r.BaseModel }, cloneEmployee),
		workTypes:      newTable[model.WorkType](TableWorkTypes, func(r *model.WorkType) *model.BaseModel { return &r.BaseModel }, nil),
		workShifts:     newTable(TableWorkShifts, func(r *model.WorkShift) *model.BaseModel { return &r.BaseModel }, cloneWorkShift),
		teams:          newTable[model.Team](TableTeams, func(r *model.Team) *model.BaseModel { return &r.BaseModel }, nil),
		teamMembers:    newTable[model.TeamMember](TableTeamMembers, func(r *model.TeamMember) *model.BaseModel { return &r.BaseModel }, nil),
		teamWorkTypes:  newTable[model.TeamWorkType](TableTeamWorkTypes, func(r *model.TeamWorkType) *model.BaseModel { return &r.BaseModel }, nil),
		teamWorkShifts: newTable[model.TeamWorkShift](TableTeamWorkShifts, func(r *model.TeamWorkShift) *model.BaseModel { return &r.BaseModel }, nil),
		slots:          newTable[model.Slot](TableSlots, func(r *model.Slot) *model.BaseModel { return &r.BaseModel }, nil),
	}
}

// View 一致性只读快照，在 Store.View 回调或事务内有效
type View struct {
	st *state
}

func (v View) Employees() ReadTable[model.Employee]   { return ReadTable[model.Employee]{t: v.st.employees} }
func (v View) WorkTypes() ReadTable[model.WorkType]   { return ReadTable[model.WorkType]{t: v.st.workTypes} }
func (v View) WorkShifts() ReadTable[model.WorkShift] { return ReadTable[model.WorkShift]{t: v.st.workShifts} }
func (v View) Teams() ReadTable[model.Team]           { return ReadTable[model.Team]{t: v.st.teams} }
func (v View) TeamMembers() ReadTable[model.TeamMember] {
	return ReadTable[model.TeamMember]{t: v.st.teamMembers}
}
func (v View) TeamWorkTypes() ReadTable[model.TeamWorkType] {
	return ReadTable[model.TeamWorkType]{t: v.st.teamWorkTypes}
}
func (v View) TeamWorkShifts() ReadTable[model.TeamWorkShift] {
	return ReadTable[model.TeamWorkShift]{t: v.st.teamWorkShifts}
}
func (v View) Slots() ReadTable[model.Slot] { return ReadTable[model.Slot]{t: v.st.slots} }
