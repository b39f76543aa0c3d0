package store

import (
	"time"

	"pet-cafe/backend/internal/model"
)

// Tx 写事务
//
// 事务持有状态的私有副本，表在首次写访问时才被复制；回调返回错误时副本整体丢弃。
// 通过嵌入的 View 读取时可以看到本事务已写入的内容。
type Tx struct {
	View
	actor string
	now   time.Time
	newID func() string
	owned map[string]bool
}

// Actor 发起本次写入的操作人
func (tx *Tx) Actor() string { return tx.actor }

// Now 本次事务统一使用的时间戳
func (tx *Tx) Now() time.Time { return tx.now }

func (tx *Tx) Employees() WriteTable[model.Employee]   { return writeTable(tx, &tx.st.employees) }
func (tx *Tx) WorkTypes() WriteTable[model.WorkType]   { return writeTable(tx, &tx.st.workTypes) }
func (tx *Tx) WorkShifts() WriteTable[model.WorkShift] { return writeTable(tx, &tx.st.workShifts) }
func (tx *Tx) Teams() WriteTable[model.Team]           { return writeTable(tx, &tx.st.teams) }
func (tx *Tx) TeamMembers() WriteTable[model.TeamMember] {
	return writeTable(tx, &tx.st.teamMembers)
}
func (tx *Tx) TeamWorkTypes() WriteTable[model.TeamWorkType] {
	return writeTable(tx, &tx.st.teamWorkTypes)
}
func (tx *Tx) TeamWorkShifts() WriteTable[model.TeamWorkShift] {
	return writeTable(tx, &tx.st.teamWorkShifts)
}
func (tx *Tx) Slots() WriteTable[model.Slot] { return writeTable(tx, &tx.st.slots) }
