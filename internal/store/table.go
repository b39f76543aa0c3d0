package store

import (
	"time"

	"github.com/google/uuid"

	"pet-cafe/backend/internal/model"
	apperrors "pet-cafe/backend/pkg/errors"
)

// table 单张实体表：按 ID 存储的行加上插入顺序
//
// 行以值存储，读出时一律经 clone 复制，调用方拿到的切片字段不会与表内共享。
type table[T any] struct {
	name  string
	rows  map[string]T
	order []string
	base  func(*T) *model.BaseModel
	clone func(T) T
}

func newTable[T any](name string, base func(*T) *model.BaseModel, clone func(T) T) *table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &table[T]{name: name, rows: make(map[string]T), base: base, clone: clone}
}

// copy 浅复制表结构；行本身不可变（更新时整行替换），共享是安全的
func (t *table[T]) copy() *table[T] {
	c := &table[T]{
		name:  t.name,
		rows:  make(map[string]T, len(t.rows)),
		order: make([]string, len(t.order)),
		base:  t.base,
		clone: t.clone,
	}
	for k, v := range t.rows {
		c.rows[k] = v
	}
	copy(c.order, t.order)
	return c
}

func (t *table[T]) get(id string) (T, error) {
	row, ok := t.rows[id]
	if !ok || t.base(&row).IsDeleted {
		var zero T
		return zero, apperrors.NotFound(t.name, id)
	}
	return t.clone(row), nil
}

func (t *table[T]) getAny(id string) (T, bool) {
	row, ok := t.rows[id]
	if !ok {
		return row, false
	}
	return t.clone(row), true
}

func (t *table[T]) list(match func(T) bool, withDeleted bool) []T {
	out := make([]T, 0)
	for _, id := range t.order {
		row := t.rows[id]
		if !withDeleted && t.base(&row).IsDeleted {
			continue
		}
		if match != nil && !match(row) {
			continue
		}
		out = append(out, t.clone(row))
	}
	return out
}

// put 原样写入一行（快照导入），已存在则覆盖
func (t *table[T]) put(row T) {
	id := t.base(&row).ID
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = t.clone(row)
}

// ReadTable 只读表视图
type ReadTable[T any] struct {
	t *table[T]
}

// Get 按 ID 读取未删除的行，不存在或已软删除返回 NotFound
func (r ReadTable[T]) Get(id string) (T, error) { return r.t.get(id) }

// GetAny 按 ID 读取行，包括已软删除的行（审计查询）
func (r ReadTable[T]) GetAny(id string) (T, bool) { return r.t.getAny(id) }

// Exists 是否存在未删除的行
func (r ReadTable[T]) Exists(id string) bool {
	_, err := r.t.get(id)
	return err == nil
}

// List 按插入顺序返回未删除且满足 match 的行；match 为 nil 时返回全部
func (r ReadTable[T]) List(match func(T) bool) []T { return r.t.list(match, false) }

// ListWithDeleted 同 List，但包括已软删除的行
func (r ReadTable[T]) ListWithDeleted(match func(T) bool) []T { return r.t.list(match, true) }

// Find 返回第一条满足 match 的未删除行
func (r ReadTable[T]) Find(match func(T) bool) (T, bool) {
	for _, id := range r.t.order {
		row := r.t.rows[id]
		if r.t.base(&row).IsDeleted || !match(row) {
			continue
		}
		return r.t.clone(row), true
	}
	var zero T
	return zero, false
}

// Len 未删除行数
func (r ReadTable[T]) Len() int {
	n := 0
	for _, row := range r.t.rows {
		if !r.t.base(&row).IsDeleted {
			n++
		}
	}
	return n
}

// WriteTable 事务内的可写表视图
type WriteTable[T any] struct {
	ReadTable[T]
	tx *Tx
}

// Insert 插入一行并返回其 ID
//
// ID 为空时自动生成；审计字段由事务统一写入，调用方传入的值被忽略。
func (w WriteTable[T]) Insert(row T) (string, error) {
	b := w.t.base(&row)
	if b.ID == "" {
		b.ID = w.tx.newID()
	}
	if _, ok := w.t.rows[b.ID]; ok {
		return "", apperrors.Duplicate(w.t.name, b.ID, "ID 已被占用")
	}
	b.Stamp(w.tx.now, w.tx.actor)
	w.t.rows[b.ID] = w.t.clone(row)
	w.t.order = append(w.t.order, b.ID)
	return b.ID, nil
}

// Update 对未删除的行应用 patch 并返回更新后的行
//
// patch 不能修改 ID、创建审计字段和删除标记。
func (w WriteTable[T]) Update(id string, patch func(*T)) (T, error) {
	row, err := w.t.get(id)
	if err != nil {
		return row, err
	}
	orig := *w.t.base(&row)
	patch(&row)
	b := w.t.base(&row)
	b.ID = orig.ID
	b.CreatedAt = orig.CreatedAt
	b.CreatedBy = orig.CreatedBy
	b.IsDeleted = false
	b.Touch(w.tx.now, w.tx.actor)
	w.t.rows[id] = w.t.clone(row)
	return row, nil
}

// SoftDelete 将行标记为已删除；对已删除的行再次调用返回 NotFound
func (w WriteTable[T]) SoftDelete(id string) error {
	row, err := w.t.get(id)
	if err != nil {
		return err
	}
	b := w.t.base(&row)
	b.IsDeleted = true
	b.Touch(w.tx.now, w.tx.actor)
	w.t.rows[id] = row
	return nil
}

// writeTable 取得事务内可写的表，首次访问时复制原表（写时复制）
func writeTable[T any](tx *Tx, slot **table[T]) WriteTable[T] {
	t := *slot
	if !tx.owned[t.name] {
		t = t.copy()
		*slot = t
		tx.owned[t.name] = true
	}
	return WriteTable[T]{ReadTable: ReadTable[T]{t: t}, tx: tx}
}

// ── 行复制 ──

func cloneEmployee(e model.Employee) model.Employee {
	e.Skills = append([]string(nil), e.Skills...)
	return e
}

func cloneWorkShift(s model.WorkShift) model.WorkShift {
	s.ApplicableDays = append([]model.Weekday(nil), s.ApplicableDays...)
	return s
}

func defaultID() string { return uuid.NewString() }

type clock func() time.Time
