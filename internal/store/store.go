// Package store 进程内关系型实体存储
//
// 所有读写经由 Store.View / Store.Update 进入：读取共享锁，写入独占锁并在私有副本上执行，
// 回调成功后整体替换状态，失败则不留下任何部分写入。存储只做软删除，不会物理移除行。
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "pet-cafe/backend/pkg/errors"
)

// Store 内存实体存储
type Store struct {
	mu     sync.RWMutex
	state  *state
	closed bool
	nowFn  clock
	idFn   func() string
	logger *zap.Logger
}

// Option 存储构造选项
type Option func(*Store)

// WithClock 替换时间来源（测试用）
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.nowFn = fn }
}

// WithIDGenerator 替换 ID 生成器
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.idFn = fn }
}

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New 创建空存储
func New(opts ...Option) *Store {
	s := &Store{
		state:  newState(),
		nowFn:  func() time.Time { return time.Now().UTC() },
		idFn:   defaultID,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View 在共享锁下执行只读回调
func (s *Store) View(ctx context.Context, fn func(v View) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return apperrors.ErrStoreClosed
	}
	return fn(View{st: s.state})
}

// Update 在独占锁下执行写事务
//
// fn 返回 nil 时事务内的全部写入一次性生效；返回错误时存储保持不变，错误原样返回。
func (s *Store) Update(ctx context.Context, actor string, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.ErrStoreClosed
	}

	next := *s.state
	tx := &Tx{
		View:  View{st: &next},
		actor: actor,
		now:   s.nowFn(),
		newID: s.idFn,
		owned: make(map[string]bool),
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = &next
	return nil
}

// Close 关闭存储，之后的所有调用返回 ErrStoreClosed；重复关闭无副作用
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.state = newState()
		s.logger.Info("实体存储已关闭")
	}
	return nil
}
