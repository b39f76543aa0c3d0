package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pet-cafe/backend/config"
	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
)

// TokenBlacklist 登出 Token 黑名单（redis 实现，未启用时为空操作）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, ttl time.Duration) error
}

type authService struct {
	operators map[string]config.OperatorConfig
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
//
// 控制台操作员账号来自配置（auth.operators），密码以 bcrypt 哈希比对。
func NewAuthService(cfg *config.AuthConfig, jwtMgr *jwt.Manager, blacklist TokenBlacklist, logger *zap.Logger) AuthService {
	ops := make(map[string]config.OperatorConfig, len(cfg.Operators))
	for _, op := range cfg.Operators {
		ops[op.Username] = op
	}
	return &authService{operators: ops, jwtMgr: jwtMgr, blacklist: blacklist, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查找操作员
	op, ok := s.operators[req.Username]
	if !ok {
		return nil, ErrInvalidCredentials
	}

	// 2. 校验密码
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("登录失败：密码错误", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 Access Token
	token, err := s.jwtMgr.GenerateAccessToken(op.Username, op.Role)
	if err != nil {
		s.logger.Error("生成 Access Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("登录成功", zap.String("username", op.Username), zap.String("role", op.Role))
	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Role:        op.Role,
	}, nil
}

// Logout 将当前 Token 加入黑名单直至其过期
func (s *authService) Logout(ctx context.Context, jti string, ttl time.Duration) error {
	if s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}
