package service

import (
	"errors"
	"testing"
	"time"

	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/util"
)

func newAuthService(env *testEnv) *AuthService {
	env.cfg.JWT.Secret = "test-secret-32-characters-long!!"
	env.cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(env.users, env.cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	user := &model.User{Name: "张三", Email: "zhangsan@example.com", Password: "s3cret!"}
	if err := auth.Register(user); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if user.Password == "s3cret!" {
		t.Fatal("密码未经散列直接落库")
	}

	token, err := auth.Login("zhangsan@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	claims, err := util.ParseJWT(token, env.cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("解析令牌失败: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("令牌声明 = %+v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	if err := auth.Register(&model.User{Name: "甲", Email: "dup@example.com", Password: "pw1"}); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}
	err := auth.Register(&model.User{Name: "乙", Email: "dup@example.com", Password: "pw2"})
	if !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("重复邮箱应被拒绝, got %v", err)
	}
}

func TestLoginRejectsBadCredentialsAndDisabled(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	user := &model.User{Name: "李四", Email: "lisi@example.com", Password: "right-pw"}
	if err := auth.Register(user); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	if _, err := auth.Login("lisi@example.com", "wrong-pw"); err == nil {
		t.Fatal("错误密码应登录失败")
	}
	if _, err := auth.Login("nobody@example.com", "right-pw"); err == nil {
		t.Fatal("不存在的账号应登录失败")
	}

	user.Disabled = true
	if err := env.users.Update(user); err != nil {
		t.Fatalf("禁用账号失败: %v", err)
	}
	if _, err := auth.Login("lisi@example.com", "right-pw"); err == nil {
		t.Fatal("禁用账号应登录失败")
	}
}
