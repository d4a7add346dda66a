package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/validation"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// TokenIssuer 签发登录令牌，由 pkg/jwt.Manager 实现
type TokenIssuer interface {
	Generate(userID, username string) (string, error)
}

// Account 返回给用户本人的资料，包含邮箱
type Account struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

func AccountOf(u *model.User) *Account {
	if u == nil {
		return nil
	}
	return &Account{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// Session 登录结果
type Session struct {
	Token string   `json:"token"`
	User  *Account `json:"user"`
}

// UserService 注册、登录与用户查询
type UserService interface {
	SignUp(ctx context.Context, form validation.SignUpForm) (*model.User, error)
	Login(ctx context.Context, form validation.LoginForm) (*Session, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type userService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	cost   int
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer) UserService {
	return &userService{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (s *userService) SignUp(ctx context.Context, form validation.SignUpForm) (*model.User, error) {
	errs := validation.Validate(&form)
	if errs == nil {
		errs = validation.Errors{}
	}
	if !errs.Has("username") {
		exists, err := s.users.ExistsByUsername(ctx, form.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add("username", "A user with that username already exists.")
		}
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.cost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:     form.Username,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Info("user signed up", zap.String("user", u.Username))
	return u, nil
}

// Login 用户不存在与密码错误返回同一个错误
func (s *userService) Login(ctx context.Context, form validation.LoginForm) (*Session, error) {
	if err := invalid(validation.Validate(&form)); err != nil {
		return nil, err
	}
	u, err := s.users.GetByUsername(ctx, form.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(form.Password)); err != nil {
		logger.Warn("login rejected", zap.String("user", u.Username))
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: AccountOf(u)}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("user", err)
	}
	return u, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound("user", err)
	}
	return u, nil
}
