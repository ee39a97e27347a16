package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/apperr"
)

// CreateUserInput 命令行开户参数
type CreateUserInput struct {
	Email     string `validate:"required,email,max=254"`
	Username  string `validate:"required,max=150"`
	FirstName string `validate:"max=150"`
	LastName  string `validate:"max=150"`
	Password  string `validate:"required,min=8"`
}

// UserService 用户查询与订阅列表
type UserService interface {
	Me(ctx context.Context, viewer model.Viewer) (*UserView, error)
	GetUser(ctx context.Context, viewer model.Viewer, id int64) (*UserView, error)
	ListSubscriptions(ctx context.Context, viewer model.Viewer, page, pageSize, recipesLimit int) (*Page[SubscriptionView], error)
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	// Authenticate 校验邮箱与密码，返回用户
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

type userService struct {
	store     *repository.Store
	annotator *Annotator
	paging    Paging
}

func NewUserService(store *repository.Store, annotator *Annotator, paging Paging) UserService {
	return &userService{store: store, annotator: annotator, paging: paging}
}

func (s *userService) Me(ctx context.Context, viewer model.Viewer) (*UserView, error) {
	if viewer.IsAnonymous() {
		return nil, apperr.Unauthorized("authentication required")
	}
	return s.GetUser(ctx, viewer, viewer.UserID)
}

func (s *userService) GetUser(ctx context.Context, viewer model.Viewer, id int64) (*UserView, error) {
	var view *UserView
	err := s.store.ReadTransaction(ctx, func(tx *repository.Store) error {
		u, err := tx.Users.GetByID(ctx, id)
		if err != nil {
			return userLookupErr(err)
		}
		views, err := ProjectUsers(ctx, tx, []model.User{*u}, viewer)
		if err != nil {
			return err
		}
		view = &views[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *userService) ListSubscriptions(ctx context.Context, viewer model.Viewer, page, pageSize, recipesLimit int) (*Page[SubscriptionView], error) {
	if viewer.IsAnonymous() {
		return nil, apperr.Unauthorized("authentication required")
	}
	offset, limit := s.paging.window(page, pageSize)
	out := &Page[SubscriptionView]{Results: []SubscriptionView{}}
	err := s.store.ReadTransaction(ctx, func(tx *repository.Store) error {
		total, err := tx.Follows.CountFollowings(ctx, viewer.UserID)
		if err != nil || total == 0 {
			return err
		}
		follows, err := tx.Follows.ListFollowings(ctx, viewer.UserID, offset, limit)
		if err != nil {
			return err
		}
		ids := make([]int64, len(follows))
		for i, f := range follows {
			ids[i] = f.FolloweeID
		}
		authors, err := tx.Users.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		views, err := ProjectUsers(ctx, tx, authors, viewer)
		if err != nil {
			return err
		}
		subs, err := s.annotator.WithRecipes(ctx, tx, views, recipesLimit)
		if err != nil {
			return err
		}
		out = &Page[SubscriptionView]{Count: total, Results: subs}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Username:  strings.TrimSpace(in.Username),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  string(hash),
	}
	if err := s.store.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("email or username already taken")
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.store.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	return u, nil
}
