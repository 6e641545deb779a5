package authController

import (
	"context"
	"errors"
	"time"

	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
)

// AuthController handles registration and login
type AuthController struct {
	users    repositories.UserRepository
	token    *services.TokenService
	validate *validator.Validate
	log      logger.Logger
}

type AuthControllerInterface interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error)
	Login(ctx context.Context, req models.LoginRequest) (*LoginResponse, error)
	GetProfile(ctx context.Context, userID int) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID int, req ProfileUpdateRequest) (*models.UserProfile, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

type ProfileUpdateRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

func New(
	repos repositories.Repository,
	services services.Service,
) AuthControllerInterface {
	return &AuthController{
		users:    repos.User,
		token:    services.Token,
		validate: validator.New(),
		log:      logger.New("authController"),
	}
}

func (c *AuthController) Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	log := c.log.Function("Register")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	if _, err := c.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	}
	if _, err := c.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     models.RoleUser,
		IsActive: true,
	}

	if req.Birthdate != "" {
		birthdate, err := time.Parse("2006-01-02", req.Birthdate)
		if err != nil {
			return nil, errors.New("birthdate must be YYYY-MM-DD")
		}
		user.Birthdate = &birthdate
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	if err := c.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("User registered", "userID", user.ID, "username", user.Username)
	profile := user.ToProfile()
	return &profile, nil
}

func (c *AuthController) Login(ctx context.Context, req models.LoginRequest) (*LoginResponse, error) {
	log := c.log.Function("Login")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	user, err := c.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	token, err := c.token.Generate(user)
	if err != nil {
		return nil, log.Err("failed to generate token", err, "userID", user.ID)
	}

	log.Info("User logged in", "userID", user.ID, "role", string(user.Role))
	return &LoginResponse{
		Token: token,
		User:  user.ToProfile(),
	}, nil
}

func (c *AuthController) GetProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := user.ToProfile()
	return &profile, nil
}

func (c *AuthController) UpdateProfile(ctx context.Context, userID int, req ProfileUpdateRequest) (*models.UserProfile, error) {
	log := c.log.Function("UpdateProfile")

	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return nil, log.Err("failed to hash password", err, "userID", userID)
		}
	}

	if err := c.users.Update(ctx, user); err != nil {
		return nil, err
	}

	profile := user.ToProfile()
	return &profile, nil
}
