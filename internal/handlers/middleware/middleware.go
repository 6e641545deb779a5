package middleware

import (
	"kirayo/config"
	"kirayo/internal/database"
	"kirayo/internal/logger"
	"kirayo/internal/repositories"
	"kirayo/internal/services"
)

type Middleware struct {
	DB     database.DB
	users  repositories.UserRepository
	token  *services.TokenService
	Config config.Config
	log    logger.Logger
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
	token *services.TokenService,
) Middleware {
	return Middleware{
		DB:     db,
		users:  repos.User,
		token:  token,
		Config: config,
		log:    logger.New("middleware"),
	}
}
