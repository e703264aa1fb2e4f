// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"fintrack_backend/internal/app"
	"fintrack_backend/internal/auth"
	"fintrack_backend/internal/config"
	"fintrack_backend/internal/email"
	"fintrack_backend/internal/emailconfirmation"
	"fintrack_backend/internal/jobs"
	"fintrack_backend/internal/platform/database"
	"fintrack_backend/internal/platform/logger"
	"fintrack_backend/internal/shared"
	"fintrack_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		// Token and session plumbing
		auth.NewJWTService, // Provides shared.TokenService
		provideBlocklistConfig,
		auth.NewInMemoryBlocklistService,
		wire.Bind(new(auth.TokenBlocklistService), new(*auth.InMemoryBlocklistService)),
		provideRefreshTokenStore,
		auth.NewSessionService,
		wire.Bind(new(shared.SessionIssuer), new(*auth.SessionService)),

		// Mail
		email.NewSMTPMailer,
		wire.Bind(new(shared.Mailer), new(*email.SMTPMailer)),

		// Email confirmation
		user.NewStore,
		wire.Bind(new(emailconfirmation.UserStore), new(*user.Store)),
		emailconfirmation.NewService,
		wire.Bind(new(shared.ConfirmationSender), new(*emailconfirmation.Service)),
		emailconfirmation.NewHandler,

		// Core User Services
		user.NewGORMRepository, // Provides user.Repository
		user.NewService,        // Provides *user.ServiceImplementation
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(auth.GoogleUserProvider), new(*user.ServiceImplementation)),

		// Auth
		auth.NewGoogleService,
		auth.NewHandler,

		// Handlers and Jobs
		user.NewHandler,
		jobs.NewRefreshTokenSweepJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
