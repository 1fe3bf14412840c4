package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"epc-portal-backend/internal/applications"
	"epc-portal-backend/internal/authority"
	"epc-portal-backend/internal/drafts"
	"epc-portal-backend/internal/invitations"
	"epc-portal-backend/internal/shared/config"
	"epc-portal-backend/internal/shared/server"
	"epc-portal-backend/internal/shared/storage/db"
	"epc-portal-backend/internal/shared/storage/object"
	localstore "epc-portal-backend/internal/shared/storage/object/local"
	s3store "epc-portal-backend/internal/shared/storage/object/s3"
	"epc-portal-backend/internal/uploads"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	Authority authority.Client

	InvitationsRepo  invitations.Repo
	ApplicationsRepo applications.Repo
	FilesRepo        applications.FilesRepo
	DraftsRepo       drafts.Repo

	Resolver   *invitations.Resolver
	DraftStore *drafts.Store
	Pipeline   *applications.Pipeline

	InvitationHandler  *invitations.Handler
	DraftHandler       *drafts.Handler
	ApplicationHandler *applications.Handler
	UploadHandler      *uploads.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	authClient, err := buildAuthority(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Authority: authClient,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		InvitationHandler:  app.InvitationHandler,
		DraftHandler:       app.DraftHandler,
		ApplicationHandler: app.ApplicationHandler,
		UploadHandler:      app.UploadHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildAuthority(cfg config.Config) (authority.Client, error) {
	if strings.TrimSpace(cfg.AuthorityBaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: AUTHORITY_BASE_URL empty; record authority disabled, submissions will queue for review")
			return authority.Disabled{}, nil
		}
		return nil, fmt.Errorf("AUTHORITY_BASE_URL is required")
	}
	return authority.NewHTTPClient(cfg.AuthorityBaseURL, cfg.AuthorityAPIKey)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.InvitationsRepo = &invitations.PGRepo{DB: app.DB}
		pgApps := &applications.PGRepo{DB: app.DB}
		app.ApplicationsRepo = pgApps
		app.FilesRepo = pgApps
		app.DraftsRepo = &drafts.PGRepo{DB: app.DB}
	} else {
		app.InvitationsRepo = invitations.NewMemoryRepo()
		memApps := applications.NewMemoryRepo()
		app.ApplicationsRepo = memApps
		app.FilesRepo = memApps
		app.DraftsRepo = drafts.NewMemoryRepo()
	}

	app.Resolver = &invitations.Resolver{
		Repo:          app.InvitationsRepo,
		Authority:     app.Authority,
		LookupTimeout: app.Config.AuthorityLookupTimeout,
	}
	app.DraftStore = &drafts.Store{Repo: app.DraftsRepo}
	app.Pipeline = &applications.Pipeline{
		Repo:            app.ApplicationsRepo,
		Authority:       app.Authority,
		Drafts:          app.DraftStore,
		Invitations:     invitationMarker{repo: app.InvitationsRepo},
		ReferencePrefix: app.Config.ReferencePrefix,
		HandoffTimeout:  app.Config.AuthorityHandoffTimeout,
		CloseoutTimeout: app.Config.AuthorityCloseTimeout,
	}

	app.InvitationHandler = invitations.NewHandler(app.Resolver, app.InvitationsRepo)
	app.DraftHandler = drafts.NewHandler(app.DraftStore)
	app.ApplicationHandler = applications.NewHandler(app.Pipeline)
	app.UploadHandler = uploads.NewHandler(app.Store, app.FilesRepo)
}

// invitationMarker adapts the invitations repo to the pipeline's close-out
// mirror contract.
type invitationMarker struct {
	repo invitations.Repo
}

func (m invitationMarker) MarkUsed(ctx context.Context, invitationCode string) error {
	return m.repo.UpdateStatus(ctx, invitationCode, invitations.StatusUsed)
}
