package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"epc-portal-backend/internal/shared/config"
	"epc-portal-backend/internal/shared/server/middleware"
	"epc-portal-backend/internal/shared/server/respond"
)

// RouteRegistrar is implemented by each feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config             config.Config
	InvitationHandler  RouteRegistrar
	DraftHandler       RouteRegistrar
	ApplicationHandler RouteRegistrar
	UploadHandler      RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// The submission portal's endpoints are mounted at the root: the paths are
// part of the external contract with the form client and the record
// authority.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	root := r.Group("/")
	root.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	for _, h := range []RouteRegistrar{
		deps.InvitationHandler,
		deps.DraftHandler,
		deps.ApplicationHandler,
		deps.UploadHandler,
	} {
		if h != nil {
			h.RegisterRoutes(root)
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
