package httpframework

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// New builds a gin engine with request id, access log, fault-reporting recovery and CORS.
// onFault may be nil.
func New(cfg Config, onFault func(error)) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", HeaderRequestID}
	if len(cfg.CORSAllowOrigins) == 0 || contains(cfg.CORSAllowOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	}

	router := gin.New()
	router.Use(
		RequestID(),
		HTTPLogger(),
		HTTPRecovery(onFault),
		cors.New(corsConfig),
	)
	return router
}

// NewServer wraps handler with the server timeouts used in production.
func NewServer(cfg Config, handler http.Handler) *http.Server {
	readHeader := cfg.ReadHeaderTimeout
	if readHeader <= 0 {
		readHeader = 5 * time.Second
	}
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: readHeader,
		IdleTimeout:       60 * time.Second,
	}
}

// ServeStatic serves files from dir for every unmatched GET or HEAD request.
func ServeStatic(router *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("static dir not resolvable, skipping")
		return
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		log.Warn().Str("dir", abs).Msg("static dir not found, skipping")
		return
	}

	files := http.FileServer(http.Dir(abs))
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
	log.Info().Str("dir", abs).Msg("serving static files")
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
