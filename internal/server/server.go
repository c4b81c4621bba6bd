package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"go-job-scraper/internal/controller"
	"go-job-scraper/internal/models"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 2 * time.Minute
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Controller is the part of controller.Controller the web front end drives.
type Controller interface {
	Submit(q models.Query) error
	Status() controller.Status
}

type Server struct {
	ctrl   Controller
	router *gin.Engine
	http   *http.Server
}

type searchForm struct {
	Designation string `form:"designation" json:"designation"`
	City        string `form:"city" json:"city"`
}

type pageData struct {
	Form   searchForm
	Status controller.Status
	Error  string
}

func New(addr string, ctrl Controller) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))

	s := &Server{ctrl: ctrl, router: router}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/", s.index)
	router.POST("/search", s.submitForm)
	router.GET("/download", s.download)

	api := router.Group("/api")
	api.GET("/status", s.status)
	api.POST("/search", s.submitJSON)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("🌐 Server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("🛑 Shutting down server")
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) index(c *gin.Context) {
	st := s.ctrl.Status()
	c.HTML(http.StatusOK, "index.tmpl", pageData{
		Form:   searchForm{Designation: st.Query.Designation, City: st.Query.City},
		Status: st,
	})
}

func (s *Server) submitForm(c *gin.Context) {
	var form searchForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderError(c, http.StatusBadRequest, form, err)
		return
	}

	if err := s.ctrl.Submit(models.Query{Designation: form.Designation, City: form.City}); err != nil {
		s.renderError(c, statusFor(err), form, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) renderError(c *gin.Context, code int, form searchForm, err error) {
	msg := err.Error()
	if errors.Is(err, controller.ErrInvalidQuery) {
		msg = "Please enter both a designation and a city."
	}
	c.HTML(code, "index.tmpl", pageData{Form: form, Status: s.ctrl.Status(), Error: msg})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctrl.Status())
}

func (s *Server) submitJSON(c *gin.Context) {
	var form searchForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.ctrl.Submit(models.Query{Designation: form.Designation, City: form.City}); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, s.ctrl.Status())
}

func (s *Server) download(c *gin.Context) {
	st := s.ctrl.Status()
	if st.State != controller.StateDone || st.Path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no finished run to download"})
		return
	}
	if _, err := os.Stat(st.Path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "spreadsheet no longer exists"})
		return
	}
	c.FileAttachment(st.Path, filepath.Base(st.Path))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, controller.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, controller.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("http request")
	}
}
