package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/compliance"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/export"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/margins"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/project"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/tables"
	"github.com/fbaudet83-code/calculatrice-PV-Richardson-Toulon/pkg/validation"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server exposes the engine over HTTP for one project directory.
type Server struct {
	projectPath string
	tables      *tables.Tables
	log         *zap.Logger
	router      *gin.Engine
}

// New creates a server for the given project directory. The project file is
// re-read on every request so edits show up without a restart.
func New(projectPath string, t *tables.Tables, log *zap.Logger) *Server {
	s := &Server{
		projectPath: projectPath,
		tables:      t,
		log:         log,
		router:      gin.New(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), requestID(), requestLogger(s.log))

	api := s.router.Group("/api")
	s.RegisterRoutes(api)
}

// RegisterRoutes registers the API routes on a router group.
func (s *Server) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", s.handleHealth)
	router.GET("/project", s.handleProject)
	router.GET("/dossier", s.handleDossier)
	router.GET("/tables", s.handleTables)
	router.GET("/export", s.handleExport)
	router.POST("/evaluate", s.handleEvaluate)
	router.POST("/margins", s.handleMargins)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run launches the HTTP server.
func (s *Server) Run(addr string) error {
	s.log.Info("pvcalc server starting",
		zap.String("addr", addr),
		zap.String("project", s.projectPath))
	return s.router.Run(addr)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// evaluation is the JSON body returned for an evaluated project.
type evaluation struct {
	Dossier *compliance.Dossier `json:"dossier"`
	Report  *validation.Report  `json:"report"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleProject(c *gin.Context) {
	p, err := project.LoadProject(s.projectPath)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleDossier(c *gin.Context) {
	p, err := project.LoadProject(s.projectPath)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	s.respondEvaluation(c, p)
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var p project.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("decoding project: %w", err))
		return
	}
	s.respondEvaluation(c, &p)
}

func (s *Server) respondEvaluation(c *gin.Context, p *project.Project) {
	d, report := compliance.Evaluate(p, s.tables)
	status := http.StatusOK
	if d == nil {
		status = http.StatusBadRequest
	}
	c.JSON(status, evaluation{Dossier: d, Report: report})
}

type marginsRequest struct {
	RoofType string `json:"roof_type" binding:"omitempty,oneof=TUILE_MECANIQUE TUILE_CANAL ARDOISE BAC_ACIER FIBROCIMENT TOIT_PLAT"`
	WindZone int    `json:"wind_zone"`
}

func (s *Server) handleMargins(c *gin.Context) {
	var req marginsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("decoding margins request: %w", err))
		return
	}
	zone := project.WindZone(req.WindZone)
	c.JSON(http.StatusOK, gin.H{
		"roof_type": req.RoofType,
		"wind_zone": margins.ClampZone(zone),
		"margins":   margins.Compute(project.RoofType(req.RoofType), zone, s.tables),
	})
}

func (s *Server) handleTables(c *gin.Context) {
	c.JSON(http.StatusOK, s.tables)
}

func (s *Server) handleExport(c *gin.Context) {
	p, err := project.LoadProject(s.projectPath)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	d, report := compliance.Evaluate(p, s.tables)
	if d == nil {
		c.JSON(http.StatusBadRequest, evaluation{Report: report})
		return
	}

	f, err := export.Workbook(d, report)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="dossier.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if _, err := f.WriteTo(c.Writer); err != nil {
		s.log.Error("writing workbook", zap.String("request_id", c.GetString("request_id")), zap.Error(err))
	}
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("request_id", c.GetString("request_id")), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
