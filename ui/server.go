// Package ui exposes the analysis pipeline over HTTP.
package ui

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"autostat/adapters/ingest"
	"autostat/adapters/report"
	"autostat/app"
	"autostat/domain/dataset"
	"autostat/internal"
	"autostat/internal/config"
)

// Server hosts the analysis API.
type Server struct {
	router  *gin.Engine
	cfg     *config.Config
	svc     *app.AnalysisService
	reports *report.Builder
	log     *internal.Logger
}

// NewServer creates a server wired to a fresh analysis service.
func NewServer(cfg *config.Config, log *internal.Logger) *Server {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}
	s := &Server{
		router:  gin.Default(),
		cfg:     cfg,
		svc:     app.NewAnalysisService(cfg.Options(), log),
		reports: report.NewBuilder(),
		log:     log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.POST("/api/analyze", s.handleAnalyze)
	s.router.POST("/api/questions", s.handleQuestions)
}

// Start runs the server on the configured port.
func (s *Server) Start() error {
	addr := ":" + s.cfg.Server.Port
	s.log.Info("listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine { return s.router }

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze accepts a multipart dataset upload under "file" and runs
// the full pipeline. The optional "format" query selects json (default),
// markdown or html output.
func (s *Server) handleAnalyze(c *gin.Context) {
	ds, err := s.datasetFromUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := s.svc.Run(c.Request.Context(), ds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(s.reports.Markdown(analysis)))
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", s.reports.HTML(analysis))
	default:
		c.JSON(http.StatusOK, analysisResponse(analysis))
	}
}

// handleQuestions evaluates caller-supplied questions against an
// uploaded dataset. Questions arrive one per line in the "questions"
// form field.
func (s *Server) handleQuestions(c *gin.Context) {
	ds, err := s.datasetFromUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw := c.PostForm("questions")
	var texts []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			texts = append(texts, line)
		}
	}
	if len(texts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no questions provided"})
		return
	}

	set := s.svc.AnswerExternal(c.Request.Context(), ds, texts)
	c.JSON(http.StatusOK, gin.H{"answers": set.All()})
}

func (s *Server) datasetFromUpload(c *gin.Context) (*dataset.Dataset, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing file upload: %w", err)
	}
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xlsm", ".xls":
		return ingest.ReadExcel(f)
	default:
		return ingest.ReadCSV(f)
	}
}

func analysisResponse(a *app.Analysis) gin.H {
	return gin.H{
		"run_id":     a.RunID,
		"created_at": a.CreatedAt,
		"alpha":      a.Alpha,
		"profile":    a.Profile,
		"questions":  a.Questions,
		"answers":    a.AnswerPairs(),
		"hypotheses": a.HypothesisResults(),
	}
}
