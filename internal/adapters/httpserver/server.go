// Package httpserver exposes the operator dashboard API: incident
// browsing and filtering, workflow updates, CSV export, and metrics.
package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Lizz6780/phishscope-sentinel/internal/adapters/reports"
	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
	"github.com/Lizz6780/phishscope-sentinel/internal/ports"
)

// Server serves the dashboard API over one incident store.
type Server struct {
	storage ports.Storage
	logger  *zap.Logger
	engine  *gin.Engine
}

// NewServer builds the gin engine with all routes and middleware wired.
func NewServer(storage ports.Storage, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{storage: storage, logger: logger, engine: engine}

	engine.Use(prometheusMiddleware())

	engine.GET("/healthz", s.health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api", rateLimiter(20, 40))
	{
		api.GET("/incidents", s.listIncidents)
		api.GET("/incidents/export.csv", s.exportCSV)
		api.GET("/incidents/summary", s.summary)
		api.GET("/incidents/:id", s.getIncident)
		api.PATCH("/incidents/:id/workflow", s.updateWorkflow)
	}

	return s
}

// Run blocks serving HTTP on the given port.
func (s *Server) Run(port int) error {
	s.logger.Info("dashboard listening", zap.Int("port", port))
	return s.engine.Run(fmt.Sprintf(":%d", port))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) listIncidents(c *gin.Context) {
	filter := ports.IncidentFilter{
		Verdict:  domain.Verdict(c.Query("verdict")),
		Severity: domain.Severity(c.Query("severity")),
		Status:   c.Query("status"),
		Limit:    100,
	}

	incidents, err := s.storage.ListIncidents(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("list incidents failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list incidents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"incidents": incidents, "count": len(incidents)})
}

func (s *Server) getIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident id"})
		return
	}

	incident, err := s.storage.GetIncident(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("get incident failed", zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load incident"})
		return
	}
	if incident == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}

	c.JSON(http.StatusOK, incident)
}

// workflowRequest carries the only incident fields that are mutable
// after creation.
type workflowRequest struct {
	Status string `json:"status" binding:"required"`
	Owner  string `json:"owner"`
	Notes  string `json:"notes"`
}

func (s *Server) updateWorkflow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident id"})
		return
	}

	var req workflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	if err := s.storage.UpdateWorkflow(c.Request.Context(), id, req.Status, req.Owner, req.Notes); err != nil {
		s.logger.Error("workflow update failed", zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": id})
}

func (s *Server) exportCSV(c *gin.Context) {
	incidents, err := s.storage.ListIncidents(c.Request.Context(), ports.IncidentFilter{})
	if err != nil {
		s.logger.Error("csv export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export incidents"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="incidents.csv"`)
	if err := reports.WriteCSV(c.Writer, incidents); err != nil {
		s.logger.Error("csv write failed", zap.Error(err))
	}
}

func (s *Server) summary(c *gin.Context) {
	counts, err := s.storage.CountByVerdict(c.Request.Context())
	if err != nil {
		s.logger.Error("summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize incidents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"by_verdict": counts})
}
