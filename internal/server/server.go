package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/hiermatch/internal/core"
	"github.com/agenthands/hiermatch/internal/core/document"
	"github.com/agenthands/hiermatch/internal/core/model"
	"github.com/agenthands/hiermatch/internal/core/summary"
)

type Server struct {
	Service *core.Service
}

func NewServer(svc *core.Service) *Server {
	return &Server{Service: svc}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", s.Health)
	r.POST("/compare", s.Compare)
	r.POST("/compare/snapshots", s.CompareSnapshots)
	r.GET("/snapshots", s.ListSnapshots)
	r.POST("/snapshots/:name", s.SaveSnapshot)

	return r
}

type CompareRequest struct {
	Left  *document.ForestDocument `json:"left" binding:"required"`
	Right *document.ForestDocument `json:"right" binding:"required"`
}

type CompareSnapshotsRequest struct {
	Left  string `json:"left" binding:"required"`
	Right string `json:"right" binding:"required"`
}

type CompareResponse struct {
	ID            string                          `json:"id"`
	Summary       summary.Summary                 `json:"summary"`
	ResourcePairs []document.ResourcePairDocument `json:"resource_pairs"`
}

func newCompareResponse(c *model.Comparison) CompareResponse {
	doc := document.FromComparison(c)
	return CompareResponse{
		ID:            doc.ID,
		Summary:       summary.Summarize(c),
		ResourcePairs: doc.ResourcePairs,
	}
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	cmp, err := s.Service.CompareDocuments(c.Request.Context(), req.Left, req.Right)
	if err != nil {
		log.Printf("Failed to compare documents: %v", err)
		c.JSON(statusFor(err, http.StatusInternalServerError), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, newCompareResponse(cmp))
}

func (s *Server) CompareSnapshots(c *gin.Context) {
	var req CompareSnapshotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	cmp, err := s.Service.CompareSnapshots(c.Request.Context(), req.Left, req.Right)
	if err != nil {
		log.Printf("Failed to compare snapshots %s and %s: %v", req.Left, req.Right, err)
		c.JSON(statusFor(err, http.StatusBadGateway), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, newCompareResponse(cmp))
}

func (s *Server) SaveSnapshot(c *gin.Context) {
	name := c.Param("name")

	var doc document.ForestDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	f, err := doc.Forest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.Service.SaveSnapshot(c.Request.Context(), name, f); err != nil {
		log.Printf("Failed to save snapshot %s: %v", name, err)
		c.JSON(statusFor(err, http.StatusBadGateway), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"name": name, "node_count": len(f.Nodes)})
}

func (s *Server) ListSnapshots(c *gin.Context) {
	snapshots, err := s.Service.ListSnapshots(c.Request.Context())
	if err != nil {
		log.Printf("Failed to list snapshots: %v", err)
		c.JSON(statusFor(err, http.StatusBadGateway), gin.H{"error": err.Error()})
		return
	}
	if snapshots == nil {
		snapshots = []core.SnapshotInfo{}
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}

// statusFor maps the error taxonomy onto HTTP statuses. Anything else gets
// fallback.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNoStore):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrStrategyContractViolation), errors.Is(err, model.ErrResourcePairing):
		return http.StatusUnprocessableEntity
	default:
		return fallback
	}
}
