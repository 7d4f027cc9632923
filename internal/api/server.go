// Package api exposes the match table and the message store over the JSON
// API the web and terminal clients consume.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"secret-santa/internal/match"
	"secret-santa/internal/store"
)

// Server holds the injected collaborators for the API handlers. The table
// is read-only; the store is the only thing requests mutate.
type Server struct {
	table   *match.Table
	store   store.Store
	service string
	maxLen  int
}

func New(table *match.Table, st store.Store, service string, maxMessageChars int) *Server {
	if service == "" {
		service = "secret-santa-v2"
	}
	if maxMessageChars <= 0 {
		maxMessageChars = 1000
	}
	return &Server{table: table, store: st, service: service, maxLen: maxMessageChars}
}

// Mount registers the API routes on the engine.
func (s *Server) Mount(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/api/participants", s.participants)
	r.GET("/api/match/:name", s.matchFor)
	r.POST("/api/message", s.submitMessage)
	r.GET("/api/message/:name", s.messageFor)
	r.GET("/api/message-for-match/:name", s.messageForMatch)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": s.service})
}

func (s *Server) participants(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"participants": s.table.Participants()})
}

func (s *Server) matchFor(c *gin.Context) {
	receiver, err := s.table.Match(c.Param("name"))
	if errors.Is(err, match.ErrUnknownParticipant) {
		c.JSON(http.StatusNotFound, gin.H{"error": "participant_not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": receiver})
}

type messageRequest struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

func (s *Server) submitMessage(c *gin.Context) {
	var req messageRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	if req.From == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_fields"})
		return
	}
	if !s.table.Contains(req.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_participant"})
		return
	}
	if len([]rune(req.Message)) > s.maxLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message_too_long"})
		return
	}
	if err := s.store.Set(req.From, req.Message); err != nil {
		log.Error().Err(err).Str("from", req.From).Msg("store write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) messageFor(c *gin.Context) {
	message, err := s.store.Get(c.Param("name"))
	if err != nil {
		log.Error().Err(err).Msg("store read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (s *Server) messageForMatch(c *gin.Context) {
	receiver, err := s.table.Match(c.Param("name"))
	if errors.Is(err, match.ErrUnknownParticipant) {
		c.JSON(http.StatusNotFound, gin.H{"error": "participant_not_found"})
		return
	}
	message, err := s.store.Get(receiver)
	if err != nil {
		log.Error().Err(err).Msg("store read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "from": receiver})
}
