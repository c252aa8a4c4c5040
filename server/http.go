package server

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RebelsBlocks/wars-of-cards-backend/engine"
	"github.com/RebelsBlocks/wars-of-cards-backend/models"
	"github.com/RebelsBlocks/wars-of-cards-backend/store"
)

// Server wires the table manager to HTTP and websocket transports.
type Server struct {
	manager  *engine.TableManager
	presence store.PresenceStore
	hub      *Hub
	router   *gin.Engine
	log      *logrus.Logger
}

func New(manager *engine.TableManager, presence store.PresenceStore, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if presence == nil {
		presence = store.NewMemoryPresence()
	}
	s := &Server{
		manager:  manager,
		presence: presence,
		hub:      NewHub(log),
		log:      log,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tables := router.Group("/tables")
	{
		tables.POST("", s.createTable)
		tables.GET("", s.listTables)
		tables.GET("/:id", s.getTable)
		tables.DELETE("/:id", s.destroyTable)
		tables.POST("/:id/join", s.join)
		tables.POST("/:id/leave", s.leave)
		tables.POST("/:id/action", s.action)
		tables.POST("/:id/buyin", s.buyIn)
		tables.POST("/:id/buyin/decline", s.declineBuyIn)
		tables.POST("/:id/heartbeat", s.heartbeat)
	}

	router.GET("/ws", s.hub.HandleWS)

	s.router = router
	return s
}

// Run starts the event fan-out and serves HTTP. Blocks until the listener
// fails.
func (s *Server) Run(addr string) error {
	go s.hub.Run(s.manager.Events())
	s.log.WithField("addr", addr).Info("http server listening")
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

type createTableRequest struct {
	Variant    string `json:"variant"`
	MinBet     int    `json:"minBet"`
	SmallBlind int    `json:"smallBlind"`
	BigBlind   int    `json:"bigBlind"`
	MinBuyIn   int    `json:"minBuyIn"`
}

func (s *Server) createTable(c *gin.Context) {
	var req createTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snapshot, err := s.manager.CreateTable(models.TableConfig{
		Variant:    models.GameVariant(req.Variant),
		MinBet:     req.MinBet,
		SmallBlind: req.SmallBlind,
		BigBlind:   req.BigBlind,
		MinBuyIn:   req.MinBuyIn,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (s *Server) listTables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tables": s.manager.ListTables()})
}

// getTable returns the public view; a playerId query parameter returns that
// player's view with their own hole cards revealed.
func (s *Server) getTable(c *gin.Context) {
	snapshot, err := s.manager.GetState(c.Param("id"), c.Query("playerId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) destroyTable(c *gin.Context) {
	if err := s.manager.DestroyTable(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "destroyed"})
}

type joinRequest struct {
	Name  string `json:"name" binding:"required"`
	Seat  int    `json:"seat" binding:"required"`
	BuyIn int    `json:"buyIn" binding:"required"`
}

func (s *Server) join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tableID := c.Param("id")
	playerID, err := s.manager.JoinSeat(tableID, req.Name, req.Seat, req.BuyIn)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.presence.Touch(c.Request.Context(), tableID, playerID); err != nil {
		s.log.WithError(err).Warn("presence touch failed")
	}
	c.JSON(http.StatusOK, gin.H{"playerId": playerID})
}

type playerRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
}

func (s *Server) leave(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tableID := c.Param("id")
	if err := s.manager.LeaveSeat(tableID, req.PlayerID); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.presence.Forget(c.Request.Context(), tableID, req.PlayerID); err != nil {
		s.log.WithError(err).Warn("presence forget failed")
	}
	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

type actionRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	Action   string `json:"action" binding:"required"`
	Amount   int    `json:"amount"`
}

func (s *Server) action(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snapshot, err := s.manager.SubmitAction(c.Param("id"), req.PlayerID, models.Action(req.Action), req.Amount)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type buyInRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	Amount   int    `json:"amount" binding:"required"`
}

func (s *Server) buyIn(c *gin.Context) {
	var req buyInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.manager.RequestBuyIn(c.Param("id"), req.PlayerID, req.Amount); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}

func (s *Server) declineBuyIn(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.manager.DeclineBuyIn(c.Param("id"), req.PlayerID); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "declined"})
}

// heartbeat refreshes a player's inactivity clock without any game effect.
func (s *Server) heartbeat(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tableID := c.Param("id")
	if err := s.manager.MarkActivity(tableID, req.PlayerID); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.presence.Touch(c.Request.Context(), tableID, req.PlayerID); err != nil {
		s.log.WithError(err).Warn("presence touch failed")
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps engine sentinels to HTTP status codes.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, engine.ErrTableNotFound), errors.Is(err, engine.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrSeatOccupied), errors.Is(err, engine.ErrTableFull),
		errors.Is(err, engine.ErrWrongPhase), errors.Is(err, engine.ErrNotYourTurn):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
