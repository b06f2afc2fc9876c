// Package server exposes the game over stateless HTTP handlers.
//
// Each request deserializes one envelope, runs exactly one store
// operation (which in turn applies exactly one engine operation under
// the optimistic protocol), and serializes the outcome. No game state
// lives in process memory between requests.
package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prasantadh/callbreakum-be/internal/engine"
	"github.com/prasantadh/callbreakum-be/internal/store"
)

// minIdentityLen is the minimal accepted player token length. Proper
// identity verification belongs to the identity layer; this is only the
// sanity floor the API has always enforced.
const minIdentityLen = 6

// Request is the common envelope for the mutating endpoints. Data
// carries the operation argument: the call value for /call, the card
// token for /play.
type Request struct {
	Game   string `json:"game"`
	Player string `json:"player"`
	Data   string `json:"data"`
}

// Response is the common reply envelope.
type Response struct {
	Status string `json:"status"`
	Data   string `json:"data"`
}

// Server holds the handler dependencies.
type Server struct {
	store store.Store
	log   logrus.FieldLogger
}

// New builds a Server over the given store.
func New(st store.Store, log logrus.FieldLogger) *Server {
	return &Server{store: st, log: log}
}

// Router wires the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/new", s.handleNew)
	r.POST("/join", s.handleJoin)
	r.POST("/start", s.handleStart)
	r.POST("/call", s.handleCall)
	r.POST("/play", s.handlePlay)
	r.GET("/state/:id", s.handleState)
	return r
}

// handleNew creates a game with the requesting player in seat 0 and
// returns the new game id.
func (s *Server) handleNew(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}
	game, err := s.store.CreateGame(c.Request.Context(), req.Player)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.succeed(c, game.ID.String())
}

// handleJoin seats the requesting player at an existing game and
// returns the resulting seat count.
func (s *Server) handleJoin(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}
	gameID, ok := s.gameID(c, req)
	if !ok {
		return
	}
	game, err := s.store.JoinGame(c.Request.Context(), gameID, req.Player)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.succeed(c, strconv.Itoa(len(game.Players)))
}

// handleStart deals the next round and returns the seat to act first.
func (s *Server) handleStart(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}
	gameID, ok := s.gameID(c, req)
	if !ok {
		return
	}
	game, err := s.store.UpdateGame(c.Request.Context(), gameID, func(g *engine.Game) error {
		if _, err := s.seatOf(g, req.Player); err != nil {
			return err
		}
		return g.StartRound()
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondTurn(c, game)
}

// handleCall records the requesting player's bid.
func (s *Server) handleCall(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}
	gameID, ok := s.gameID(c, req)
	if !ok {
		return
	}
	value, err := strconv.Atoi(req.Data)
	if err != nil {
		s.reject(c, http.StatusBadRequest, "call must be an integer")
		return
	}
	game, err := s.store.UpdateGame(c.Request.Context(), gameID, func(g *engine.Game) error {
		return g.Call(req.Player, value)
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondTurn(c, game)
}

// handlePlay records the requesting player playing the card in Data.
func (s *Server) handlePlay(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}
	gameID, ok := s.gameID(c, req)
	if !ok {
		return
	}
	card, err := engine.ParseCard(req.Data)
	if err != nil {
		s.reject(c, http.StatusBadRequest, err.Error())
		return
	}
	game, err := s.store.UpdateGame(c.Request.Context(), gameID, func(g *engine.Game) error {
		return g.PlayCard(req.Player, card)
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondTurn(c, game)
}

// handleState returns the full game document. Hands are included; the
// API trusts its identity collaborator, and filtering per viewer is a
// presentation concern out of scope here.
func (s *Server) handleState(c *gin.Context) {
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.reject(c, http.StatusBadRequest, "malformed game id")
		return
	}
	game, err := s.store.GetGame(c.Request.Context(), gameID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// bind parses the request envelope and validates the player token.
func (s *Server) bind(c *gin.Context) (Request, bool) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.reject(c, http.StatusBadRequest, "malformed request")
		return Request{}, false
	}
	if len(req.Player) < minIdentityLen {
		s.reject(c, http.StatusBadRequest, "player name must be six characters")
		return Request{}, false
	}
	return req, true
}

// gameID parses the envelope's game field.
func (s *Server) gameID(c *gin.Context, req Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(req.Game)
	if err != nil {
		s.reject(c, http.StatusBadRequest, "malformed game id")
		return uuid.Nil, false
	}
	return id, true
}

// seatOf rejects requests from identities not seated at the game.
func (s *Server) seatOf(g *engine.Game, identity string) (engine.Seat, error) {
	for i, p := range g.Players {
		if p.ID == identity {
			return engine.Seat(i), nil
		}
	}
	return 0, engine.ErrUnknownPlayer
}

// respondTurn reports whose move it is after a successful mutation, or
// the game status when no round is accepting actions.
func (s *Server) respondTurn(c *gin.Context, game *engine.Game) {
	seat, err := game.CurrentTurnSeat()
	if err != nil {
		s.succeed(c, game.Status().String())
		return
	}
	s.succeed(c, game.Players[seat].ID)
}

func (s *Server) succeed(c *gin.Context, data string) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

func (s *Server) reject(c *gin.Context, code int, msg string) {
	c.JSON(code, Response{Status: "failure", Data: msg})
}

// fail maps engine and store errors onto HTTP statuses while keeping
// the failure envelope the clients parse.
func (s *Server) fail(c *gin.Context, err error) {
	code := http.StatusConflict
	switch {
	case errors.Is(err, store.ErrGameNotFound):
		code = http.StatusNotFound
	case errors.Is(err, store.ErrGameBusy):
		code = http.StatusServiceUnavailable
	case errors.Is(err, engine.ErrInvalidCall),
		errors.Is(err, engine.ErrCardNotInHand):
		code = http.StatusBadRequest
	}
	if code >= http.StatusInternalServerError {
		s.log.WithError(err).Warn("request failed")
	}
	s.reject(c, code, err.Error())
}
