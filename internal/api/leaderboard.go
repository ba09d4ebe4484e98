package api

import (
	"net/http"
	"strconv"

	"github.com/abhisek/fido/internal/feedback"
	"github.com/gin-gonic/gin"
)

type redeemRequest struct {
	RewardID string `json:"reward_id" binding:"required"`
}

type profileView struct {
	ID           string `json:"id"`
	Earned       int64  `json:"earned"`
	Balance      int64  `json:"balance"`
	Tier         string `json:"tier"`
	PointsToNext *int64 `json:"points_to_next,omitempty"`
	NextTier     string `json:"next_tier,omitempty"`
}

func (s *Server) leaderboard(c *gin.Context) {
	standings, err := s.deps.Leaderboard.Leaderboard(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"standings": standings})
}

func (s *Server) rewards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rewards": s.deps.Leaderboard.Rewards()})
}

func (s *Server) profile(c *gin.Context) {
	p, err := s.deps.Leaderboard.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	tiers := s.deps.Leaderboard.Tiers()
	v := profileView{
		ID:      p.ID,
		Earned:  p.Earned,
		Balance: p.Balance,
		Tier:    tiers.TierFor(p.Earned).Label(),
	}
	if need, next, ok := tiers.PointsToNext(p.Earned); ok {
		v.PointsToNext = &need
		v.NextTier = next.Title
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	r, err := s.deps.Leaderboard.Redeem(c.Request.Context(), c.Param("id"), req.RewardID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) listFeedback(c *gin.Context) {
	if s.deps.Feedback == nil {
		c.JSON(http.StatusOK, gin.H{"records": []feedback.Record{}})
		return
	}
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	recs, err := feedback.ListRecords(c.Request.Context(), s.deps.Feedback, c.Query("target"), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": recs})
}
