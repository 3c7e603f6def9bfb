package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hackjury/jury-engine/internal/vote"
)

// loginRequest is the body of POST /api/judge/login, matching
// original_source/src/api/request_types.rs's Login struct.
type loginRequest struct {
	Code string `json:"code" binding:"required"`
}

// judgeLogin exchanges a judge's six-digit code for a fresh session token,
// rotating any prior token per spec.md §3's judge lifecycle rule. Grounded
// on original_source/src/api/judge.rs's login handler, with the token
// generated by google/uuid rather than a hand-rolled alphanumeric sampler.
func (h *Handler) judgeLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	judge, err := h.store.FindJudgeByCode(c.Request.Context(), req.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized code"})
		return
	}

	token := uuid.NewString()
	if err := h.store.UpdateJudgeToken(c.Request.Context(), judge.Code, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to create token"})
		return
	}

	c.SetCookie("token", token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// getJudge returns the judge bound to the caller's token.
func (h *Handler) getJudge(c *gin.Context) {
	judge, ok := currentJudge(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	c.JSON(http.StatusOK, judge)
}

// authJudge just confirms the caller's token is still valid: JudgeAuth
// having let the request through is the entire check.
func (h *Handler) authJudge(c *gin.Context) {
	c.Status(http.StatusOK)
}

type voteRequest struct {
	CurrWinner bool `json:"curr_winner"`
}

type nextProjectResponse struct {
	JudgeID           string  `json:"judge_id"`
	PrevProjectID     *string `json:"prev_project_id,omitempty"`
	NextProjectID     *string `json:"next_project_id,omitempty"`
}

// judgeVote implements vote(judge_token, curr_winner) -> NextProject
// (spec.md §4.3), invoked from POST /api/judge/vote.
func (h *Handler) judgeVote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token := currentToken(c)
	result, err := h.coordinator.Vote(c.Request.Context(), token, req.CurrWinner)
	if err != nil {
		switch {
		case errors.Is(err, vote.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		case errors.Is(err, vote.ErrNumeric):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "vote aborted: non-finite posterior update"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to process vote"})
		}
		return
	}

	h.hub.Broadcast("stats")
	c.JSON(http.StatusOK, toNextProjectResponse(result))
}

func toNextProjectResponse(r vote.Result) nextProjectResponse {
	resp := nextProjectResponse{JudgeID: r.JudgeID.Hex()}
	if r.PrevProjectID != nil {
		id := r.PrevProjectID.Hex()
		resp.PrevProjectID = &id
	}
	if r.NextProjectID != nil {
		id := r.NextProjectID.Hex()
		resp.NextProjectID = &id
	}
	return resp
}

// checkReadWelcome returns whether the calling judge has already
// acknowledged the welcome message (spec.md §3's read_welcome latch).
func (h *Handler) checkReadWelcome(c *gin.Context) {
	judge, ok := currentJudge(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read_welcome": judge.ReadWelcome})
}

// readWelcome sets the latch, once, for the calling judge.
func (h *Handler) readWelcome(c *gin.Context) {
	token := currentToken(c)
	if err := h.store.SetReadWelcome(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to update welcome state"})
		return
	}
	c.Status(http.StatusAccepted)
}
