package api

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hackjury/jury-engine/internal/store"
)

// maxCodeGenerationAttempts bounds the retry loop spec.md §7's Conflict
// taxonomy describes: "a uniqueness collision on code or location; [the
// write path] retries code generation up to a small bound."
const maxCodeGenerationAttempts = 5

type newJudgeRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// createJudge mints a judge with a fresh six-digit login code, retrying on
// a code collision up to maxCodeGenerationAttempts times before giving up,
// per spec.md §7.
func (h *Handler) createJudge(c *gin.Context) {
	var req newJudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var judge store.Judge
	for attempt := 0; attempt < maxCodeGenerationAttempts; attempt++ {
		code := randomSixDigitCode()
		if _, err := h.store.FindJudgeByCode(c.Request.Context(), code); err == nil {
			continue // collision: try again
		} else if !errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to check code uniqueness"})
			return
		}

		judge = store.NewJudge(code, req.Name, req.Email, req.Notes)
		inserted, err := h.store.InsertJudge(c.Request.Context(), judge)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to create judge"})
			return
		}
		c.JSON(http.StatusCreated, inserted)
		return
	}

	c.JSON(http.StatusConflict, gin.H{"error": "unable to generate a unique judge code"})
}

func randomSixDigitCode() string {
	return fmt.Sprintf("%06d", rand.IntN(1_000_000))
}

func (h *Handler) deleteJudge(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteJudge(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to delete judge"})
		return
	}
	c.Status(http.StatusOK)
}

type newProjectRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Links         []string `json:"links"`
	ChallengeTags []string `json:"challenge_tags"`
}

// createProject inserts a project, letting the store assign the next
// table location, per spec.md §3's "location values are unique ... and
// are issued in insertion order starting at 1."
func (h *Handler) createProject(c *gin.Context) {
	var req newProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p := store.NewProject(req.Name, req.Description, 0)
	p.Links = req.Links
	p.ChallengeTags = req.ChallengeTags

	inserted, err := h.store.InsertProject(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to create project"})
		return
	}
	c.JSON(http.StatusCreated, inserted)
}

func (h *Handler) deleteProject(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteProject(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to delete project"})
		return
	}
	c.Status(http.StatusOK)
}

func parseObjectID(c *gin.Context, param string) (store.ObjectID, bool) {
	id, err := store.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return store.ObjectID{}, false
	}
	return id, true
}
