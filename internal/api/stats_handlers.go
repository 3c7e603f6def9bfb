package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/hackjury/jury-engine/internal/store"
)

// adminStatsResponse aggregates the figures an admin dashboard needs,
// derived entirely from P (spec.md §6: "GET /api/admin/stats ... return
// aggregates derived from P"). Grounded on original_source/src/db/judge.rs
// and project.rs's aggregate_*_stats functions, computed here in Go rather
// than via a driver-side aggregation pipeline, since the full collections
// are already small enough to scan in-process for an expo-scale event.
type adminStatsResponse struct {
	NumProjects       int     `json:"num_projects"`
	NumActiveProjects int     `json:"num_active_projects"`
	NumJudges         int     `json:"num_judges"`
	NumActiveJudges   int     `json:"num_active_judges"`
	TotalVotes        int64   `json:"total_votes"`
	AvgSeen           float64 `json:"avg_seen"`
}

func (h *Handler) adminStats(c *gin.Context) {
	projects, err := h.store.FindAllProjects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load project stats"})
		return
	}
	judges, err := h.store.FindAllJudges(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load judge stats"})
		return
	}

	resp := adminStatsResponse{NumProjects: len(projects), NumJudges: len(judges)}
	var totalSeen int64
	for _, p := range projects {
		if p.Active {
			resp.NumActiveProjects++
		}
		resp.TotalVotes += p.Votes
		totalSeen += p.Seen
	}
	for _, j := range judges {
		if j.Active {
			resp.NumActiveJudges++
		}
	}
	if len(projects) > 0 {
		resp.AvgSeen = float64(totalSeen) / float64(len(projects))
	}

	c.JSON(http.StatusOK, resp)
}

// judgeStatsResponse aggregates judge-side figures for the admin console,
// grounded on original_source/src/util/types.rs's JudgeStats (num,
// avg_votes, num_active) and its admin-password-guarded
// original_source/src/api/judge.rs judge_stats handler.
type judgeStatsResponse struct {
	Num       int     `json:"num"`
	AvgVotes  float64 `json:"avg_votes"`
	NumActive int     `json:"num_active"`
}

// judgeStats backs GET /api/judge/stats (spec.md §6).
func (h *Handler) judgeStats(c *gin.Context) {
	judges, err := h.store.FindAllJudges(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load judge stats"})
		return
	}

	resp := judgeStatsResponse{Num: len(judges)}
	var totalVotes int64
	for _, j := range judges {
		if j.Active {
			resp.NumActive++
		}
		totalVotes += j.Votes
	}
	if len(judges) > 0 {
		resp.AvgVotes = float64(totalVotes) / float64(len(judges))
	}

	c.JSON(http.StatusOK, resp)
}

// projectStatsResponse is the public leaderboard view: rank-ordered by
// skill posterior mean, with only display-safe fields exposed.
type projectStatsResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Location int     `json:"location"`
	Mu       float64 `json:"mu"`
	Seen     int64   `json:"seen"`
	Votes    int64   `json:"votes"`
}

// projectStats returns every active project ranked by posterior mean
// descending, for GET /api/project/stats (spec.md §6).
func (h *Handler) projectStats(c *gin.Context) {
	projects, err := h.store.FindAllActiveProjects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load project stats"})
		return
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Mu > projects[j].Mu })

	resp := make([]projectStatsResponse, len(projects))
	for i, p := range projects {
		resp[i] = projectStatsResponse{
			ID:       p.ID.Hex(),
			Name:     p.Name,
			Location: p.Location,
			Mu:       p.Mu,
			Seen:     p.Seen,
			Votes:    p.Votes,
		}
	}
	c.JSON(http.StatusOK, resp)
}
