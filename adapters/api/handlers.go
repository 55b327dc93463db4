package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"luckystat/domain/lotto"
	"luckystat/domain/week"
	"luckystat/internal/errors"
	"luckystat/internal/report"
	"luckystat/models"

	"github.com/gin-gonic/gin"
)

// WeekResponse describes the week containing an instant and the countdown to
// the next boundary
type WeekResponse struct {
	Key            string    `json:"key"`
	Year           int       `json:"year"`
	Number         int       `json:"week_number"`
	Seed           week.Seed `json:"seed"`
	Boundary       time.Time `json:"boundary"`
	BoundaryLabel  string    `json:"boundary_label"`
	NextBoundary   time.Time `json:"next_boundary"`
	NextLabel      string    `json:"next_label"`
	RemainingSecs  int64     `json:"remaining_seconds"`
	RemainingLabel string    `json:"remaining_label"`
}

// RanksResponse is a stored generation graded against a draw
type RanksResponse struct {
	Week  string            `json:"week"`
	Draw  lotto.Draw        `json:"draw"`
	Ranks []lotto.RankedSet `json:"ranks"`
}

type previewRequest struct {
	At string `json:"at"`
}

// parseInstant reads an RFC 3339 instant, defaulting to now when raw is empty
func (s *Server) parseInstant(raw string) (time.Time, error) {
	if raw == "" {
		return s.clock.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.InvalidInput(fmt.Sprintf("at must be an RFC 3339 time: %q", raw))
	}
	return t, nil
}

func (s *Server) getWeek(c *gin.Context) {
	now, err := s.parseInstant(c.Query("at"))
	if err != nil {
		respondError(c, err)
		return
	}
	id := week.Current(now)
	next := week.NextBoundary(now)
	remaining := week.Remaining(now)
	c.JSON(http.StatusOK, WeekResponse{
		Key:            id.Key(),
		Year:           id.Year,
		Number:         id.Number,
		Seed:           week.SeedFor(id),
		Boundary:       id.Boundary,
		BoundaryLabel:  week.FormatBoundary(id.Boundary),
		NextBoundary:   next,
		NextLabel:      week.FormatBoundary(next),
		RemainingSecs:  int64(remaining / time.Second),
		RemainingLabel: week.FormatRemaining(remaining),
	})
}

func (s *Server) getCurrent(c *gin.Context) {
	rec, err := s.services.Generation.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) getLastWeek(c *gin.Context) {
	rec, err := s.services.Generation.LastWeek(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// lookupDraw resolves ?round=, the latest known draw when absent
func (s *Server) lookupDraw(c *gin.Context) (lotto.Draw, error) {
	round := 0
	if raw := c.Query("round"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return lotto.Draw{}, errors.InvalidInput(fmt.Sprintf("round must be a positive integer: %q", raw))
		}
		round = n
	}
	return s.services.Stats.Draw(round)
}

func (s *Server) getRanks(lastWeek bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		draw, err := s.lookupDraw(c)
		if err != nil {
			respondError(c, err)
			return
		}
		rec, ranks, err := s.services.Generation.Grade(c.Request.Context(), lastWeek, draw)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, RanksResponse{Week: rec.Week.Key(), Draw: draw, Ranks: ranks})
	}
}

func (s *Server) getCurrentSheet(c *gin.Context) {
	rec, err := s.services.Generation.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	sheet := report.Sheet{Record: *rec}
	if c.Query("round") != "" {
		draw, err := s.lookupDraw(c)
		if err != nil {
			respondError(c, err)
			return
		}
		sheet.Draw = &draw
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", sheet.HTML())
}

func (s *Server) postPreview(c *gin.Context) {
	var req previewRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, errors.InvalidInput("invalid preview request: "+err.Error()))
			return
		}
	}
	at, err := s.parseInstant(req.At)
	if err != nil {
		respondError(c, err)
		return
	}
	gen, err := s.services.Generation.Preview(c.Request.Context(), at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gen)
}

func (s *Server) getStats(c *gin.Context) {
	rep, err := s.services.Stats.Report(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) postDraw(c *gin.Context) {
	var draw lotto.Draw
	if err := c.ShouldBindJSON(&draw); err != nil {
		respondError(c, errors.InvalidInput("invalid draw: "+err.Error()))
		return
	}
	snap, err := s.services.Stats.RecordDraw(c.Request.Context(), draw)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (s *Server) getDraws(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"draws": s.services.Stats.Draws()})
}

func (s *Server) getExport(c *gin.Context) {
	raw, err := s.services.Transfer.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("luckystat-%s.json", s.clock.Now().In(week.Zone).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", raw)
}

func (s *Server) postImport(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		respondError(c, errors.InvalidInput("read bundle: "+err.Error()))
		return
	}
	if len(raw) > maxImportBytes {
		respondError(c, errors.InvalidInput("bundle is too large"))
		return
	}
	b, err := s.services.Transfer.Import(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":     b.Stats,
		"current":   weekKey(b.Current),
		"last_week": weekKey(b.LastWeek),
	})
}

func weekKey(rec *models.ResultRecord) *string {
	if rec == nil {
		return nil
	}
	key := rec.Week.Key()
	return &key
}
