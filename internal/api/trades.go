package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/market"
)

// tradeRequest is the body for create and full replace. A pnl value is
// taken as a manual override; leave it out to have it computed. Binding
// checks shape only; journal.Service owns the trade rules.
type tradeRequest struct {
	Pair     string   `json:"pair" binding:"required"`
	Type     string   `json:"type" binding:"required"`
	Size     float64  `json:"size" binding:"required,gt=0"`
	Entry    float64  `json:"entry" binding:"required,gt=0"`
	Exit     float64  `json:"exit" binding:"required,gt=0"`
	StopLoss *float64 `json:"stop_loss" binding:"omitempty,gt=0"`
	PnL      *float64 `json:"pnl"`
	Date     string   `json:"date" binding:"required"`
	Comments string   `json:"comments"`
}

func (r tradeRequest) draft() journal.Draft {
	d := journal.Draft{
		Pair:      r.Pair,
		Direction: market.Direction(r.Type),
		Size:      r.Size,
		Entry:     r.Entry,
		Exit:      r.Exit,
		StopLoss:  r.StopLoss,
		Date:      r.Date,
		Comment:   r.Comments,
	}
	if dir, err := market.ParseDirection(r.Type); err == nil {
		d.Direction = dir
	}
	d.Recalculate()
	if r.PnL != nil {
		d.PnL.Override(*r.PnL)
	}
	return d
}

func queryFrom(c *gin.Context) journal.Query {
	return journal.Query{
		Pair:      c.Query("pair"),
		Direction: c.Query("type"),
		From:      c.Query("from"),
		To:        c.Query("to"),
	}
}

func (s *Server) listTrades(c *gin.Context) {
	trades, err := s.journal.Find(c.Request.Context(), identity(c), queryFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades})
}

// respondWithList re-reads the caller's journal after a mutation so the
// client can replace its copy.
func (s *Server) respondWithList(c *gin.Context, status int, body gin.H) {
	trades, err := s.journal.List(c.Request.Context(), identity(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	body["trades"] = trades
	c.JSON(status, body)
}

func (s *Server) createTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.journal.Add(c.Request.Context(), identity(c), req.draft())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondWithList(c, http.StatusCreated, gin.H{"trade": t})
}

func (s *Server) getTrade(c *gin.Context) {
	t, err := s.journal.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade": t})
}

func (s *Server) updateTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.journal.Edit(c.Request.Context(), identity(c), c.Param("id"), req.draft())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondWithList(c, http.StatusOK, gin.H{"trade": t})
}

func (s *Server) deleteTrade(c *gin.Context) {
	id := c.Param("id")
	if err := s.journal.Remove(c.Request.Context(), identity(c), id); err != nil {
		s.fail(c, err)
		return
	}
	s.respondWithList(c, http.StatusOK, gin.H{"deleted": id})
}

func (s *Server) tradeStats(c *gin.Context) {
	st, err := s.journal.Stats(c.Request.Context(), identity(c), queryFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) exportTrades(c *gin.Context) {
	trades, err := s.journal.Find(c.Request.Context(), identity(c), queryFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format := c.DefaultQuery("format", "csv"); format {
	case "csv":
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="trades-%s.csv"`, stamp))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := journal.WriteCSV(c.Writer, trades); err != nil {
			_ = c.Error(err)
		}
	case "org":
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="trades-%s.org"`, stamp))
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(journal.FormatTradesOrg(trades)))
	default:
		abortWithError(c, http.StatusBadRequest, "format must be csv or org")
	}
}

func (s *Server) tradeReport(c *gin.Context) {
	rep, err := s.journal.Report(c.Request.Context(), identity(c), queryFrom(c), time.Now())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)
	if err := rep.WriteOrg(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
