package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/calcstate"
	"github.com/rustyeddy/tradejournal/market"
	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/rustyeddy/tradejournal/pkg/id"
	"github.com/rustyeddy/tradejournal/risk"
)

const sessionCookie = "tj_session"

// session returns the calculator session key, issuing a cookie on first
// contact.
func (s *Server) session(c *gin.Context) string {
	if v, err := c.Cookie(sessionCookie); err == nil {
		if _, err := id.Time(v); err == nil {
			return v
		}
	}
	key := s.ids.New()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, key, 0, "/", "", s.opts.SecureCookie, true)
	return key
}

func (s *Server) listInstruments(c *gin.Context) {
	who := identity(c)
	c.JSON(http.StatusOK, gin.H{
		"instruments": s.catalog.InstrumentSet(who),
		"extended":    s.catalog.IsPrivileged(who),
	})
}

// blankNumbers are the sizing fields a half-filled form may send as "".
var blankNumbers = []string{"balance", "riskPercent", "riskAmountFixed", "stopLoss", "rewardRatio"}

// bindSizing decodes a sizing body over in. Blank numeric fields count as
// zero.
func bindSizing(c *gin.Context, in *risk.SizingInput) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for _, k := range blankNumbers {
		if v, ok := fields[k]; ok && bytes.Equal(bytes.TrimSpace(v), []byte(`""`)) {
			fields[k] = json.RawMessage("0")
		}
	}
	if raw, err = json.Marshal(fields); err != nil {
		return err
	}
	return json.Unmarshal(raw, in)
}

func (s *Server) computeSizing(c *gin.Context) {
	in := risk.DefaultSizingInput()
	if err := bindSizing(c, &in); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid JSON")
		return
	}

	mode, err := risk.ParseMode(string(in.Mode))
	if in.Mode == "" {
		mode, err = risk.ModePercent, nil
	}
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	in.Mode = mode
	in.Pair = strings.TrimSpace(in.Pair)
	if !s.catalog.Allows(identity(c), in.Pair) {
		abortWithError(c, http.StatusBadRequest, "instrument "+in.Pair+" is not available")
		return
	}

	res := risk.ComputeSizing(in)
	metrics.RecordSizing(in.Pair, res.LotClass.String())

	if err := s.calc.Save(c.Request.Context(), s.session(c), in); err != nil {
		s.log.Warn("save calculator state", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"input": in, "result": res})
}

// getSizingState restores the last input, or the defaults. A cache outage
// degrades to the defaults.
func (s *Server) getSizingState(c *gin.Context) {
	in, ok, err := calcstate.Restore(c.Request.Context(), s.calc, s.session(c))
	if err != nil {
		s.log.Warn("load calculator state", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"input": in, "restored": ok})
}

func (s *Server) clearSizingState(c *gin.Context) {
	if err := s.calc.Clear(c.Request.Context(), s.session(c)); err != nil {
		s.log.Warn("clear calculator state", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

type pnlRequest struct {
	Pair     string   `json:"pair"`
	Type     string   `json:"type"`
	Size     float64  `json:"size"`
	Entry    float64  `json:"entry"`
	Exit     float64  `json:"exit"`
	StopLoss *float64 `json:"stop_loss"`
}

// previewPnL answers what the journal form would compute. Fields the
// engine cannot fill come back null. rewardRisk treats the exit as the
// target.
func (s *Server) previewPnL(c *gin.Context) {
	var req pnlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid JSON")
		return
	}
	dir, err := market.ParseDirection(req.Type)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "type must be BUY or SELL")
		return
	}
	pair := strings.TrimSpace(req.Pair)
	if !s.catalog.Allows(identity(c), pair) {
		abortWithError(c, http.StatusBadRequest, "instrument "+pair+" is not available")
		return
	}

	inst := market.Resolve(pair)
	resp := gin.H{"pnl": nil, "plannedRisk": nil, "rMultiple": nil, "rewardRisk": nil}

	pnl, ok := risk.ComputePnL(dir, req.Size, req.Entry, req.Exit, inst)
	metrics.RecordPnL(ok)
	if ok {
		resp["pnl"] = pnl
	}
	if req.StopLoss != nil {
		if planned, pok := risk.PlannedRisk(req.Size, req.Entry, *req.StopLoss, inst); pok && planned > 0 {
			resp["plannedRisk"] = planned
			resp["rewardRisk"] = risk.RR(req.Entry, *req.StopLoss, req.Exit)
			if ok {
				resp["rMultiple"] = risk.RMultiple(pnl, planned)
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
