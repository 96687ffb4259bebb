package core

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the Game Sync dashboard API.
type DashboardHandler struct {
	gate    *PlayerGate
	dlc     *DlcCatalog
	sprites *SpriteResolver
	metrics *Metrics
	logger  *slog.Logger
}

func NewDashboardHandler(gate *PlayerGate, dlc *DlcCatalog, sprites *SpriteResolver, metrics *Metrics, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{gate: gate, dlc: dlc, sprites: sprites, metrics: metrics, logger: logger}
}

// ProfileMessage is the body of GET /dashboard/profile.
type ProfileMessage struct {
	SpritePath string `json:"spritePath"`
	Profile    Player `json:"profile"`
}

// Register mounts the dashboard routes on g.
func (h *DashboardHandler) Register(g *gin.RouterGroup) {
	g.GET("/dlc", h.listDlc)
	g.GET("/profile", h.profile)
	g.POST("/profile", h.updateProfile)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
}

func (h *DashboardHandler) listDlc(c *gin.Context) {
	dlcType := c.Query("type")
	if dlcType == "" {
		c.JSON(http.StatusOK, []string{})
		return
	}
	c.JSON(http.StatusOK, h.dlc.Names(DashboardGameCode, dlcType))
}

func (h *DashboardHandler) login(c *gin.Context) {
	gsid := c.PostForm("gsid")
	_, err := h.gate.Open(c.Request.Context(), gsid)
	switch {
	case errors.Is(err, ErrInvalidGameSyncID):
		c.JSON(http.StatusOK, StatusMessage{Message: "Please enter a valid Game Sync ID.", Error: true})
		return
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusOK, StatusMessage{Message: "This Game Sync ID does not exist.", Error: true})
		return
	case errors.Is(err, ErrPlayerAwake):
		c.JSON(http.StatusOK, StatusMessage{Message: "Please use Game Sync to tuck in a Pokémon before proceeding.", Error: true})
		return
	case err != nil:
		h.logger.Error("dashboard login failed", "gsid", gsid, "error", err)
		respondError(c, http.StatusInternalServerError, "Something went wrong, please try again later.")
		return
	}

	session := currentSession(c)
	session.Values[sessionKeyGameSyncID] = gsid
	if err := session.Save(c.Request, c.Writer); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to set session")
		return
	}
	c.JSON(http.StatusOK, StatusMessage{Message: "ok"})
}

func (h *DashboardHandler) logout(c *gin.Context) {
	session := currentSession(c)
	delete(session.Values, sessionKeyGameSyncID)
	if err := session.Save(c.Request, c.Writer); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to clear session")
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *DashboardHandler) profile(c *gin.Context) {
	player, err := h.gate.Profile(c.Request.Context(), sessionGameSyncID(c))
	if err != nil {
		h.respondGateError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProfileMessage{SpritePath: h.sprites.Path(player.DreamerInfo), Profile: player})
}

func (h *DashboardHandler) updateProfile(c *gin.Context) {
	gsid := sessionGameSyncID(c)
	if gsid == "" {
		h.metrics.ProfileUpdates.WithLabelValues("unauthorized").Inc()
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.ProfileUpdates.WithLabelValues("malformed").Inc()
		respondError(c, http.StatusBadRequest, "Profile data was NOT saved: the request could not be read.")
		return
	}

	_, err := h.gate.UpdateProfile(c.Request.Context(), gsid, req)
	var verr *ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		h.metrics.ProfileUpdates.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusOK, StatusMessage{Message: "Profile data was NOT saved: " + verr.Reason, Error: true})
		return
	case errors.Is(err, ErrUnauthorized):
		h.metrics.ProfileUpdates.WithLabelValues("unauthorized").Inc()
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	default:
		h.metrics.ProfileUpdates.WithLabelValues("error").Inc()
		h.logger.Error("profile update failed", "gsid", gsid, "error", err)
		c.JSON(http.StatusOK, StatusMessage{Message: "Profile data could not be saved because of an error.", Error: true})
		return
	}

	h.metrics.ProfileUpdates.WithLabelValues("saved").Inc()
	h.logger.Info("profile updated", "gsid", gsid)
	c.JSON(http.StatusOK, StatusMessage{Message: "Your changes have been saved. Use Game Sync to wake up your Pokémon and download your selected content."})
}

func (h *DashboardHandler) respondGateError(c *gin.Context, err error) {
	if errors.Is(err, ErrUnauthorized) {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	h.logger.Error("profile lookup failed", "error", err)
	respondError(c, http.StatusInternalServerError, "Something went wrong, please try again later.")
}
