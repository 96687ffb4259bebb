package core

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
)

// NasAction is a request type understood by the /ac endpoint.
type NasAction string

const (
	NasActionLogin           NasAction = "login"
	NasActionAccountCreate   NasAction = "acctcreate"
	NasActionServiceLocation NasAction = "SVCLOC"
)

const gameSpyLocator = "gamespy.com"

var (
	// ErrUnknownAction is returned for an action outside the supported set.
	ErrUnknownAction = errors.New("unknown nas action")
	// ErrUnknownServiceType is returned for a service type outside the location table.
	ErrUnknownServiceType = errors.New("unknown service type")
)

// ParseNasAction maps the wire tag onto a NasAction by exact match.
func ParseNasAction(s string) (NasAction, error) {
	switch a := NasAction(s); a {
	case NasActionLogin, NasActionAccountCreate, NasActionServiceLocation:
		return a, nil
	}
	return "", oops.Code("NAS_UNKNOWN_ACTION").With("action", s).Wrap(ErrUnknownAction)
}

type serviceLocation struct {
	host  string
	label string
}

// serviceLocations is the complete service type table.
var serviceLocations = map[string]serviceLocation{
	"0000": {host: "external", label: "PGL"},
	"9000": {host: "dls1.nintendowifi.net", label: "DLS1"},
}

// UserRegistry is the identity surface used by the NAS handlers.
type UserRegistry interface {
	Exists(ctx context.Context, id string) (bool, error)
	Register(ctx context.Context, id, password string) (User, error)
	Authenticate(ctx context.Context, id, password string) (User, error)
}

type nasHandlerFunc func(ctx context.Context, req NasRequest) (NasResponse, error)

// NasHandler routes /ac requests to per-action handlers and encodes the outcome.
type NasHandler struct {
	registry          UserRegistry
	issuer            *CredentialIssuer
	metrics           *Metrics
	logger            *slog.Logger
	allowRegistration bool
	redactIDs         bool
	now               func() time.Time
	handlers          map[NasAction]nasHandlerFunc
}

func NewNasHandler(cfg Config, registry UserRegistry, issuer *CredentialIssuer, metrics *Metrics, logger *slog.Logger) *NasHandler {
	h := &NasHandler{
		registry:          registry,
		issuer:            issuer,
		metrics:           metrics,
		logger:            logger,
		allowRegistration: cfg.AllowRegistrationThroughLogin,
		redactIDs:         !cfg.LogSensitiveInfo,
		now:               time.Now,
	}
	h.handlers = map[NasAction]nasHandlerFunc{
		NasActionLogin:           h.login,
		NasActionAccountCreate:   h.createAccount,
		NasActionServiceLocation: h.serviceLocation,
	}
	return h
}

// Handle is the gin handler for POST /ac.
func (h *NasHandler) Handle(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "unreadable request body")
		return
	}
	req, err := DecodeNasForm(string(body))
	if err != nil {
		h.logger.Debug("rejecting malformed NAS request", "error", err)
		h.write(c, "malformed", NasStatusResponse{Code: NasReturnBadRequest})
		return
	}

	resp, err := h.Dispatch(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("unhandled NAS request", "action", req.Action, "svc", req.ServiceType, "error", err)
		h.metrics.NasRequests.WithLabelValues(metricAction(req.Action), "unhandled").Inc()
		c.String(http.StatusBadRequest, "unhandled request")
		return
	}
	h.write(c, metricAction(req.Action), resp)
}

func (h *NasHandler) write(c *gin.Context, action string, resp NasResponse) {
	h.metrics.NasRequests.WithLabelValues(action, string(resp.ReturnCode())).Inc()
	c.Data(http.StatusOK, "text/plain", []byte(EncodeNasForm(resp, h.now())))
}

func metricAction(action string) string {
	if _, err := ParseNasAction(action); err != nil {
		return "unknown"
	}
	return action
}

// Dispatch resolves the handler for req.Action and runs it. The only errors
// returned are caller contract violations: ErrUnknownAction and
// ErrUnknownServiceType. Every other outcome is a NasResponse.
func (h *NasHandler) Dispatch(ctx context.Context, req NasRequest) (NasResponse, error) {
	action, err := ParseNasAction(req.Action)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("received NAS request", "action", action)
	return h.handlers[action](ctx, req)
}

func (h *NasHandler) login(ctx context.Context, req NasRequest) (NasResponse, error) {
	if req.BranchCode == "" {
		h.logger.Debug("rejecting NAS login request because no branch code is present")
		return NasStatusResponse{Code: NasReturnBadRequest}, nil
	}

	user, err := h.registry.Authenticate(ctx, req.UserID, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCredentials):
		if !h.allowRegistration {
			return NasStatusResponse{Code: NasReturnUserNotFound}, nil
		}
		user, err = h.registerThroughLogin(ctx, req)
		if err != nil {
			// Reported to the client as a missing user regardless of cause.
			h.logger.Warn("registration through login failed", "user", h.formatID(req.UserID), "error", err)
			return NasStatusResponse{Code: NasReturnUserNotFound}, nil
		}
		h.logger.Info("created account", "user", user.FormattedID(h.redactIDs))
	default:
		h.logger.Error("authentication failed", "user", h.formatID(req.UserID), "error", err)
		return NasStatusResponse{Code: NasReturnInternalServerError}, nil
	}

	cred := h.issuer.CreateServiceSession(user, GameSpyService, req.BranchCode)
	h.logger.Info("created GameSpy session", "user", user.FormattedID(h.redactIDs))
	return NasLoginResponse{Locator: gameSpyLocator, Token: cred.AuthToken, Challenge: cred.Challenge}, nil
}

func (h *NasHandler) registerThroughLogin(ctx context.Context, req NasRequest) (User, error) {
	if !IsValidUserID(req.UserID) {
		return User{}, ErrInvalidUserID
	}
	exists, err := h.registry.Exists(ctx, req.UserID)
	if err != nil {
		return User{}, err
	}
	if exists {
		return User{}, ErrUserExists
	}
	if _, err := h.registry.Register(ctx, req.UserID, req.Password); err != nil {
		return User{}, err
	}
	return h.registry.Authenticate(ctx, req.UserID, req.Password)
}

func (h *NasHandler) createAccount(ctx context.Context, req NasRequest) (NasResponse, error) {
	if !IsValidUserID(req.UserID) {
		return NasStatusResponse{Code: NasReturnUserAlreadyExists}, nil
	}
	exists, err := h.registry.Exists(ctx, req.UserID)
	if err != nil {
		h.logger.Error("user lookup failed", "user", h.formatID(req.UserID), "error", err)
		return NasStatusResponse{Code: NasReturnInternalServerError}, nil
	}
	if exists {
		return NasStatusResponse{Code: NasReturnUserAlreadyExists}, nil
	}

	user, err := h.registry.Register(ctx, req.UserID, req.Password)
	if errors.Is(err, ErrUserExists) {
		return NasStatusResponse{Code: NasReturnUserAlreadyExists}, nil
	}
	if errors.Is(err, ErrInvalidPassword) {
		h.logger.Debug("rejecting account with unusable password", "user", h.formatID(req.UserID))
		return NasStatusResponse{Code: NasReturnBadRequest}, nil
	}
	if err != nil {
		h.logger.Error("registration failed", "user", h.formatID(req.UserID), "error", err)
		return NasStatusResponse{Code: NasReturnInternalServerError}, nil
	}

	h.logger.Info("created account", "user", user.FormattedID(h.redactIDs))
	return NasStatusResponse{Code: NasReturnRegistrationSuccess}, nil
}

func (h *NasHandler) serviceLocation(ctx context.Context, req NasRequest) (NasResponse, error) {
	user, err := h.registry.Authenticate(ctx, req.UserID, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return NasStatusResponse{Code: NasReturnUserNotFound}, nil
	}
	if err != nil {
		h.logger.Error("authentication failed", "user", h.formatID(req.UserID), "error", err)
		return NasStatusResponse{Code: NasReturnInternalServerError}, nil
	}

	loc, ok := serviceLocations[req.ServiceType]
	if !ok {
		return nil, oops.Code("NAS_UNKNOWN_SERVICE_TYPE").With("svc", req.ServiceType).Wrap(ErrUnknownServiceType)
	}

	cred := h.issuer.CreateServiceSession(user, loc.host, "")
	h.logger.Info("created service session", "service", loc.label, "user", user.FormattedID(h.redactIDs))
	return NasServiceLocationResponse{StatusData: true, ServiceHost: loc.host, Token: cred.AuthToken}, nil
}

func (h *NasHandler) formatID(id string) string {
	return User{ID: id}.FormattedID(h.redactIDs)
}
