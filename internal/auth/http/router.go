package http

import (
	"net/http"

	"github.com/AlibekovAA/user-auth/internal/auth/service"
	authdto "github.com/AlibekovAA/user-auth/internal/auth/service/dto"
	"github.com/AlibekovAA/user-auth/internal/auth/service/mapper"
	"github.com/AlibekovAA/user-auth/internal/common/config"
	commonerrors "github.com/AlibekovAA/user-auth/internal/common/errors"
	commonhttp "github.com/AlibekovAA/user-auth/internal/common/http"
	"github.com/AlibekovAA/user-auth/internal/common/jwtverify"
	"github.com/AlibekovAA/user-auth/internal/common/logger"
)

type registerResponse struct {
	Saved   authdto.User `json:"saved"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
}

type loginResponse struct {
	User    authdto.User `json:"user"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
}

type meResponse struct {
	Subject  string `json:"subject"`
	Username string `json:"username"`
}

type Handler struct {
	auth         *service.AuthService
	errorHandler *commonhttp.ErrorHandler
	exposeHash   bool
	log          *logger.Logger
}

func NewHandler(auth *service.AuthService, cfg config.AuthConfig, verifier *jwtverify.Verifier, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:         auth,
		errorHandler: commonhttp.NewErrorHandler(log),
		exposeHash:   cfg.ExposePasswordHash,
		log:          log,
	}

	post := commonhttp.RequireMethod(http.MethodPost)
	get := commonhttp.RequireMethod(http.MethodGet)
	timeout := commonhttp.WithTimeout(cfg.RequestTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.HandleFunc("/api/auth/register", post(timeout(h.register)))
	mux.HandleFunc("/api/auth/login", post(timeout(h.login)))
	mux.Handle("/api/users/me", jwtverify.Middleware(verifier, log)(get(h.me)))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	body, ok := h.decodeBody(w, r, "register")
	if !ok {
		return
	}

	username, password := credentialsFrom(body)
	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: username,
		Password: password,
		Profile:  body,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, registerResponse{
		Saved:   mapper.UserToDTO(result.User, h.exposeHash),
		Message: result.User.Username,
		Token:   result.Token,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	body, ok := h.decodeBody(w, r, "login")
	if !ok {
		return
	}

	username, password := credentialsFrom(body)
	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		User:    mapper.UserToDTO(result.User, h.exposeHash),
		Message: result.User.Username,
		Token:   result.Token,
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, commonerrors.ErrInvalidToken)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, meResponse{Subject: claims.UserID, Username: claims.Username})
}

// decodeBody reads a JSON object. An empty body counts as {}.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, action string) (map[string]any, bool) {
	var body map[string]any
	if err := commonhttp.DecodeJSON(r, &body); err != nil {
		if _, ok := commonhttp.AsMaxBytesError(err); ok {
			h.errorHandler.HandleError(w, r, err)
			return nil, false
		}
		h.log.WithFields(r.Context(), logger.Fields{
			"action": action + "_invalid_json",
		}).Warnf("%s failed: invalid json: %v", action, err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, commonhttp.TraceIDFromContext(r.Context()))
		return nil, false
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, true
}

// credentialsFrom treats non-string values as missing.
func credentialsFrom(body map[string]any) (string, string) {
	username, _ := body["username"].(string)
	password, _ := body["password"].(string)
	return username, password
}
