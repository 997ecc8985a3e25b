// Package accountapi serves one account session over HTTP for a browser UI.
package accountapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MarkoPoloResearchLab/bankaccount/internal/accountlog"
	"github.com/MarkoPoloResearchLab/bankaccount/pkg/account"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	errorCodeInvalidPayload = "invalid_payload"
	errorCodeUnknownAction  = "unknown_action"
	errorCodeInvalidAmount  = "invalid_amount"
	errorCodeCancelled      = "cancelled"
)

// Run boots the HTTP server and blocks until ctx is done or serving fails.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	session, err := account.NewSession(
		account.WithRules(cfg.Rules()),
		account.WithOperationLogger(accountlog.NewZapLogger(logger)),
	)
	if err != nil {
		return fmt.Errorf("session init: %w", err)
	}

	handler := &httpHandler{
		logger:  logger,
		session: session,
	}
	router := setupRouter(cfg, handler)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("account api listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("session_id", session.ID()),
			zap.String("rules", cfg.RulesName),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func setupRouter(cfg Config, handler *httpHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Origin", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/account", handler.handleAccount)
	api.POST("/actions", handler.handleAction)

	return router
}

type httpHandler struct {
	logger  *zap.Logger
	session *account.Session
}

func (handler *httpHandler) handleAccount(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, accountEnvelope{
		SessionID: handler.session.ID(),
		Account:   handler.session.State(),
	})
}

func (handler *httpHandler) handleAction(ctx *gin.Context) {
	var action account.Action
	if err := ctx.ShouldBindJSON(&action); err != nil {
		code, message := classifyBindError(err)
		ctx.JSON(http.StatusBadRequest, errorResponse(code, message))
		return
	}

	entry, err := handler.session.Apply(ctx.Request.Context(), action)
	if err != nil {
		handler.logger.Warn("dispatch aborted", zap.String("action", action.Kind.String()), zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, errorResponse(errorCodeCancelled, "request cancelled"))
		return
	}
	ctx.JSON(http.StatusOK, actionEnvelope{
		SessionID: handler.session.ID(),
		Status:    entry.Status,
		Account:   entry.After,
	})
}

func classifyBindError(err error) (string, string) {
	switch {
	case errors.Is(err, account.ErrUnknownActionKind):
		return errorCodeUnknownAction, err.Error()
	case errors.Is(err, account.ErrInvalidAmount):
		return errorCodeInvalidAmount, err.Error()
	}
	return errorCodeInvalidPayload, "expected JSON action body"
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}
