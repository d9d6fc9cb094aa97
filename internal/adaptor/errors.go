package adaptor

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"sauvini-api/internal/usecase"
	"sauvini-api/pkg/utils"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings is checked in order; the first errors.Is match wins. An empty
// message means the error text is shown.
var errorMappings = []errorMapping{
	{usecase.ErrValidation, http.StatusBadRequest, "ValidationError", ""},
	{usecase.ErrWeakPassword, http.StatusBadRequest, "WeakPassword", "Password must be 8 to 72 bytes long and contain a letter and a digit"},
	{usecase.ErrExpiredCode, http.StatusBadRequest, "ExpiredCode", "The code has expired, request a new one"},
	{usecase.ErrInvalidCode, http.StatusBadRequest, "InvalidCode", "The code is invalid"},
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials", "Invalid email or password"},
	{usecase.ErrExpiredToken, http.StatusUnauthorized, "ExpiredToken", "Token has expired"},
	{usecase.ErrInvalidToken, http.StatusUnauthorized, "InvalidToken", "Invalid token"},
	{usecase.ErrAccountNotApproved, http.StatusForbidden, "AccountNotApproved", "Your account is awaiting admin approval or was rejected"},
	{usecase.ErrEmailNotVerified, http.StatusForbidden, "EmailNotVerified", "Please verify your email before logging in"},
	{usecase.ErrAccountDeactivated, http.StatusForbidden, "AccountDeactivated", "This account has been deactivated"},
	{usecase.ErrNotFound, http.StatusNotFound, "NotFound", ""},
	{usecase.ErrInvalidTransition, http.StatusConflict, "InvalidTransition", ""},
	{usecase.ErrAlreadyEnrolled, http.StatusConflict, "AlreadyEnrolled", "You are already enrolled in this module"},
	{usecase.ErrTooManyRequests, http.StatusTooManyRequests, "TooManyRequests", "Please wait before requesting another email"},
	{usecase.ErrEmailDelivery, http.StatusInternalServerError, "InternalError", "Failed to send email, try again later"},
}

// handleServiceError writes the response for an error returned by a service.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		log.Warn(operation+" validation failed", zap.Error(err))
		var fields any
		if len(verr.Fields) > 0 {
			fields = verr.Fields
		}
		utils.ResponseBadRequest(w, verr.Message, fields)
		return
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		if m.status >= http.StatusInternalServerError {
			log.Error(operation+" failed", zap.Error(err))
		} else {
			log.Warn(operation+" failed", zap.Error(err), zap.String("code", m.code))
		}

		message := m.message
		if message == "" {
			message = err.Error()
		}
		utils.ResponseError(w, m.status, m.code, message, nil)
		return
	}

	log.Error(operation+" failed - internal error", zap.Error(err))
	utils.ResponseInternalError(w, "Internal server error")
}
