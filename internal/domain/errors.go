package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNoPrivateKey       = errors.New("no private key configured")
	ErrInvalidTradeAmount = errors.New("trade amount must not be negative")
	ErrNoLiveTrades       = errors.New("no live trades to analyze")
	ErrTokenNotFound      = errors.New("token not found")
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrWalletConnecting   = errors.New("wallet connection already in progress")
	ErrUnknownService     = errors.New("unknown api service")
	ErrUnknownEventType   = errors.New("unknown event type")
	ErrLoopClosed         = errors.New("event loop closed")
)

// ServiceError reports a failed text generation request
type ServiceError struct {
	StatusCode int // 0 when the request never got a response
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("text generation failed: status=%d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("text generation failed: %s: %v", e.Message, e.Err)
	}
	return "text generation failed: " + e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
