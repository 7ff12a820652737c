package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/interfaces"
	"github.com/bobmcallan/quantdash/internal/models"
)

const tokenIssuer = "quantdash-server"

// --- JWT helpers ---

// signJWT creates a signed HMAC-SHA256 JWT for the given user.
func signJWT(user *models.User, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti":   uuid.New().String(),
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"iss":   tokenIssuer,
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, nil, err
	}
	return token, claims, nil
}

// --- Handlers ---

type credentialsRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	result, err := s.app.Authenticator.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	s.writeAuthResult(w, result, err)
}

func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	result, err := s.app.Authenticator.Register(r.Context(), strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), req.Password)
	s.writeAuthResult(w, result, err)
}

// writeAuthResult replaces the authenticator's credential with a server-signed JWT.
func (s *Server) writeAuthResult(w http.ResponseWriter, result *models.AuthResult, err error) {
	if errors.Is(err, interfaces.ErrInvalidCredentials) {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Authentication failed")
		WriteError(w, http.StatusBadGateway, "authentication unavailable")
		return
	}

	token, err := signJWT(&result.User, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign token")
		WriteError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.logger.Info().Str("user_id", result.User.ID).Msg("User authenticated")
	WriteJSON(w, http.StatusOK, models.AuthResult{User: result.User, Token: token})
}

// handleAuthValidate returns the user carried by the bearer credential.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	uc := common.UserContextFromContext(r.Context())
	if uc == nil {
		WriteError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	WriteJSON(w, http.StatusOK, models.User{ID: uc.UserID, Name: uc.Name, Email: uc.Email})
}
