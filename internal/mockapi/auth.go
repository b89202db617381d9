package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginData struct {
	Token string `json:"token"`
}

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !strings.EqualFold(req.Email, s.opts.AdminEmail) || req.Password != s.opts.AdminPassword {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.mintToken(req.Email)
	if err != nil {
		s.logger.Error("sign token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not sign token")
		return
	}
	writeData(w, "Login successful", loginData{Token: token})
}

// MintToken signs an admin token the way login does. Tests use it to skip
// the login round trip.
func (s *Server) MintToken() (string, error) {
	return s.mintToken(s.opts.AdminEmail)
}

func (s *Server) mintToken(email string) (string, error) {
	now := s.opts.Now()
	claims := adminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		claims := &adminClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(s.opts.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.Now))
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			writeError(w, http.StatusUnauthorized, "Token expired")
			return
		case err != nil:
			writeError(w, http.StatusUnauthorized, "Token is not valid")
			return
		}
		if claims.Role != "admin" {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
