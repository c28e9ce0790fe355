package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/todo-backend/internal/auth"
	"github.com/example/todo-backend/internal/domain"
	"github.com/example/todo-backend/internal/platform/api"
	"github.com/example/todo-backend/internal/service/credentials"
)

const maxBodyBytes = 1 << 20

type authResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// Register handles POST /register.
func Register(svc *credentials.Service, tokens auth.TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in credentials.RegisterInput
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
			api.BadRequest(w, "Invalid request body")
			return
		}

		u, err := svc.Register(r.Context(), in)
		if err != nil {
			var ve credentials.ValidationError
			switch {
			case errors.Is(err, credentials.ErrAlreadyExists):
				api.BadRequest(w, "User already exists")
			case errors.As(err, &ve):
				api.BadRequest(w, "Invalid request body")
			default:
				api.Internal(w)
			}
			return
		}

		token, err := tokens.Sign(u, timeNow())
		if err != nil {
			api.Internal(w)
			return
		}
		api.WriteJSON(w, http.StatusOK, authResponse{User: u, Token: token})
	}
}

// Login handles POST /login.
func Login(svc *credentials.Service, tokens auth.TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in loginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
			api.BadRequest(w, "Invalid request body")
			return
		}

		u, err := svc.Login(r.Context(), in.UsernameOrEmail, in.Password)
		if err != nil {
			if errors.Is(err, credentials.ErrInvalidCredentials) {
				api.Unauthorized(w, "Invalid credentials")
				return
			}
			api.Internal(w)
			return
		}

		token, err := tokens.Sign(u, timeNow())
		if err != nil {
			api.Internal(w)
			return
		}
		api.WriteJSON(w, http.StatusOK, authResponse{User: u, Token: token})
	}
}

// Me handles GET /me — echoes the identity embedded in the verified token.
func Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "Invalid credentials")
			return
		}
		api.WriteJSON(w, http.StatusOK, identity)
	}
}
