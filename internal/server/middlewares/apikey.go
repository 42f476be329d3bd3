package middlewares

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	// APIKeyContextKey is the key to retrieve the validated API key from echo.Context.
	APIKeyContextKey = "apikey"
	// RoleAnon is the role of the shared anonymous API key.
	RoleAnon = "anon"
	// Issuer is the issuer of the API keys.
	Issuer = "sharedlist"
)

// APIKeyClaims are the claims carried by an API key.
type APIKeyClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// NewAPIKey returns a new anonymous API key signed with the given key.
func NewAPIKey(signingKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &APIKeyClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   Issuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Role: RoleAnon,
	})

	apikey, err := token.SignedString(signingKey)
	return apikey, errors.Wrap(err, "could not sign API key")
}

// APIKey returns a middleware that only lets requests with a valid anonymous API key through.
// The key is read from the Authorization header, the apikey header or the apikey query param.
func APIKey(signingKey []byte) echo.MiddlewareFunc {
	validate := echojwt.WithConfig(echojwt.Config{
		SigningKey:  signingKey,
		ContextKey:  APIKeyContextKey,
		TokenLookup: "header:Authorization:Bearer ,header:apikey,query:apikey",
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(APIKeyClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return invalidAPIKey(c)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return validate(func(c echo.Context) error {
			token, ok := c.Get(APIKeyContextKey).(*jwt.Token)
			if !ok {
				panic("token implementation has changed")
			}

			claims, ok := token.Claims.(*APIKeyClaims)
			if !ok || claims.Issuer != Issuer || claims.Role != RoleAnon {
				return invalidAPIKey(c)
			}
			return next(c)
		})
	}
}

func invalidAPIKey(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error": echo.Map{
			"tag":     "invalid-auth",
			"message": "Invalid API key.",
		},
	})
}
