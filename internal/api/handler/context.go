package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/funderr/crowdfund-api/internal/api/middleware"
	"github.com/funderr/crowdfund-api/internal/core/domain"
)

// ctxUser extracts the authenticated user injected by the Auth middleware.
// Its presence proves the middleware ran on this route.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextUserKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
