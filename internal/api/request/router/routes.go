// Package router đăng ký các route thuộc domain request.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"access_governance/internal/api/middleware"
	requesthdl "access_governance/internal/api/request/handler"
	apirouter "access_governance/internal/api/router"
)

// Register đăng ký các route yêu cầu truy cập lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	requestHandler, err := requesthdl.NewAccessRequestHandler()
	if err != nil {
		return fmt.Errorf("failed to create access request handler: %w", err)
	}

	approveMiddleware := middleware.AuthMiddleware("AccessRequest.Approve")
	orgContextMiddleware := middleware.OrganizationContextMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/access-request", "POST", "/:id/decide", []fiber.Handler{approveMiddleware, orgContextMiddleware}, requestHandler.HandleDecide)

	r.RegisterCRUDRoutes(v1, "/access-request", requestHandler, apirouter.ReadWriteConfig, "AccessRequest")
	return nil
}
