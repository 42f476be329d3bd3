package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/sharedlist/internal/changefeed"
	"github.com/mdouchement/sharedlist/internal/database"
	"github.com/mdouchement/sharedlist/internal/server/middlewares"
)

// An IOC is an Iversion Of Control pattern used to init the server package.
type IOC struct {
	Version  string
	Database database.Client
	// Broker fans out the changes of the items table.
	// A new one is created when nil.
	Broker *changefeed.Broker
	// SigningKey is used to sign and verify API keys.
	SigningKey []byte
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl IOC) *echo.Echo {
	if ctrl.Broker == nil {
		ctrl.Broker = changefeed.NewBroker(changefeed.DefaultBuffer)
	}

	engine := echo.New()
	engine.HideBanner = true
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "apikey"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
	}))
	engine.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return c.IsWebSocket() // Hijacked connections can't be gzipped.
		},
	}))

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	////////////
	// Router //
	////////////

	router := engine.Group("")
	apikey := middlewares.APIKey(ctrl.SigningKey)

	// generic handlers
	//
	version := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	}
	router.GET("/", version)
	router.GET("/version", version)

	//
	// item handlers
	//
	item := &item{
		db:     ctrl.Database,
		broker: ctrl.Broker,
	}
	rest := router.Group("/rest/v1", apikey)
	rest.GET("/items", item.List)
	rest.POST("/items", item.Insert)
	rest.PATCH("/items/:id", item.Update)
	rest.DELETE("/items/:id", item.Delete)

	//
	// realtime handlers
	//
	feed := &feed{
		broker: ctrl.Broker,
	}
	realtime := router.Group("/realtime/v1", apikey)
	realtime.GET("/items", feed.Subscribe)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}
