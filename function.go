package ainews

import (
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"ainews/internal/transport/server"
)

func init() {
	// The platform routes all paths to a single function; the router
	// inside HandleRequest dispatches them.
	functions.HTTP("NewsService", server.HandleRequest)
}
