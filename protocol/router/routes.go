package router

import (
	"strconv"

	"github.com/gptankit/frameserve/model"
	"github.com/gptankit/frameserve/protocol/response"
)

var (
	rootGetBody  = []byte(`{ "status": "ok", "method": "GET" }`)
	rootPostBody = []byte(`{ "status": "ok", "method": "POST" }`)
	healthBody   = []byte(`{ "status": "healthy" }`)
	metricsBody  = []byte(`{ "uptime": 12345, "requests": 987 }`)
	orderBody    = []byte(`{ "status": "order_received" }`)
)

// Static returns a handler that always answers 200 OK with body.
func Static(body []byte) model.HandlerFunc {

	return func(model.Request) model.Response {
		return response.JSON(response.StatusOK, body)
	}
}

// Metrics reports live uptime and completed requests from stats.
func Metrics(stats *model.ServerStats) model.HandlerFunc {

	return func(model.Request) model.Response {
		body := `{ "uptime": ` + strconv.FormatInt(stats.Uptime(), 10) +
			`, "requests": ` + strconv.FormatUint(stats.Requests(), 10) + ` }`
		return response.JSON(response.StatusOK, []byte(body))
	}
}

// Default registers the server's built-in routes. With live set, /metrics
// reads stats instead of returning the fixed sample body.
func Default(stats *model.ServerStats, live bool) *Table {

	metrics := Static(metricsBody)
	if live && stats != nil {
		metrics = Metrics(stats)
	}

	return New(
		model.Route{Method: "GET", Path: "/", Handler: Static(rootGetBody)},
		model.Route{Method: "POST", Path: "/", Handler: Static(rootPostBody)},
		model.Route{Method: "GET", Path: "/health", Handler: Static(healthBody)},
		model.Route{Method: "GET", Path: "/metrics", Handler: metrics},
		model.Route{Method: "POST", Path: "/order", Handler: Static(orderBody)},
	)
}
