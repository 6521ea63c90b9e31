package api

import (
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
)

// buildOpenAPIDocument constructs the OpenAPI 3 description of the whole
// HTTP surface. The document is built programmatically so it can never
// drift from the registered routes without a reviewer noticing both sides
// of the change.
func (s *Server) buildOpenAPIDocument() *openapi3.T {
	paths := openapi3.NewPaths()

	paths.Set("/", &openapi3.PathItem{
		Get: jsonOp("getRoot", "Application information", "general",
			200, "Application metadata, features, and endpoint map", rootSchema()),
	})
	paths.Set("/health", &openapi3.PathItem{
		Get: jsonOp("getHealth", "Liveness probe", "general",
			200, "Service is alive", healthSchema()),
	})
	paths.Set("/stats", &openapi3.PathItem{
		Get: jsonOp("getStats", "Store and simulation statistics", "general",
			200, "Current counts and lock availability", statsSchema()),
	})
	paths.Set("/metrics", &openapi3.PathItem{
		Get: textOp("getMetrics", "Prometheus metrics", "general",
			"Metrics in Prometheus text exposition format"),
	})
	paths.Set("/openapi.json", &openapi3.PathItem{
		Get: jsonOp("getOpenAPI", "This document", "general",
			200, "The OpenAPI description of the service", openapi3.NewObjectSchema()),
	})

	paths.Set("/items", &openapi3.PathItem{
		Post: withError(withBody(
			jsonOp("createItem", "Create an item", "items",
				201, "The stored item with server-assigned id and timestamps", itemSchema()),
			itemCreateSchema()), 400, "Validation failure"),
		Get: withQuery(withQuery(
			jsonOp("listItems", "List items", "items",
				200, "A pagination window over the stored items", arrayOf(itemSchema())),
			"skip", openapi3.NewIntegerSchema().WithMin(0)),
			"limit", openapi3.NewIntegerSchema().WithMin(1)),
	})
	paths.Set("/items/search", &openapi3.PathItem{
		Get: withError(searchItemsOp(), 400, "Validation failure"),
	})
	paths.Set("/items/{id}", &openapi3.PathItem{
		Get: withError(withPath(
			jsonOp("getItem", "Get an item", "items",
				200, "The requested item", itemSchema()),
			"id", openapi3.NewStringSchema()), 404, "Item not found"),
		Put: withError(withError(withPath(withBody(
			jsonOp("updateItem", "Partially update an item", "items",
				200, "The updated item", itemSchema()),
			itemUpdateSchema()),
			"id", openapi3.NewStringSchema()),
			400, "Validation failure"), 404, "Item not found"),
		Delete: withError(withPath(
			jsonOp("deleteItem", "Delete an item", "items",
				200, "Confirmation carrying the removed item", deleteItemSchema()),
			"id", openapi3.NewStringSchema()), 404, "Item not found"),
	})
	paths.Set("/items/bulk", &openapi3.PathItem{
		Post: withError(withBody(
			jsonOp("bulkCreateItems", "Create a batch of items", "items",
				201, "All items in the batch, stored atomically", arrayOf(itemSchema())),
			bulkCreateSchema()), 400, "Validation failure, nothing stored"),
	})
	paths.Set("/items/bulk-update", &openapi3.PathItem{
		Put: withError(withBody(
			jsonOp("bulkUpdateItems", "Update a batch of items", "items",
				200, "Updated items and not-found ids", bulkUpdateResponseSchema()),
			bulkUpdateSchema()), 400, "Validation failure, nothing updated"),
	})
	paths.Set("/items/delete", &openapi3.PathItem{
		Post: withError(withBody(
			jsonOp("bulkDeleteItems", "Delete a batch of items", "items",
				200, "Deleted items and not-found ids", bulkDeleteResponseSchema()),
			arrayOf(openapi3.NewStringSchema()).WithMinItems(1)), 400, "Validation failure"),
	})

	paths.Set("/simulate/block", &openapi3.PathItem{
		Post: jsonOp("simulateBlock", "Trigger a blocking worker", "simulation",
			202, "Worker spawned; it keeps holding the lock after this response", blockSchema()),
	})
	paths.Set("/simulate/block/status", &openapi3.PathItem{
		Get: jsonOp("blockStatus", "Blocking simulation status", "simulation",
			200, "Current workers and lock availability", blockStatusSchema()),
	})
	paths.Set("/simulate/timeout/{duration}", &openapi3.PathItem{
		Get: withError(withPath(
			jsonOp("simulateTimeout", "Hold the request for a duration", "simulation",
				200, "Requested and measured duration", timeoutSchema()),
			"duration", openapi3.NewIntegerSchema().WithMin(1).WithMax(float64(s.controller.MaxTimeoutSeconds()))),
			400, "Duration out of bounds"),
	})

	paths.Set("/actuator/health", &openapi3.PathItem{
		Get: jsonOp("actuatorHealth", "Detailed health view", "actuator",
			200, "Health status with store, simulation, and runtime detail", openapi3.NewObjectSchema()),
	})
	paths.Set("/actuator/info", &openapi3.PathItem{
		Get: jsonOp("actuatorInfo", "Application information", "actuator",
			200, "Application, system, runtime, and storage blocks", openapi3.NewObjectSchema()),
	})
	paths.Set("/actuator/env", &openapi3.PathItem{
		Get: jsonOp("actuatorEnv", "Process environment", "actuator",
			200, "Environment variables with sensitive values masked", openapi3.NewObjectSchema()),
	})
	paths.Set("/actuator/threads", &openapi3.PathItem{
		Get: jsonOp("actuatorThreads", "Goroutine dump analog", "actuator",
			200, "Goroutine totals and blocking-simulation workers", openapi3.NewObjectSchema()),
	})
	paths.Set("/actuator/restart", &openapi3.PathItem{
		Post: jsonOp("actuatorRestart", "Restart the application", "actuator",
			200, "Acknowledged; the process exits after a 2s grace period", restartSchema()),
	})

	paths.Set("/api/entities", &openapi3.PathItem{
		Get: withUpstreamErrors(
			jsonOp("listEntities", "List backend entities", "entities",
				200, "All entities from the backend service", arrayOf(entitySchema()))),
		Post: withUpstreamErrors(withError(withBody(
			jsonOp("createEntity", "Create a backend entity", "entities",
				201, "The created entity", entitySchema()),
			entityCreateSchema()), 400, "Validation failure")),
	})
	paths.Set("/api/entities/search", &openapi3.PathItem{
		Get: withUpstreamErrors(withError(withRequiredQuery(
			jsonOp("searchEntities", "Search backend entities by name", "entities",
				200, "Entities whose name contains the given text", arrayOf(entitySchema())),
			"name", openapi3.NewStringSchema()), 400, "Missing name parameter")),
	})
	paths.Set("/api/entities/{id}", &openapi3.PathItem{
		Get: withUpstreamErrors(withError(withPath(
			jsonOp("getEntity", "Get a backend entity", "entities",
				200, "The requested entity", entitySchema()),
			"id", openapi3.NewInt64Schema()), 404, "Entity not found")),
		Put: withUpstreamErrors(withError(withError(withPath(withBody(
			jsonOp("updateEntity", "Update a backend entity", "entities",
				200, "The updated entity", entitySchema()),
			entityUpdateSchema()),
			"id", openapi3.NewInt64Schema()),
			400, "Validation failure"), 404, "Entity not found")),
		Delete: withUpstreamErrors(withError(withPath(
			jsonOp("deleteEntity", "Delete a backend entity", "entities",
				200, "Deletion confirmation", messageSchema()),
			"id", openapi3.NewInt64Schema()), 404, "Entity not found")),
	})

	paths.Set("/api/test/health", &openapi3.PathItem{
		Get: withUpstreamErrors(
			jsonOp("backendHealth", "Backend health", "test-scenarios",
				200, "The backend's own health view", openapi3.NewObjectSchema())),
	})
	paths.Set("/api/test/block-thread", &openapi3.PathItem{
		Post: scenarioOp("backendBlockThread", "Block a backend worker thread", 30),
	})
	paths.Set("/api/test/hang", &openapi3.PathItem{
		Post: scenarioOp("backendHang", "Hang a backend request handler", 90),
	})
	paths.Set("/api/test/cpu-intensive", &openapi3.PathItem{
		Post: scenarioOp("backendCPUIntensive", "Run a CPU-bound loop on the backend", 10),
	})
	paths.Set("/api/test/thread-status", &openapi3.PathItem{
		Get: withUpstreamErrors(
			jsonOp("backendThreadStatus", "Backend worker-thread status", "test-scenarios",
				200, "The backend's thread state", openapi3.NewObjectSchema())),
	})

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       s.cfg.App.Name,
			Description: "HTTP test service for Kubernetes load and liveness testing: item CRUD with search and bulk operations, blocking and timeout simulations, actuator introspection, and a proxy to an external backend service.",
			Version:     s.cfg.App.Version,
		},
		Servers: openapi3.Servers{
			&openapi3.Server{URL: "/"},
		},
		Tags: openapi3.Tags{
			&openapi3.Tag{Name: "general", Description: "Application information and probes"},
			&openapi3.Tag{Name: "items", Description: "In-memory item CRUD, search, and bulk operations"},
			&openapi3.Tag{Name: "simulation", Description: "Blocking and timeout simulations"},
			&openapi3.Tag{Name: "actuator", Description: "Spring Boot style introspection"},
			&openapi3.Tag{Name: "entities", Description: "Entity CRUD relayed to the backend service"},
			&openapi3.Tag{Name: "test-scenarios", Description: "Backend test scenarios relayed to the backend service"},
		},
		Paths: paths,
	}
}

// --- Operation builders ---

// jsonOp builds an operation with one JSON success response.
func jsonOp(opID, summary, tag string, status int, description string, schema *openapi3.Schema) *openapi3.Operation {
	resp := openapi3.NewResponse().WithDescription(description)
	if schema != nil {
		resp = resp.WithJSONSchema(schema)
	}
	return &openapi3.Operation{
		OperationID: opID,
		Summary:     summary,
		Tags:        []string{tag},
		Responses:   openapi3.NewResponses(openapi3.WithStatus(status, &openapi3.ResponseRef{Value: resp})),
	}
}

// textOp builds an operation with one text/plain success response.
func textOp(opID, summary, tag, description string) *openapi3.Operation {
	resp := openapi3.NewResponse().
		WithDescription(description).
		WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/plain"}))
	return &openapi3.Operation{
		OperationID: opID,
		Summary:     summary,
		Tags:        []string{tag},
		Responses:   openapi3.NewResponses(openapi3.WithStatus(200, &openapi3.ResponseRef{Value: resp})),
	}
}

// scenarioOp builds a test-scenario trigger operation with the shared
// seconds parameter and upstream error responses.
func scenarioOp(opID, summary string, defaultSeconds int) *openapi3.Operation {
	op := jsonOp(opID, summary, "test-scenarios",
		200, "The backend's scenario report, relayed as-is", openapi3.NewObjectSchema())
	op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
		Value: openapi3.NewQueryParameter("seconds").
			WithDescription("Scenario duration in seconds").
			WithSchema(openapi3.NewIntegerSchema().
				WithMin(1).WithMax(300).WithDefault(defaultSeconds)),
	})
	return withUpstreamErrors(withError(op, 400, "Seconds out of bounds"))
}

// searchItemsOp declares the item search operation with its five optional
// predicates.
func searchItemsOp() *openapi3.Operation {
	op := jsonOp("searchItems", "Search items", "items",
		200, "Items matching every given predicate", arrayOf(itemSchema()))
	op = withQuery(op, "query", openapi3.NewStringSchema())
	op = withQuery(op, "min_price", openapi3.NewFloat64Schema().WithMin(0))
	op = withQuery(op, "max_price", openapi3.NewFloat64Schema().WithMin(0))
	op = withQuery(op, "in_stock", openapi3.NewBoolSchema())
	op = withQuery(op, "tags", arrayOf(openapi3.NewStringSchema()))
	return op
}

// withBody attaches a required JSON request body.
func withBody(op *openapi3.Operation, schema *openapi3.Schema) *openapi3.Operation {
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(schema),
	}
	return op
}

// withQuery attaches an optional query parameter.
func withQuery(op *openapi3.Operation, name string, schema *openapi3.Schema) *openapi3.Operation {
	op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
		Value: openapi3.NewQueryParameter(name).WithSchema(schema),
	})
	return op
}

// withRequiredQuery attaches a required query parameter.
func withRequiredQuery(op *openapi3.Operation, name string, schema *openapi3.Schema) *openapi3.Operation {
	op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
		Value: openapi3.NewQueryParameter(name).WithRequired(true).WithSchema(schema),
	})
	return op
}

// withPath attaches a path parameter.
func withPath(op *openapi3.Operation, name string, schema *openapi3.Schema) *openapi3.Operation {
	op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
		Value: openapi3.NewPathParameter(name).WithSchema(schema),
	})
	return op
}

// withError adds an error response carrying the standard error envelope.
func withError(op *openapi3.Operation, status int, description string) *openapi3.Operation {
	op.Responses.Set(strconv.Itoa(status), &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(errorSchema()),
	})
	return op
}

// withUpstreamErrors adds the proxy taxonomy responses shared by every
// backend route.
func withUpstreamErrors(op *openapi3.Operation) *openapi3.Operation {
	op = withError(op, 503, "Backend unreachable")
	op = withError(op, 504, "Backend timed out")
	return op
}

// --- Schemas ---

func arrayOf(schema *openapi3.Schema) *openapi3.Schema {
	return openapi3.NewArraySchema().WithItems(schema)
}

func errorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("details", openapi3.NewSchema())
}

func messageSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema())
}

func itemSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("name", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(100)).
		WithProperty("description", openapi3.NewStringSchema().WithMaxLength(500)).
		WithProperty("price", openapi3.NewFloat64Schema()).
		WithProperty("in_stock", openapi3.NewBoolSchema()).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("updated_at", openapi3.NewDateTimeSchema()).
		WithProperty("tags", arrayOf(openapi3.NewStringSchema()))
}

func itemCreateSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(100)).
		WithProperty("description", openapi3.NewStringSchema().WithMaxLength(500)).
		WithProperty("price", openapi3.NewFloat64Schema()).
		WithProperty("in_stock", openapi3.NewBoolSchema().WithDefault(true)).
		WithProperty("tags", arrayOf(openapi3.NewStringSchema()))
	s.Required = []string{"name", "price"}
	return s
}

func itemUpdateSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(100)).
		WithProperty("description", openapi3.NewStringSchema().WithMaxLength(500)).
		WithProperty("price", openapi3.NewFloat64Schema()).
		WithProperty("in_stock", openapi3.NewBoolSchema()).
		WithProperty("tags", arrayOf(openapi3.NewStringSchema()))
}

func deleteItemSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("item", itemSchema())
}

func bulkCreateSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("items", arrayOf(itemCreateSchema()).WithMinItems(1).WithMaxItems(100))
	s.Required = []string{"items"}
	return s
}

func bulkUpdateSchema() *openapi3.Schema {
	update := itemUpdateSchema().WithProperty("id", openapi3.NewStringSchema())
	update.Required = []string{"id"}
	s := openapi3.NewObjectSchema().
		WithProperty("updates", arrayOf(update).WithMinItems(1).WithMaxItems(100))
	s.Required = []string{"updates"}
	return s
}

func bulkUpdateResponseSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("updated", arrayOf(itemSchema())).
		WithProperty("updated_count", openapi3.NewIntegerSchema()).
		WithProperty("not_found_ids", arrayOf(openapi3.NewStringSchema())).
		WithProperty("not_found_count", openapi3.NewIntegerSchema())
}

func bulkDeleteResponseSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("deleted_count", openapi3.NewIntegerSchema()).
		WithProperty("not_found_count", openapi3.NewIntegerSchema()).
		WithProperty("deleted_items", openapi3.NewObjectSchema().WithAdditionalProperties(itemSchema())).
		WithProperty("not_found_ids", arrayOf(openapi3.NewStringSchema()))
}

func rootSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("version", openapi3.NewStringSchema()).
		WithProperty("features", openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())).
		WithProperty("endpoints", openapi3.NewObjectSchema())
}

func healthSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("timestamp", openapi3.NewDateTimeSchema()).
		WithProperty("uptime_seconds", openapi3.NewIntegerSchema())
}

func statsSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("items_count", openapi3.NewIntegerSchema()).
		WithProperty("blocked_workers_count", openapi3.NewIntegerSchema()).
		WithProperty("store_lock_available", openapi3.NewBoolSchema()).
		WithProperty("blocking_lock_available", openapi3.NewBoolSchema())
}

func blockSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("duration_seconds", openapi3.NewIntegerSchema()).
		WithProperty("worker_id", openapi3.NewStringSchema()).
		WithProperty("blocked_workers_count", openapi3.NewIntegerSchema())
}

func blockStatusSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("blocked_workers_count", openapi3.NewIntegerSchema()).
		WithProperty("blocked_worker_ids", arrayOf(openapi3.NewStringSchema())).
		WithProperty("lock_available", openapi3.NewBoolSchema())
}

func timeoutSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("requested_duration", openapi3.NewIntegerSchema()).
		WithProperty("actual_duration", openapi3.NewFloat64Schema()).
		WithProperty("completed_at", openapi3.NewInt64Schema())
}

func restartSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("timestamp", openapi3.NewDateTimeSchema()).
		WithProperty("note", openapi3.NewStringSchema())
}

func entitySchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("name", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(100)).
		WithProperty("description", openapi3.NewStringSchema().WithMaxLength(500)).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("updated_at", openapi3.NewDateTimeSchema())
}

func entityCreateSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(100)).
		WithProperty("description", openapi3.NewStringSchema().WithMaxLength(500))
	s.Required = []string{"name"}
	return s
}

func entityUpdateSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(100)).
		WithProperty("description", openapi3.NewStringSchema().WithMaxLength(500))
}
