package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/queries"
)

// LocaleResolver picks the catalog locale for a request.
type LocaleResolver func(router.Context) string

// Config wires go-router with the dashboard controller, commands and refresh broadcast.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            *httpapi.Handlers
	Broadcast      *dashboard.BroadcastHook
	LocaleResolver LocaleResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	Payload   string
	State     string
	Catalog   string
	EditMode  string
	Widgets   string
	WidgetID  string
	Duplicate string
	Config    string
	Selection string
	Drop      string
	Layouts   string
	LayoutKey string
	Switch    string
	WebSocket string
}

// Register mounts dashboard routes (JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/api"
	}
	resolveLocale := cfg.LocaleResolver
	if resolveLocale == nil {
		resolveLocale = inferLocale
	}

	group := cfg.Router.Group(base)

	group.Get(routes.Payload, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.Payload(ctx.Context(), resolveLocale(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if cfg.API != nil {
		registerQueries(group, cfg.API, resolveLocale, routes)
		registerCommands(group, cfg.API, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerQueries[T any](r router.Router[T], api *httpapi.Handlers, resolveLocale LocaleResolver, routes RouteConfig) {
	if api.State != nil {
		r.Get(routes.State, router.WrapHandler(func(ctx router.Context) error {
			state, err := api.State.Query(ctx.Context(), queries.StateInput{})
			return respond(ctx, http.StatusOK, state, err)
		}))
	}
	if api.Catalog != nil {
		r.Get(routes.Catalog, router.WrapHandler(func(ctx router.Context) error {
			types, err := api.Catalog.Query(ctx.Context(), queries.CatalogInput{
				Locale: resolveLocale(ctx),
				TypeID: ctx.Query("type"),
			})
			return respond(ctx, http.StatusOK, types, err)
		}))
	}
	if api.Layouts != nil {
		r.Get(routes.Layouts, router.WrapHandler(func(ctx router.Context) error {
			layouts, err := api.Layouts.Query(ctx.Context(), queries.LayoutsInput{})
			return respond(ctx, http.StatusOK, layouts, err)
		}))
	}
}

func registerCommands[T any](r router.Router[T], api *httpapi.Handlers, routes RouteConfig) {
	if api.EditMode != nil {
		r.Post(routes.EditMode, router.WrapHandler(func(ctx router.Context) error {
			var payload commands.SetEditModeInput
			if err := decode(ctx, &payload); err != nil {
				return badRequest(ctx, err)
			}
			return respondStatus(ctx, api.EditMode.Execute(ctx.Context(), payload), "updated")
		}))
	}

	if api.Add != nil {
		r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
			var payload commands.AddWidgetInput
			if err := decode(ctx, &payload); err != nil {
				return badRequest(ctx, err)
			}
			var created dashboard.WidgetPlacement
			payload.Result = &created
			err := api.Add.Execute(ctx.Context(), payload)
			return respond(ctx, http.StatusCreated, created, err)
		}))
	}

	if api.Remove != nil {
		r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
			id := ctx.Param("id")
			if id == "" {
				return badRequest(ctx, errors.New("widget id is required"))
			}
			return respondStatus(ctx, api.Remove.Execute(ctx.Context(), commands.RemoveWidgetInput{WidgetID: id}), "removed")
		}))
	}

	if api.Duplicate != nil {
		r.Post(routes.Duplicate, router.WrapHandler(func(ctx router.Context) error {
			var created dashboard.WidgetPlacement
			err := api.Duplicate.Execute(ctx.Context(), commands.DuplicateWidgetInput{WidgetID: ctx.Param("id"), Result: &created})
			return respond(ctx, http.StatusCreated, created, err)
		}))
	}

	if api.Config != nil {
		r.Put(routes.Config, router.WrapHandler(func(ctx router.Context) error {
			var payload commands.UpdateWidgetConfigInput
			if err := decode(ctx, &payload); err != nil {
				return badRequest(ctx, err)
			}
			payload.WidgetID = ctx.Param("id")
			return respondStatus(ctx, api.Config.Execute(ctx.Context(), payload), "updated")
		}))
	}

	if api.Select != nil {
		r.Post(routes.Selection, router.WrapHandler(func(ctx router.Context) error {
			var payload commands.SelectWidgetInput
			if err := decode(ctx, &payload); err != nil {
				return badRequest(ctx, err)
			}
			return respondStatus(ctx, api.Select.Execute(ctx.Context(), payload), "selected")
		}))
	}

	if api.Drop != nil {
		r.Post(routes.Drop, router.WrapHandler(func(ctx router.Context) error {
			var payload dashboard.DropEvent
			if err := decode(ctx, &payload); err != nil {
				return badRequest(ctx, err)
			}
			return respondStatus(ctx, api.Drop.Execute(ctx.Context(), payload), "dropped")
		}))
	}

	if api.Save != nil {
		r.Post(routes.Layouts, router.WrapHandler(func(ctx router.Context) error {
			var payload commands.SaveLayoutInput
			if err := decode(ctx, &payload); err != nil {
				return badRequest(ctx, err)
			}
			var saved dashboard.SavedLayout
			payload.Result = &saved
			err := api.Save.Execute(ctx.Context(), payload)
			if err != nil && errors.Is(err, dashboard.ErrPersistFailed) && saved.Key != "" {
				ctx.SetHeader("X-Dashboard-Persist-Error", err.Error())
				return ctx.JSON(http.StatusInternalServerError, saved)
			}
			return respond(ctx, http.StatusCreated, saved, err)
		}))
	}

	if api.Switch != nil {
		r.Post(routes.Switch, router.WrapHandler(func(ctx router.Context) error {
			return respondStatus(ctx, api.Switch.Execute(ctx.Context(), commands.SwitchLayoutInput{Key: ctx.Param("key")}), "switched")
		}))
	}

	if api.Delete != nil {
		r.Delete(routes.LayoutKey, router.WrapHandler(func(ctx router.Context) error {
			return respondStatus(ctx, api.Delete.Execute(ctx.Context(), commands.DeleteLayoutInput{Key: ctx.Param("key")}), "deleted")
		}))
	}
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return parseAcceptLanguage(ctx.Header("Accept-Language"))
}

// parseAcceptLanguage returns the first language tag, ignoring quality weights.
func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token = strings.TrimSpace(token); token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

// decode accepts an empty body as the zero value.
func decode(ctx router.Context, dst any) error {
	body := ctx.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, dst)
}

func badRequest(ctx router.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, httpapi.ErrorBody{Error: err.Error(), Status: http.StatusBadRequest})
}

func respond(ctx router.Context, status int, body any, err error) error {
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(status, body)
}

func respondStatus(ctx router.Context, err error, status string) error {
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": status})
}

func respondError(ctx router.Context, err error) error {
	status := httpapi.StatusFor(err)
	return ctx.JSON(status, httpapi.ErrorBody{Error: err.Error(), Status: status})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Payload == "" {
		routes.Payload = "/dashboard"
	}
	if routes.State == "" {
		routes.State = "/dashboard/state"
	}
	if routes.Catalog == "" {
		routes.Catalog = "/dashboard/catalog"
	}
	if routes.EditMode == "" {
		routes.EditMode = "/dashboard/edit-mode"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/dashboard/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/dashboard/widgets/:id"
	}
	if routes.Duplicate == "" {
		routes.Duplicate = "/dashboard/widgets/:id/duplicate"
	}
	if routes.Config == "" {
		routes.Config = "/dashboard/widgets/:id/config"
	}
	if routes.Selection == "" {
		routes.Selection = "/dashboard/selection"
	}
	if routes.Drop == "" {
		routes.Drop = "/dashboard/drop"
	}
	if routes.Layouts == "" {
		routes.Layouts = "/dashboard/layouts"
	}
	if routes.LayoutKey == "" {
		routes.LayoutKey = "/dashboard/layouts/:key"
	}
	if routes.Switch == "" {
		routes.Switch = "/dashboard/layouts/:key/switch"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	return routes
}
