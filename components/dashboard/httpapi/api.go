package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/dashboard"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries. Nil members
// answer 501.
type Handlers struct {
	Add       gocommand.Commander[commands.AddWidgetInput]
	Remove    gocommand.Commander[commands.RemoveWidgetInput]
	Duplicate gocommand.Commander[commands.DuplicateWidgetInput]
	Config    gocommand.Commander[commands.UpdateWidgetConfigInput]
	Select    gocommand.Commander[commands.SelectWidgetInput]
	EditMode  gocommand.Commander[commands.SetEditModeInput]
	Switch    gocommand.Commander[commands.SwitchLayoutInput]
	Save      gocommand.Commander[commands.SaveLayoutInput]
	Delete    gocommand.Commander[commands.DeleteLayoutInput]
	Drop      gocommand.Commander[dashboard.DropEvent]

	State   gocommand.Querier[queries.StateInput, dashboard.DashboardState]
	Catalog gocommand.Querier[queries.CatalogInput, []dashboard.WidgetTypeDescriptor]
	Layouts gocommand.Querier[queries.LayoutsInput, []dashboard.LayoutSummary]
	Payload gocommand.Querier[queries.PayloadInput, dashboard.DashboardPayload]
}

// Register mounts the handlers on a ServeMux using method and wildcard patterns.
func (h *Handlers) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix+"/state", h.HandleState)
	mux.HandleFunc("GET "+prefix+"/catalog", h.HandleCatalog)
	mux.HandleFunc("GET "+prefix+"/layouts", h.HandleLayouts)
	mux.HandleFunc("GET "+prefix+"/payload", h.HandlePayload)
	mux.HandleFunc("POST "+prefix+"/edit-mode", h.HandleEditMode)
	mux.HandleFunc("POST "+prefix+"/widgets", h.HandleAddWidget)
	mux.HandleFunc("DELETE "+prefix+"/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleRemoveWidget(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST "+prefix+"/widgets/{id}/duplicate", func(w http.ResponseWriter, r *http.Request) {
		h.HandleDuplicateWidget(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("PUT "+prefix+"/widgets/{id}/config", func(w http.ResponseWriter, r *http.Request) {
		h.HandleUpdateConfig(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST "+prefix+"/selection", h.HandleSelect)
	mux.HandleFunc("POST "+prefix+"/drop", h.HandleDrop)
	mux.HandleFunc("POST "+prefix+"/layouts", h.HandleSaveLayout)
	mux.HandleFunc("POST "+prefix+"/layouts/{key}/switch", func(w http.ResponseWriter, r *http.Request) {
		h.HandleSwitchLayout(w, r, r.PathValue("key"))
	})
	mux.HandleFunc("DELETE "+prefix+"/layouts/{key}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleDeleteLayout(w, r, r.PathValue("key"))
	})
}

func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	if h.State == nil {
		notImplemented(w)
		return
	}
	state, err := h.State.Query(r.Context(), queries.StateInput{})
	respond(w, http.StatusOK, state, err)
}

func (h *Handlers) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		notImplemented(w)
		return
	}
	types, err := h.Catalog.Query(r.Context(), queries.CatalogInput{
		Locale: r.URL.Query().Get("locale"),
		TypeID: r.URL.Query().Get("type"),
	})
	respond(w, http.StatusOK, types, err)
}

func (h *Handlers) HandleLayouts(w http.ResponseWriter, r *http.Request) {
	if h.Layouts == nil {
		notImplemented(w)
		return
	}
	layouts, err := h.Layouts.Query(r.Context(), queries.LayoutsInput{})
	respond(w, http.StatusOK, layouts, err)
}

func (h *Handlers) HandlePayload(w http.ResponseWriter, r *http.Request) {
	if h.Payload == nil {
		notImplemented(w)
		return
	}
	payload, err := h.Payload.Query(r.Context(), queries.PayloadInput{Locale: r.URL.Query().Get("locale")})
	respond(w, http.StatusOK, payload, err)
}

func (h *Handlers) HandleEditMode(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetEditModeInput
	if !decode(w, r, &payload) {
		return
	}
	execute(w, r, h.EditMode, payload, http.StatusNoContent)
}

func (h *Handlers) HandleAddWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.AddWidgetInput
	if !decode(w, r, &payload) {
		return
	}
	if h.Add == nil {
		notImplemented(w)
		return
	}
	var created dashboard.WidgetPlacement
	payload.Result = &created
	err := h.Add.Execute(r.Context(), payload)
	respond(w, http.StatusCreated, created, err)
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	execute(w, r, h.Remove, commands.RemoveWidgetInput{WidgetID: widgetID}, http.StatusNoContent)
}

func (h *Handlers) HandleDuplicateWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	if h.Duplicate == nil {
		notImplemented(w)
		return
	}
	var created dashboard.WidgetPlacement
	err := h.Duplicate.Execute(r.Context(), commands.DuplicateWidgetInput{WidgetID: widgetID, Result: &created})
	respond(w, http.StatusCreated, created, err)
}

func (h *Handlers) HandleUpdateConfig(w http.ResponseWriter, r *http.Request, widgetID string) {
	var payload commands.UpdateWidgetConfigInput
	if !decode(w, r, &payload) {
		return
	}
	payload.WidgetID = widgetID
	execute(w, r, h.Config, payload, http.StatusNoContent)
}

func (h *Handlers) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var payload commands.SelectWidgetInput
	if !decode(w, r, &payload) {
		return
	}
	execute(w, r, h.Select, payload, http.StatusNoContent)
}

func (h *Handlers) HandleDrop(w http.ResponseWriter, r *http.Request) {
	var payload dashboard.DropEvent
	if !decode(w, r, &payload) {
		return
	}
	execute(w, r, h.Drop, payload, http.StatusNoContent)
}

func (h *Handlers) HandleSwitchLayout(w http.ResponseWriter, r *http.Request, key string) {
	execute(w, r, h.Switch, commands.SwitchLayoutInput{Key: key}, http.StatusNoContent)
}

// HandleSaveLayout answers 201 with the saved layout. When only persistence failed the
// layout is still returned, with a 500 status and an X-Dashboard-Persist-Error header.
func (h *Handlers) HandleSaveLayout(w http.ResponseWriter, r *http.Request) {
	var payload commands.SaveLayoutInput
	if !decode(w, r, &payload) {
		return
	}
	if h.Save == nil {
		notImplemented(w)
		return
	}
	var saved dashboard.SavedLayout
	payload.Result = &saved
	err := h.Save.Execute(r.Context(), payload)
	if err != nil && errors.Is(err, dashboard.ErrPersistFailed) && saved.Key != "" {
		w.Header().Set("X-Dashboard-Persist-Error", err.Error())
		writeJSON(w, http.StatusInternalServerError, saved)
		return
	}
	respond(w, http.StatusCreated, saved, err)
}

func (h *Handlers) HandleDeleteLayout(w http.ResponseWriter, r *http.Request, key string) {
	execute(w, r, h.Delete, commands.DeleteLayoutInput{Key: key}, http.StatusNoContent)
}

func execute[T any](w http.ResponseWriter, r *http.Request, cmd gocommand.Commander[T], msg T, status int) {
	if cmd == nil {
		notImplemented(w)
		return
	}
	if err := cmd.Execute(r.Context(), msg); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(status)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: err.Error(), Status: http.StatusBadRequest})
		return false
	}
	return true
}

func respond(w http.ResponseWriter, status int, body any, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, body)
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	writeJSON(w, status, ErrorBody{Error: err.Error(), Status: status})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func notImplemented(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotImplemented, ErrorBody{Error: "handler not configured", Status: http.StatusNotImplemented})
}
