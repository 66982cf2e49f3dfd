package dashboard

import "errors"

var (
	ErrEditModeDisabled  = errors.New("dashboard: edit mode is disabled")
	ErrUnknownWidgetType = errors.New("dashboard: unknown widget type")
	ErrWidgetNotFound    = errors.New("dashboard: widget not found")
	ErrLayoutNotFound    = errors.New("dashboard: layout not found")
	ErrLayoutExists      = errors.New("dashboard: layout already exists")
	ErrEmptyLayoutName   = errors.New("dashboard: layout name is required")
	ErrBuiltInLayout     = errors.New("dashboard: built-in layouts are read-only")
	ErrDropCancelled     = errors.New("dashboard: drop has no destination")
	ErrUnsupportedDrop   = errors.New("dashboard: unsupported drop transition")
	ErrIndexOutOfRange   = errors.New("dashboard: index out of range")
	ErrDropMismatch      = errors.New("dashboard: dragged item does not match source index")
	ErrPersistFailed     = errors.New("dashboard: persist layouts failed")
	ErrStaleData         = errors.New("dashboard: data belongs to a previous layout")
	ErrInvalidConfig     = errors.New("dashboard: invalid widget configuration")
	ErrUnsupportedWidget = errors.New("dashboard: widget type has no renderer")
	ErrMissingDataSource = errors.New("dashboard: data source not configured")
	ErrInvalidRequest    = errors.New("dashboard: invalid request")
)
