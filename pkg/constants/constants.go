package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	ParamsKey    ContextKey = "params"
	LoggerKey    ContextKey = "logger"
	UserKey      ContextKey = "user"
	SessionKey   ContextKey = "session"
	TenantIDKey  ContextKey = "tenantID"
	TxKey        ContextKey = "tx"
	PoolKey      ContextKey = "pool"
	AppKey       ContextKey = "app"
	NavItemsKey  ContextKey = "navItems"
	SidebarKey   ContextKey = "sidebarState"
	RequestIDKey ContextKey = "requestID"
)

const (
	SessionCookieName = "arkiflo_sid"

	// Client UI preference keys. Fixed by contract: the web client reads
	// and writes the same constants.
	SidebarCollapsedKey = "arkiflo.sidebar.collapsed"
	SidebarExpandedKey  = "arkiflo.sidebar.expandedMenus"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
