package caldav

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"github.com/tracim/tracim-api/internal/apperrors"
	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/services"
)

// writeMethods are the DAV methods that mutate calendar state. Everything
// else is treated as a read.
var writeMethods = map[string]bool{
	http.MethodPut:    true,
	http.MethodPost:   true,
	http.MethodDelete: true,
	"MKCOL":           true,
	"MKCALENDAR":      true,
	"PROPPATCH":       true,
	"MOVE":            true,
	"COPY":            true,
}

// Proxy authorizes and forwards CalDAV traffic to a Radicale server. It is
// mounted under /dav/ beside the API routes; the path layout mirrors
// Radicale's collections: user/{user_id}.ics and workspace/{workspace_id}.ics.
type Proxy struct {
	jwt   *services.JWTService
	users *services.UserService
	authz *services.AuthorizationService
	proxy *httputil.ReverseProxy
}

func NewProxy(baseURL string, jwt *services.JWTService, users *services.UserService, authz *services.AuthorizationService) (*Proxy, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid caldav base url: %w", err)
	}

	rp := &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = target.Scheme
			req.URL.Host = target.Host
			req.URL.Path = strings.TrimSuffix(target.Path, "/") + strings.TrimPrefix(req.URL.Path, "/dav")
			req.Host = target.Host
			// Radicale does its own auth through its rights backend; the
			// caller's credentials stay on this side.
			req.Header.Del("Authorization")
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Printf("caldav: proxy error for %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "calendar server unreachable", http.StatusBadGateway)
		},
	}

	return &Proxy{jwt: jwt, users: users, authz: authz, proxy: rp}, nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, err := p.authenticate(r)
	if err != nil {
		w.Header().Set("WWW-Authenticate", `Basic realm="tracim"`)
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	kind, resourceID, ok := splitCalendarPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch kind {
	case "user":
		// Listing (no id) only needs an authenticated caller.
		if resourceID != 0 && resourceID != user.ID && user.Profile != models.ProfileAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	case "workspace":
		if resourceID == 0 {
			break
		}
		action := services.ActionRead
		if writeMethods[r.Method] {
			action = services.ActionContribute
		}
		if err := p.authz.CheckWorkspaceAction(r.Context(), user, resourceID, action); err != nil {
			var ae *apperrors.Error
			if errors.As(err, &ae) {
				// Hidden workspaces stay hidden on the calendar side too.
				if ae.Code == apperrors.CodeWorkspaceNotFound {
					http.NotFound(w, r)
					return
				}
				http.Error(w, ae.Message, http.StatusForbidden)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	default:
		http.NotFound(w, r)
		return
	}

	p.proxy.ServeHTTP(w, r)
}

// authenticate accepts either a bearer token or basic credentials. CalDAV
// clients generally only speak basic auth.
func (p *Proxy) authenticate(r *http.Request) (*models.User, error) {
	header := r.Header.Get("Authorization")

	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		claims, err := p.jwt.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		user, err := p.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			return nil, err
		}
		if user.IsDeleted || !user.IsActive {
			return nil, fmt.Errorf("account disabled")
		}
		return user, nil
	}

	if email, password, ok := r.BasicAuth(); ok {
		return p.users.Authenticate(r.Context(), email, password)
	}

	return nil, fmt.Errorf("no credentials")
}

// splitCalendarPath extracts the collection kind and resource id from a
// /dav path. A trailing listing path like /dav/user/ yields id 0.
func splitCalendarPath(path string) (kind string, resourceID int64, ok bool) {
	rest, found := strings.CutPrefix(path, "/dav/")
	if !found {
		return "", 0, false
	}

	parts := strings.SplitN(rest, "/", 2)
	kind = parts[0]
	if kind != "user" && kind != "workspace" {
		return "", 0, false
	}
	if len(parts) < 2 || parts[1] == "" {
		return kind, 0, true
	}

	segment := strings.SplitN(parts[1], "/", 2)[0]
	segment = strings.TrimSuffix(segment, ".ics")
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil {
		return "", 0, false
	}
	return kind, id, true
}
