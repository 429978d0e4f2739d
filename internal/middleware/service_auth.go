package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ServiceAuthHandler guards the event ingestion endpoints with a shared
// secret known to the collaborating logging services. Full user auth
// lives in the gateway, not here.
type ServiceAuthHandler struct {
	serviceSecret  string
	guardedPrefix  string
	secretHeader   string
	allowedMethods map[string]bool
}

func NewServiceAuthHandler(serviceSecret string) *ServiceAuthHandler {
	return &ServiceAuthHandler{
		serviceSecret: serviceSecret,
		guardedPrefix: "/engine/events",
		secretHeader:  "X-Liftlog-Service-Secret",
		allowedMethods: map[string]bool{
			http.MethodOptions: true,
		},
	}
}

func (h *ServiceAuthHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, h.guardedPrefix) || h.allowedMethods[r.Method] {
				next.ServeHTTP(w, r)
				return
			}

			secret := r.Header.Get(h.secretHeader)
			if subtle.ConstantTimeCompare([]byte(secret), []byte(h.serviceSecret)) != 1 {
				log.Tracef("[invalid service secret] [%s] => %s", r.Method, r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
