package providers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type RouterProviderInterface interface {
	Use(middlewares ...func(http.Handler) http.Handler)
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	Put(url string, handler http.Handler)
	Handler() http.Handler
}

// RouterProvider keeps route registration behind the provider interface;
// method mismatches answer 405 from chi.
type RouterProvider struct {
	mux chi.Router
}

func (rp *RouterProvider) Use(middlewares ...func(http.Handler) http.Handler) {
	rp.mux.Use(middlewares...)
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.mux.Method(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.mux.Method(http.MethodPost, url, handler)
}

func (rp *RouterProvider) Put(url string, handler http.Handler) {
	rp.mux.Method(http.MethodPut, url, handler)
}

func (rp *RouterProvider) Handler() http.Handler {
	return rp.mux
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{mux: chi.NewRouter()}
}
