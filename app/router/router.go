package router

import (
	"net/http"
	"strings"

	"shoe-card/app/controller"
)

type Controllers struct {
	ShoeCard *controller.ShoeCardController
	Image    *controller.ImageController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every route on mux
func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Card navigation target
	mux.HandleFunc("/shoe/", controllers.ShoeCard.ShoePage)

	// Shoe list (grid) in any format
	mux.HandleFunc("/shoes", controllers.ShoeCard.ListShoes)

	// Shoe sub-routes
	mux.HandleFunc("/shoes/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/shoes/")

		// Fixed routes first (must be before the /:slug routes)
		switch path {
		case "render":
			controllers.ShoeCard.RenderGrid(w, r)
			return
		case "png-page":
			controllers.ShoeCard.DownloadPNGPage(w, r)
			return
		}

		// Handle GET /shoes/:slug/card/render
		if strings.HasSuffix(path, "/card/render") {
			controllers.ShoeCard.RenderCard(w, r)
			return
		}
		// Handle GET /shoes/:slug/card
		if strings.HasSuffix(path, "/card") {
			controllers.ShoeCard.GetCard(w, r)
			return
		}

		http.Error(w, "Not found", http.StatusNotFound)
	})

	// Optimized images
	mux.HandleFunc("/images", controllers.Image.GetImage)
}
