package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all link routes.
func RegisterRoutes(api huma.API, linkHandler *LinkHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/links",
		Summary:       "Create short link",
		Description:   "Validates the URL and stores it under a freshly generated short code.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
	}, linkHandler.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "get-link",
		Method:      http.MethodGet,
		Path:        "/links/{code}",
		Summary:     "Get link",
		Description: "Returns the link stored under the short code.",
		Tags:        []string{"Links"},
	}, linkHandler.GetLink)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL associated with the short code.",
		Tags:        []string{"Links"},
	}, linkHandler.Redirect)
}
