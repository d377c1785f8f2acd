// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/mall-admin/internal/middleware"
	"github.com/olegiv/mall-admin/internal/render"
	"github.com/olegiv/mall-admin/internal/router"
)

// viewTitles maps route names onto page titles.
var viewTitles = map[string]string{
	router.NameDashboard:     "Dashboard",
	router.NameProducts:      "Products",
	router.NameOrders:        "Orders",
	router.NameChat:          "Customer Chat",
	router.NameNotifications: "Notifications",
}

// ViewsHandler renders the views nested in the home layout.
type ViewsHandler struct {
	renderer *render.Renderer
	nav      []render.NavItem
}

// NewViewsHandler creates a ViewsHandler whose side menu lists every
// home view of rt.
func NewViewsHandler(renderer *render.Renderer, rt *router.Router) *ViewsHandler {
	var nav []render.NavItem
	for _, m := range rt.Routes() {
		if title, ok := viewTitles[m.Name()]; ok {
			nav = append(nav, render.NavItem{Label: title, Path: m.Path})
		}
	}
	return &ViewsHandler{renderer: renderer, nav: nav}
}

// Show renders the view of the route matched by the navigation guard.
func (h *ViewsHandler) Show(w http.ResponseWriter, r *http.Request) {
	match, ok := router.MatchFromContext(r.Context())
	if !ok {
		h.NotFound(w, r)
		return
	}

	name := "home/" + match.Name()
	if !h.renderer.Has(name) {
		h.NotFound(w, r)
		return
	}

	data := render.TemplateData{
		Title:       viewTitles[match.Name()],
		CurrentPath: match.Path,
		Admin:       middleware.GetAdmin(r),
		Nav:         h.nav,
	}
	if err := h.renderer.Render(w, r, name, data); err != nil {
		logAndInternalError(w, "failed to render view", "view", match.Route.View, "error", err)
	}
}

// NotFound renders the 404 page.
func (h *ViewsHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	data := render.TemplateData{Title: "Not found"}
	if err := h.renderer.RenderStatus(w, r, http.StatusNotFound, "errors/404", data); err != nil {
		http.NotFound(w, r)
	}
}
