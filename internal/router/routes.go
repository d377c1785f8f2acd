// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package router holds the console's static route table and the
// navigation guard that keeps unauthenticated admins on the login page.
package router

// Route names.
const (
	NameLogin         = "login"
	NameHome          = "home"
	NameDashboard     = "dashboard"
	NameProducts      = "products"
	NameOrders        = "orders"
	NameChat          = "chat"
	NameNotifications = "notifications"
)

// LoginPath is where unauthenticated navigation is sent.
const LoginPath = "/login"

// Route describes a navigable view. Child paths are relative to the
// parent; an empty child path is the parent's default view.
type Route struct {
	Path         string
	Name         string
	View         string
	RequiresAuth bool
	Children     []Route
}

// Table returns the console route table.
func Table() []Route {
	return []Route{
		{
			Path: LoginPath,
			Name: NameLogin,
			View: "Login",
		},
		{
			Path:         "/",
			Name:         NameHome,
			View:         "Home",
			RequiresAuth: true,
			Children: []Route{
				{Path: "", Name: NameDashboard, View: "Dashboard"},
				{Path: "products", Name: NameProducts, View: "ProductList"},
				{Path: "orders", Name: NameOrders, View: "OrderList"},
				{Path: "chat", Name: NameChat, View: "ChatWindow"},
				{Path: "notifications", Name: NameNotifications, View: "NotificationList"},
			},
		},
	}
}
