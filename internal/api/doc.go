// Package api is the HTTP client for the tutor-web server.
//
// The server speaks JSON throughout. A lecture syncs by POSTing the
// client's copy to the lecture's own URI and receiving the server's
// authoritative copy back; question banks are fetched in bulk from the
// lecture's material endpoint; subscriptions are managed under
// /api/subscriptions/.
//
// Server-side failures arrive as "domain::category::detail" strings
// (e.g. "tutorweb::unauth::not logged in") and are classified into the
// error kinds of the lecture package so callers can branch on them
// without string matching.
package api
