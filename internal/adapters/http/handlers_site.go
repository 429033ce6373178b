package http

import "net/http"

// landing serves the public marketing payload. It is reachable with or
// without a session.
func (h *Handler) landing(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"site":    h.site.SiteName,
		"tagline": h.site.Tagline,
		"contact": h.site.Contact,
		"theme":   h.site.Theme,
		"sections": []string{
			"hero",
			"services",
			"portfolio",
			"contact",
		},
	})
}

// authScreen redirects an already-authenticated visitor straight to the
// dashboard, mirroring the portal's auth page behavior.
func (h *Handler) authScreen(w http.ResponseWriter, r *http.Request) {
	if h.hasActiveSession(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"screen": "auth",
		"theme":  h.site.Theme,
		"tabs":   []string{"login", "register"},
	})
}

// dashboardScreen gates on session presence. Visitors without an active
// session are sent to the auth screen; this is the explicit policy for a
// session ending mid-visit as well.
func (h *Handler) dashboardScreen(w http.ResponseWriter, r *http.Request) {
	if !h.hasActiveSession(r) {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"screen": "dashboard",
		"theme":  h.site.Theme,
	})
}

func (h *Handler) hasActiveSession(r *http.Request) bool {
	token, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		return false
	}
	_, err = h.service.Authenticate(r.Context(), token)
	return err == nil
}
