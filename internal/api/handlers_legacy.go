package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/luxbridge/luxd/internal/hue"
	"github.com/luxbridge/luxd/internal/resource"
)

// v1Error is the legacy error envelope. Type 1 is "unauthorized user",
// type 3 "resource not available", type 901 "internal error".
type v1Error struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func v1Fail(w http.ResponseWriter, status, errType int, address, description string) {
	writeJSON(w, status, []map[string]v1Error{
		{"error": {Type: errType, Address: address, Description: description}},
	})
}

// legacyAuth requires the {user} path segment to be a registered key.
func (s *Server) legacyAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := mux.Vars(r)["user"]
		if !s.store.HasAppKey(user) {
			v1Fail(w, http.StatusForbidden, 1, "/", "unauthorized user")
			return
		}
		next(w, r)
	}
}

// handleShortConfig serves GET /api/config, the only unauthenticated
// endpoint. Discovery tools fingerprint bridges on this response.
func (s *Server) handleShortConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, hue.NewShortConfig(s.name, s.mac))
}

// handleNewUser implements the legacy pairing flow. The emulated bridge
// has no physical link button, so registration always succeeds.
func (s *Server) handleNewUser(w http.ResponseWriter, r *http.Request) {
	var req hue.NewUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		v1Fail(w, http.StatusBadRequest, 2, "/", "body contains invalid JSON")
		return
	}

	username := uuid.New().String()
	var clientKey string
	if req.GenerateClientKey != nil && *req.GenerateClientKey {
		clientKey = strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	}

	if err := s.store.AddAppKey(username, req.DeviceType, clientKey); err != nil {
		v1Fail(w, http.StatusInternalServerError, 901, "/", "failed to store credentials")
		return
	}

	log.Info().Str("devicetype", req.DeviceType).Msg("Registered new application")
	writeJSON(w, http.StatusOK, []map[string]hue.NewUserReply{
		{"success": {Username: username, ClientKey: clientKey}},
	})
}

// handleV1Lights serves the legacy lights collection, keyed by numeric id.
func (s *Server) handleV1Lights(w http.ResponseWriter, _ *http.Request) {
	lights := make(map[string]hue.V1Light)
	for _, rec := range s.store.List(hue.RTypeLight) {
		num, light, err := v1LightOf(rec)
		if err != nil {
			log.Warn().Err(err).Str("id", rec.ID.String()).Msg("Skipping corrupt light resource")
			continue
		}
		lights[num] = light
	}
	writeJSON(w, http.StatusOK, lights)
}

func (s *Server) handleV1Light(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.v1Lookup(mux.Vars(r)["id"])
	if !ok {
		v1Fail(w, http.StatusNotFound, 3, r.URL.Path, "resource not available")
		return
	}

	_, light, err := v1LightOf(rec)
	if err != nil {
		v1Fail(w, http.StatusInternalServerError, 901, r.URL.Path, "corrupt resource")
		return
	}
	writeJSON(w, http.StatusOK, light)
}

// handleV1LightState is the legacy state change endpoint. The body is
// lifted into the v2 update shape and funneled through the same zigbee
// path as CLIP updates.
func (s *Server) handleV1LightState(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, ok := s.v1Lookup(id)
	if !ok {
		v1Fail(w, http.StatusNotFound, 3, r.URL.Path, "resource not available")
		return
	}

	var stateUpd hue.V1StateUpdate
	if err := json.NewDecoder(r.Body).Decode(&stateUpd); err != nil {
		v1Fail(w, http.StatusBadRequest, 2, r.URL.Path, "body contains invalid JSON")
		return
	}

	if _, err := s.applyLightUpdate(r.Context(), rec, stateUpd.ToLightUpdate()); err != nil {
		status := http.StatusInternalServerError
		errType := 901
		if isCallerError(err) {
			status = http.StatusBadRequest
			errType = 7 // invalid value for parameter
		}
		v1Fail(w, status, errType, r.URL.Path, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, v1StateSuccess(id, stateUpd))
}

// v1StateSuccess builds the per-attribute success list legacy clients
// expect, one entry per field that was present in the request.
func v1StateSuccess(id string, upd hue.V1StateUpdate) []map[string]map[string]any {
	var out []map[string]map[string]any
	add := func(attr string, value any) {
		out = append(out, map[string]map[string]any{
			"success": {fmt.Sprintf("/lights/%s/state/%s", id, attr): value},
		})
	}

	if upd.On != nil {
		add("on", *upd.On)
	}
	if upd.Bri != nil {
		add("bri", *upd.Bri)
	}
	if upd.Ct != nil {
		add("ct", *upd.Ct)
	}
	if upd.XY != nil {
		add("xy", *upd.XY)
	}
	if out == nil {
		out = []map[string]map[string]any{}
	}
	return out
}

// v1Lookup resolves a legacy numeric light id to its record.
func (s *Server) v1Lookup(id string) (resource.Record, bool) {
	if _, err := strconv.Atoi(id); err != nil {
		return resource.Record{}, false
	}
	want := "/lights/" + id
	for _, rec := range s.store.List(hue.RTypeLight) {
		if rec.IDV1 == want {
			return rec, true
		}
	}
	return resource.Record{}, false
}

// v1LightOf projects a stored light record into its legacy shape plus
// its numeric id.
func v1LightOf(rec resource.Record) (string, hue.V1Light, error) {
	var light hue.Light
	if err := json.Unmarshal(rec.Payload, &light); err != nil {
		return "", hue.V1Light{}, err
	}
	num := strings.TrimPrefix(rec.IDV1, "/lights/")
	return num, hue.V1LightFromResource(light), nil
}
