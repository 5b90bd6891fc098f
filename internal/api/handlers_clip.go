package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/luxbridge/luxd/internal/eventbus"
	"github.com/luxbridge/luxd/internal/hue"
	"github.com/luxbridge/luxd/internal/resource"
	"github.com/luxbridge/luxd/internal/zigbee"
)

// clipResponse is the CLIP v2 envelope: both fields are always present.
type clipResponse struct {
	Errors []clipError `json:"errors"`
	Data   []any       `json:"data"`
}

type clipError struct {
	Description string `json:"description"`
}

func clipData(w http.ResponseWriter, data []any) {
	writeJSON(w, http.StatusOK, clipResponse{Errors: []clipError{}, Data: data})
}

func clipFail(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, clipResponse{
		Errors: []clipError{{Description: description}},
		Data:   []any{},
	})
}

// clipAuth requires a registered hue-application-key header.
func (s *Server) clipAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("hue-application-key")
		if key == "" || !s.store.HasAppKey(key) {
			clipFail(w, http.StatusForbidden, "unauthorized user")
			return
		}
		next(w, r)
	}
}

func rawPayloads(recs []resource.Record) []any {
	return lo.Map(recs, func(r resource.Record, _ int) any {
		return json.RawMessage(r.Payload)
	})
}

func (s *Server) handleClipAll(w http.ResponseWriter, _ *http.Request) {
	clipData(w, rawPayloads(s.store.All()))
}

func (s *Server) handleClipList(w http.ResponseWriter, r *http.Request) {
	rtype := mux.Vars(r)["rtype"]
	clipData(w, rawPayloads(s.store.List(rtype)))
}

func (s *Server) handleClipGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	rec, ok := s.lookup(vars["rid"], vars["rtype"])
	if !ok {
		clipFail(w, http.StatusNotFound, "resource not found")
		return
	}
	clipData(w, []any{json.RawMessage(rec.Payload)})
}

func (s *Server) handleClipLightPut(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(mux.Vars(r)["rid"], hue.RTypeLight)
	if !ok {
		clipFail(w, http.StatusNotFound, "resource not found")
		return
	}

	var upd hue.LightUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		clipFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.applyLightUpdate(r.Context(), rec, upd); err != nil {
		status := http.StatusInternalServerError
		if isCallerError(err) {
			status = http.StatusBadRequest
		}
		clipFail(w, status, err.Error())
		return
	}

	clipData(w, []any{hue.ResourceRef{RID: rec.ID.String(), RType: hue.RTypeLight}})
}

// handleClipGroupedLightPut fans an update out to every light in the
// group. Gradients are per-light state and are rejected here.
func (s *Server) handleClipGroupedLightPut(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(mux.Vars(r)["rid"], hue.RTypeGroupedLight)
	if !ok {
		clipFail(w, http.StatusNotFound, "resource not found")
		return
	}

	var upd hue.LightUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		clipFail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if upd.Gradient != nil {
		clipFail(w, http.StatusBadRequest, "gradient is not supported on grouped lights")
		return
	}

	for _, lightRec := range s.store.List(hue.RTypeLight) {
		if _, err := s.applyLightUpdate(r.Context(), lightRec, upd); err != nil {
			status := http.StatusInternalServerError
			if isCallerError(err) {
				status = http.StatusBadRequest
			}
			clipFail(w, status, err.Error())
			return
		}
	}

	var group hue.GroupedLight
	if err := json.Unmarshal(rec.Payload, &group); err != nil {
		clipFail(w, http.StatusInternalServerError, "corrupt grouped_light resource")
		return
	}
	if upd.On != nil {
		group.On.On = upd.On.On
	}
	if upd.Dimming != nil {
		group.Dimming = &hue.Dimming{Brightness: upd.Dimming.Brightness}
	}
	payload, err := json.Marshal(group)
	if err != nil {
		clipFail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.Update(rec.ID, payload); err != nil {
		clipFail(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.bus.Publish(eventbus.Event{
		Type:  eventbus.EventTypeUpdate,
		RType: hue.RTypeGroupedLight,
		ID:    rec.ID,
		Data:  group,
	})
	clipData(w, []any{hue.ResourceRef{RID: rec.ID.String(), RType: hue.RTypeGroupedLight}})
}

// handleClipScenePut supports scene recall: every action of the scene is
// replayed onto its target light.
func (s *Server) handleClipScenePut(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(mux.Vars(r)["rid"], hue.RTypeScene)
	if !ok {
		clipFail(w, http.StatusNotFound, "resource not found")
		return
	}

	var upd hue.SceneUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		clipFail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if upd.Recall == nil {
		clipFail(w, http.StatusBadRequest, "scene update requires a recall block")
		return
	}

	var scene hue.Scene
	if err := json.Unmarshal(rec.Payload, &scene); err != nil {
		clipFail(w, http.StatusInternalServerError, "corrupt scene resource")
		return
	}

	for _, action := range scene.Actions {
		targetID, err := uuid.Parse(action.Target.RID)
		if err != nil {
			continue
		}
		lightRec, ok := s.store.Get(targetID)
		if !ok {
			log.Warn().Str("scene", scene.ID).Str("target", action.Target.RID).Msg("Scene targets a missing light")
			continue
		}
		if _, err := s.applyLightUpdate(r.Context(), lightRec, action.Action); err != nil {
			clipFail(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	s.bus.Publish(eventbus.Event{
		Type:  eventbus.EventTypeUpdate,
		RType: hue.RTypeScene,
		ID:    rec.ID,
		Data:  scene,
	})
	clipData(w, []any{hue.ResourceRef{RID: rec.ID.String(), RType: hue.RTypeScene}})
}

// lookup resolves a rid string, optionally constrained to one rtype.
func (s *Server) lookup(rid, rtype string) (resource.Record, bool) {
	id, err := uuid.Parse(rid)
	if err != nil {
		return resource.Record{}, false
	}
	rec, ok := s.store.Get(id)
	if !ok || (rtype != "" && rec.RType != rtype) {
		return resource.Record{}, false
	}
	return rec, true
}

// isCallerError reports whether err is an input validation failure rather
// than an internal fault. These map to 400s and are never retried.
func isCallerError(err error) bool {
	var lenErr *zigbee.GradientLengthError
	var briErr *zigbee.BrightnessRangeError
	var mirekErr *zigbee.MirekRangeError
	return errors.Is(err, zigbee.ErrEmptyGradient) ||
		errors.As(err, &lenErr) ||
		errors.As(err, &briErr) ||
		errors.As(err, &mirekErr)
}
