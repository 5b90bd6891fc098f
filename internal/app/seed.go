package app

import (
	"encoding/json"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/luxbridge/luxd/internal/color"
	"github.com/luxbridge/luxd/internal/config"
	"github.com/luxbridge/luxd/internal/hue"
	"github.com/luxbridge/luxd/internal/resource"
)

// seedResources populates the datastore on first start: the bridge
// resource, an all-lights group and one light per configured entry. An
// already-seeded store is left untouched so identities stay stable
// across restarts.
func seedResources(store *resource.Store, cfg *config.Config, mac net.HardwareAddr) error {
	if len(store.List(hue.RTypeBridge)) == 0 {
		bridge := hue.Bridge{
			ID:       uuid.NewString(),
			Type:     hue.RTypeBridge,
			BridgeID: hue.BridgeIDFromMAC(mac),
		}
		bridge.TimeZone.TimeZone = cfg.Bridge.Timezone

		if err := addResource(store, hue.RTypeBridge, bridge.ID, "", bridge); err != nil {
			return err
		}
		log.Info().Str("bridgeid", bridge.BridgeID).Msg("Seeded bridge resource")
	}

	if len(store.List(hue.RTypeGroupedLight)) == 0 {
		group := hue.GroupedLight{
			ID:   uuid.NewString(),
			IDV1: "/groups/0",
			Type: hue.RTypeGroupedLight,
			On:   hue.On{On: false},
		}
		if err := addResource(store, hue.RTypeGroupedLight, group.ID, group.IDV1, group); err != nil {
			return err
		}
	}

	if len(store.List(hue.RTypeLight)) > 0 || len(cfg.Lights) == 0 {
		return nil
	}

	for _, lc := range cfg.Lights {
		light := newLight(lc)
		idV1 := store.NextV1ID(hue.RTypeLight)
		light.IDV1 = idV1
		if err := addResource(store, hue.RTypeLight, light.ID, idV1, light); err != nil {
			return err
		}
	}
	log.Info().Int("lights", len(cfg.Lights)).Msg("Seeded configured lights")

	return nil
}

// newLight builds a full-featured color light resource from its config
// entry. All seeded lights dim and tune white; gradient capability is
// opt-in.
func newLight(lc config.LightConfig) hue.Light {
	gamut := color.ByName(lc.GamutType)

	light := hue.Light{
		ID:       uuid.NewString(),
		Type:     hue.RTypeLight,
		Metadata: hue.Metadata{Name: lc.Name, Archetype: lc.Archetype},
		On:       hue.On{On: false},
		Dimming:  &hue.Dimming{Brightness: 100},
		ColorTemperature: &hue.ColorTemperature{
			MirekValid:  false,
			MirekSchema: hue.MirekSchema{MirekMinimum: 153, MirekMaximum: 500},
		},
		Color: &hue.Color{
			XY:        color.XY{X: 0.4573, Y: 0.41},
			Gamut:     &gamut,
			GamutType: lc.GamutType,
		},
	}

	if lc.Gradient {
		light.Gradient = &hue.Gradient{
			Points: []hue.GradientPoint{},
			Mode:   hue.GradientModeInterpolated,
			ModeValues: []string{
				hue.GradientModeInterpolated,
				hue.GradientModeMirrored,
				hue.GradientModePixelated,
			},
			PointsCapable: 5,
			PixelCount:    lc.Segments,
		}
	}

	return light
}

func addResource(store *resource.Store, rtype, id, idV1 string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Add(resource.Record{
		ID:      uuid.MustParse(id),
		RType:   rtype,
		IDV1:    idV1,
		Payload: payload,
	})
}
